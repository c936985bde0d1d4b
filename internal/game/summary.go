package game

import (
	"time"

	"github.com/google/uuid"
)

// Summary is a row of the games list.
type Summary struct {
	ID         uuid.UUID `db:"id"`
	CreatedAt  time.Time `db:"created_at"`
	Status     Status    `db:"status"`
	Team1Name  string    `db:"team1_name"`
	Team2Name  string    `db:"team2_name"`
	WinnerName *string   `db:"winner_name"`
}

// LeaderboardRow aggregates one player's stats across games.
type LeaderboardRow struct {
	PlayerID        uuid.UUID `db:"player_id"`
	PlayerName      string    `db:"player_name"`
	GamesPlayed     int       `db:"games_played"`
	TotalCupsMade   int       `db:"total_cups_made"`
	AverageAccuracy float64   `db:"average_accuracy"`
	TotalDeathCups  int       `db:"total_death_cups"`
	AverageRating   float64   `db:"average_rating"`
}
