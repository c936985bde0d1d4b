package views

import (
	"github.com/google/uuid"

	"github.com/AdamBeresnev/pong-tracker/internal/game"
	"github.com/AdamBeresnev/pong-tracker/internal/player"
)

type LeaderboardEntry struct {
	PlayerName      string  `json:"player_name"`
	GamesPlayed     int     `json:"games_played"`
	TotalCupsMade   int     `json:"total_cups_made"`
	AverageAccuracy float64 `json:"average_accuracy"`
	TotalDeathCups  int     `json:"total_death_cups"`
	AverageRating   float64 `json:"average_rating"`
}

type PlayerItem struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

func NewLeaderboard(rows []game.LeaderboardRow) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, LeaderboardEntry{
			PlayerName:      r.PlayerName,
			GamesPlayed:     r.GamesPlayed,
			TotalCupsMade:   r.TotalCupsMade,
			AverageAccuracy: r.AverageAccuracy,
			TotalDeathCups:  r.TotalDeathCups,
			AverageRating:   r.AverageRating,
		})
	}
	return entries
}

func NewPlayerList(players []player.Player) []PlayerItem {
	items := make([]PlayerItem, 0, len(players))
	for _, p := range players {
		items = append(items, PlayerItem{UserID: p.ID, Username: p.Username})
	}
	return items
}
