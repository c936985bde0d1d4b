package game

import (
	"math"

	"github.com/google/uuid"
)

const (
	MinScore = 0.00
	MaxScore = 2.00
)

// PlayerStats is one player's line for one game.
type PlayerStats struct {
	ID         uuid.UUID `db:"id"`
	GameID     uuid.UUID `db:"game_id"`
	PlayerID   uuid.UUID `db:"player_id"`
	ShotsTaken int       `db:"shots_taken"`
	CupsMade   int       `db:"cups_made"`
	OwnCups    int       `db:"own_cups"`
	DeathCups  int       `db:"death_cups"`
	ClutchCups int       `db:"clutch_cups"`
	Accuracy   float64   `db:"accuracy"`
	Score      float64   `db:"score"`
}

func NewPlayerStats(gameID, playerID uuid.UUID) *PlayerStats {
	return &PlayerStats{
		ID:       uuid.New(),
		GameID:   gameID,
		PlayerID: playerID,
	}
}

// Recompute refreshes the derived fields from the counters.
func (s *PlayerStats) Recompute(teamCupsMade int) {
	s.Accuracy = Accuracy(s.CupsMade, s.ShotsTaken)
	s.Score = Score(s.CupsMade, teamCupsMade, s.ClutchCups, s.DeathCups, s.OwnCups)
}

func Accuracy(made, shots int) float64 {
	if shots <= 0 {
		return 0
	}
	return round2(float64(made) / float64(shots) * 100)
}

// Score is the composite rating, clamped to [0, 2] and rounded to 2 places.
func Score(made, teamMade, clutch, death, own int) float64 {
	score := 1.0
	if teamMade > 0 {
		score += 1.2 * (float64(made) / float64(teamMade))
	}
	score += 0.15 * float64(clutch)
	if death > 0 {
		score += math.Pow(1.5, float64(death)) - 1
	}
	score -= 0.40 * float64(own)

	// Inf from a huge death count clamps like any other out of range value
	score = math.Max(MinScore, math.Min(MaxScore, score))
	return round2(score)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
