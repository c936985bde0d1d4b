package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/AdamBeresnev/pong-tracker/internal/game"
)

type LeaderboardStore struct {
	db *sqlx.DB
}

func NewLeaderboardStore(db *sqlx.DB) *LeaderboardStore {
	return &LeaderboardStore{db: db}
}

// Only players with at least one stats row can appear, the inner joins see to that.
const (
	leaderboardSelect = `
		SELECT
			p.id AS player_id,
			p.username AS player_name,
			COUNT(DISTINCT ps.game_id) AS games_played,
			COALESCE(SUM(ps.cups_made), 0) AS total_cups_made,
			COALESCE(AVG(ps.accuracy), 0) AS average_accuracy,
			COALESCE(SUM(ps.death_cups), 0) AS total_death_cups,
			COALESCE(AVG(ps.score), 0) AS average_rating
		FROM player_stats ps
		JOIN players p ON p.id = ps.player_id
		JOIN games g ON g.id = ps.game_id
	`
	leaderboardGroup = `
		GROUP BY p.id, p.username
		ORDER BY average_rating DESC, total_cups_made DESC, player_name ASC
	`
)

// GetLeaderboard aggregates stats across games. With completedOnly set, games
// still in play are left out.
func (s *LeaderboardStore) GetLeaderboard(ctx context.Context, completedOnly bool) ([]game.LeaderboardRow, error) {
	var rows []game.LeaderboardRow
	if completedOnly {
		err := s.db.SelectContext(ctx, &rows, leaderboardSelect+" WHERE g.status = ? "+leaderboardGroup, game.StatusCompleted)
		return rows, err
	}
	err := s.db.SelectContext(ctx, &rows, leaderboardSelect+leaderboardGroup)
	return rows, err
}
