package service

import (
	"context"
	"fmt"
	"math"

	"github.com/AdamBeresnev/pong-tracker/internal/game"
	"github.com/AdamBeresnev/pong-tracker/internal/store"
)

type LeaderboardService struct {
	store *store.LeaderboardStore
}

func NewLeaderboardService(store *store.LeaderboardStore) *LeaderboardService {
	return &LeaderboardService{store: store}
}

// GetLeaderboard returns per-player aggregates, best average rating first.
// Unless includeInProgress is set only completed games count.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, includeInProgress bool) ([]game.LeaderboardRow, error) {
	rows, err := s.store.GetLeaderboard(ctx, !includeInProgress)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	for i := range rows {
		rows[i].AverageAccuracy = math.Round(rows[i].AverageAccuracy*100) / 100
		rows[i].AverageRating = math.Round(rows[i].AverageRating*100) / 100
	}
	return rows, nil
}
