package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/AdamBeresnev/pong-tracker/internal/game"
	"github.com/AdamBeresnev/pong-tracker/internal/metrics"
	"github.com/AdamBeresnev/pong-tracker/internal/store"
	"github.com/AdamBeresnev/pong-tracker/internal/testutil"
)

type services struct {
	db          *sqlx.DB
	metrics     *metrics.Service
	games       *GameService
	rounds      *RoundService
	leaderboard *LeaderboardService
	players     *PlayerService
}

func newServices(t *testing.T) services {
	t.Helper()
	db := testutil.NewTestDB(t)
	gameStore := store.NewGameStore(db)
	playerStore := store.NewPlayerStore(db)
	m := metrics.NewService(prometheus.NewRegistry())

	return services{
		db:          db,
		metrics:     m,
		games:       NewGameService(db, gameStore, playerStore, m),
		rounds:      NewRoundService(db, gameStore, playerStore, game.NewProcessor(true), m),
		leaderboard: NewLeaderboardService(store.NewLeaderboardStore(db)),
		players:     NewPlayerService(playerStore),
	}
}

func ids(players []uuid.UUID) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.String()
	}
	return out
}

// startGame seeds six players and starts a 3v3 game between them.
func startGame(t *testing.T, s services) (uuid.UUID, []uuid.UUID) {
	t.Helper()
	players := testutil.SeedPlayers(t, s.db, 6)
	gameID, err := s.games.CreateGame(context.Background(), CreateGameInput{
		Mode:     game.ModeCompetitive,
		TeamSize: 3,
		Team1:    TeamInput{Name: "Alpha", Players: ids(players[:3])},
		Team2:    TeamInput{Name: "Bravo", Players: ids(players[3:])},
	})
	require.NoError(t, err)
	return gameID, players
}
