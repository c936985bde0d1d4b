package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AdamBeresnev/pong-tracker/internal/game"
	"github.com/AdamBeresnev/pong-tracker/internal/metrics"
	"github.com/AdamBeresnev/pong-tracker/internal/store"
)

type RoundService struct {
	db        *sqlx.DB
	store     *store.GameStore
	players   *store.PlayerStore
	processor game.Processor
	metrics   metrics.Metrics
}

func NewRoundService(db *sqlx.DB, store *store.GameStore, players *store.PlayerStore, processor game.Processor, metrics metrics.Metrics) *RoundService {
	return &RoundService{db: db, store: store, players: players, processor: processor, metrics: metrics}
}

type RoundInput struct {
	Cups      map[string]string
	DeathCups []string
}

type RoundResult struct {
	GameData
	Round game.Round
}

// SubmitRound applies one batch of cup hits under the game's lock.
func (s *RoundService) SubmitRound(ctx context.Context, gameID string, in RoundInput) (*RoundResult, error) {
	start := time.Now()
	result, skipped, err := s.submitRound(ctx, gameID, in)
	s.metrics.ObserveRoundDuration(time.Since(start).Seconds())
	if err != nil {
		s.metrics.IncRoundsRejected(rejectReason(err))
		return nil, err
	}

	s.metrics.IncRoundsProcessed()
	if len(skipped) > 0 {
		s.metrics.AddUnknownPlayersSkipped(len(skipped))
		slog.Warn("Ignored players not on either roster", "game_id", result.Game.ID, "round_number", result.Round.RoundNumber, "player_ids", skipped)
	}
	if result.Game.IsFinished() {
		s.metrics.IncGamesCompleted()
		slog.Info("Game completed", "game_id", result.Game.ID, "winner_id", result.Game.WinnerID, "rounds", result.Round.RoundNumber)
	}
	return result, nil
}

func (s *RoundService) submitRound(ctx context.Context, id string, in RoundInput) (*RoundResult, []string, error) {
	gameID, err := parseGameID(id)
	if err != nil {
		return nil, nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	if err := s.store.LockGameTx(ctx, tx, gameID.String()); err != nil {
		return nil, nil, notFound(err, gameID)
	}
	g, err := s.store.GetGameTx(ctx, tx, gameID.String())
	if err != nil {
		return nil, nil, notFound(err, gameID)
	}
	if g.IsFinished() {
		return nil, nil, fmt.Errorf("%w: game %s is already completed", game.ErrInvalidState, g.ID)
	}

	delta, err := game.ParseCups(in.Cups)
	if err != nil {
		return nil, nil, err
	}

	state, err := s.loadState(ctx, tx, g)
	if err != nil {
		return nil, nil, err
	}

	outcome, err := s.processor.Apply(state, delta, in.DeathCups)
	if err != nil {
		return nil, nil, err
	}

	if err := s.store.AddCups(ctx, tx, g.ID, outcome.Round.RoundNumber, delta); err != nil {
		return nil, nil, err
	}
	if err := s.store.CreateRound(ctx, tx, &outcome.Round); err != nil {
		return nil, nil, fmt.Errorf("failed to create round: %w", err)
	}
	if err := s.store.UpdateGame(ctx, tx, g); err != nil {
		return nil, nil, fmt.Errorf("failed to update game: %w", err)
	}

	stats := make([]game.PlayerStats, 0, len(outcome.Stats))
	for _, ps := range outcome.Stats {
		stats = append(stats, *ps)
	}
	game.SortStats(stats)
	rows := make([]*game.PlayerStats, len(stats))
	for i := range stats {
		rows[i] = &stats[i]
	}
	if err := s.store.SavePlayerStats(ctx, tx, rows); err != nil {
		return nil, nil, err
	}

	players, err := s.players.GetPlayersByIDsTx(ctx, tx, append(state.TeamA.Roster(), state.TeamB.Roster()...))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get players: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	return &RoundResult{
		GameData: GameData{
			Game:    g,
			TeamA:   state.TeamA,
			TeamB:   state.TeamB,
			Ledger:  state.Ledger,
			Stats:   stats,
			Players: players,
		},
		Round: outcome.Round,
	}, outcome.Skipped, nil
}

func (s *RoundService) loadState(ctx context.Context, tx *sqlx.Tx, g *game.Game) (*game.RoundState, error) {
	teamA, err := s.store.GetTeamTx(ctx, tx, g.TeamAID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get team A: %w", err)
	}
	teamB, err := s.store.GetTeamTx(ctx, tx, g.TeamBID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get team B: %w", err)
	}
	ledger, err := s.store.GetLedgerTx(ctx, tx, g.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger: %w", err)
	}
	rows, err := s.store.GetPlayerStatsTx(ctx, tx, g.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get player stats: %w", err)
	}
	last, err := s.store.GetLastRoundNumberTx(ctx, tx, g.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get last round number: %w", err)
	}

	stats := make(map[uuid.UUID]*game.PlayerStats, len(rows))
	for i := range rows {
		stats[rows[i].PlayerID] = &rows[i]
	}

	return &game.RoundState{
		Game:            g,
		TeamA:           teamA,
		TeamB:           teamB,
		Ledger:          ledger,
		Stats:           stats,
		LastRoundNumber: last,
	}, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, game.ErrNotFound):
		return "not_found"
	case errors.Is(err, game.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, game.ErrConflict):
		return "conflict"
	case errors.Is(err, game.ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}
