package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AdamBeresnev/pong-tracker/internal/game"
	"github.com/AdamBeresnev/pong-tracker/internal/metrics"
	"github.com/AdamBeresnev/pong-tracker/internal/middleware"
	"github.com/AdamBeresnev/pong-tracker/internal/player"
	"github.com/AdamBeresnev/pong-tracker/internal/store"
)

type GameService struct {
	db      *sqlx.DB
	store   *store.GameStore
	players *store.PlayerStore
	metrics metrics.Metrics
}

func NewGameService(db *sqlx.DB, store *store.GameStore, players *store.PlayerStore, metrics metrics.Metrics) *GameService {
	return &GameService{db: db, store: store, players: players, metrics: metrics}
}

type TeamInput struct {
	Name    string
	Players []string
}

type CreateGameInput struct {
	Mode     game.Mode
	TeamSize int
	Team1    TeamInput
	Team2    TeamInput
}

// GameData is a game with everything needed to render its state.
type GameData struct {
	Game    *game.Game
	TeamA   *game.Team
	TeamB   *game.Team
	Ledger  game.Ledger
	Stats   []game.PlayerStats
	Players map[uuid.UUID]player.Player
}

// CreateGame creates both teams and the game in one transaction.
func (s *GameService) CreateGame(ctx context.Context, in CreateGameInput) (uuid.UUID, error) {
	if in.Mode == "" || in.TeamSize == 0 {
		return uuid.Nil, fmt.Errorf("%w: game mode and team size are required", game.ErrInvalidInput)
	}
	if !in.Mode.Valid() {
		return uuid.Nil, fmt.Errorf("%w: unknown game mode %q", game.ErrInvalidInput, in.Mode)
	}
	if in.TeamSize < game.MinTeamSize || in.TeamSize > game.MaxTeamSize {
		return uuid.Nil, fmt.Errorf("%w: team size must be between %d and %d", game.ErrInvalidInput, game.MinTeamSize, game.MaxTeamSize)
	}

	team1Players, err := parseRoster(in.Team1, in.TeamSize)
	if err != nil {
		return uuid.Nil, err
	}
	team2Players, err := parseRoster(in.Team2, in.TeamSize)
	if err != nil {
		return uuid.Nil, err
	}
	for _, p := range team2Players {
		for _, q := range team1Players {
			if p == q {
				return uuid.Nil, fmt.Errorf("%w: player %s cannot play for both teams", game.ErrInvalidInput, p)
			}
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	known, err := s.players.GetPlayersByIDsTx(ctx, tx, append(append([]uuid.UUID{}, team1Players...), team2Players...))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to look up players: %w", err)
	}
	if len(known) != 2*in.TeamSize {
		return uuid.Nil, fmt.Errorf("%w: some provided player IDs do not exist", game.ErrInvalidInput)
	}

	teamA, err := game.NewTeam(strings.TrimSpace(in.Team1.Name), team1Players)
	if err != nil {
		return uuid.Nil, err
	}
	teamB, err := game.NewTeam(strings.TrimSpace(in.Team2.Name), team2Players)
	if err != nil {
		return uuid.Nil, err
	}
	g := game.NewGame(teamA, teamB, in.TeamSize, in.Mode)
	if ownerID, ok := middleware.GetPlayerIDFromContext(ctx); ok {
		g.CreatedBy = &ownerID
	}

	if err := s.store.CreateTeam(ctx, tx, teamA); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create team %q: %w", teamA.Name, err)
	}
	if err := s.store.CreateTeam(ctx, tx, teamB); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create team %q: %w", teamB.Name, err)
	}
	if err := s.store.CreateGame(ctx, tx, g); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create game: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, err
	}

	s.metrics.IncGamesCreated()
	slog.Info("Game created", "game_id", g.ID, "mode", g.Mode, "team_size", g.TeamSize)
	return g.ID, nil
}

func parseRoster(team TeamInput, size int) ([]uuid.UUID, error) {
	if strings.TrimSpace(team.Name) == "" || len(team.Players) == 0 {
		return nil, fmt.Errorf("%w: team name and players are required", game.ErrInvalidInput)
	}
	if len(team.Players) != size {
		return nil, fmt.Errorf("%w: team must have exactly %d players", game.ErrInvalidInput, size)
	}

	ids := make([]uuid.UUID, 0, size)
	seen := make(map[uuid.UUID]struct{}, size)
	for _, raw := range team.Players {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid player id %q", game.ErrInvalidInput, raw)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: player %s listed twice on team %q", game.ErrInvalidInput, id, team.Name)
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *GameService) GetGameState(ctx context.Context, id string) (*GameData, error) {
	gameID, err := parseGameID(id)
	if err != nil {
		return nil, err
	}

	g, err := s.store.GetGame(ctx, gameID.String())
	if err != nil {
		return nil, notFound(err, gameID)
	}
	teamA, err := s.store.GetTeam(ctx, g.TeamAID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get team A: %w", err)
	}
	teamB, err := s.store.GetTeam(ctx, g.TeamBID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get team B: %w", err)
	}
	ledger, err := s.store.GetLedger(ctx, g.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger: %w", err)
	}
	stats, err := s.store.GetPlayerStats(ctx, g.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get player stats: %w", err)
	}
	players, err := s.players.GetPlayersByIDs(ctx, append(teamA.Roster(), teamB.Roster()...))
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}

	return &GameData{
		Game:    g,
		TeamA:   teamA,
		TeamB:   teamB,
		Ledger:  ledger,
		Stats:   stats,
		Players: players,
	}, nil
}

func (s *GameService) ListGames(ctx context.Context) ([]game.Summary, error) {
	return s.store.ListGames(ctx)
}

func (s *GameService) GetRounds(ctx context.Context, id string) ([]game.Round, error) {
	gameID, err := parseGameID(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetGame(ctx, gameID.String()); err != nil {
		return nil, notFound(err, gameID)
	}
	return s.store.GetRounds(ctx, gameID.String())
}

// Malformed ids can't name a stored game, so they are reported as missing.
func parseGameID(id string) (uuid.UUID, error) {
	gameID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: game %q", game.ErrNotFound, id)
	}
	return gameID, nil
}

func notFound(err error, gameID uuid.UUID) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: game %s", game.ErrNotFound, gameID)
	}
	return fmt.Errorf("failed to get game: %w", err)
}
