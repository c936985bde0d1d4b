package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/AdamBeresnev/pong-tracker/internal/game"
)

type GameStore struct {
	db *sqlx.DB
}

func NewGameStore(db *sqlx.DB) *GameStore {
	return &GameStore{db: db}
}

const (
	createTeamQuery = `INSERT INTO teams (id, name, player_1_id, player_2_id, player_3_id, player_4_id, player_5_id, player_6_id)
		VALUES (:id, :name, :player_1_id, :player_2_id, :player_3_id, :player_4_id, :player_5_id, :player_6_id)`

	createGameQuery = `INSERT INTO games (id, team_a_id, team_b_id, team_size, mode, status, rack_status_a, rack_status_b,
			cups_made_a, cups_made_b, cups_remaining_a, cups_remaining_b, created_by)
		VALUES (:id, :team_a_id, :team_b_id, :team_size, :mode, :status, :rack_status_a, :rack_status_b,
			:cups_made_a, :cups_made_b, :cups_remaining_a, :cups_remaining_b, :created_by)`

	updateGameQuery = `UPDATE games SET
			status = :status,
			rack_status_a = :rack_status_a,
			rack_status_b = :rack_status_b,
			cups_made_a = :cups_made_a,
			cups_made_b = :cups_made_b,
			cups_remaining_a = :cups_remaining_a,
			cups_remaining_b = :cups_remaining_b,
			winner_id = :winner_id
		WHERE id = :id`

	lockGameQuery = "UPDATE games SET version = version + 1 WHERE id = ?"

	addCupQuery = "INSERT INTO game_cups (game_id, cup_id, player_id, round_number) VALUES (?, ?, ?, ?)"

	createRoundQuery = `INSERT INTO rounds (id, game_id, round_number, cups, death_cups, rack_status_a, rack_status_b)
		VALUES (:id, :game_id, :round_number, :cups, :death_cups, :rack_status_a, :rack_status_b)`

	upsertPlayerStatsQuery = `INSERT INTO player_stats (id, game_id, player_id, shots_taken, cups_made, own_cups, death_cups, clutch_cups, accuracy, score)
		VALUES (:id, :game_id, :player_id, :shots_taken, :cups_made, :own_cups, :death_cups, :clutch_cups, :accuracy, :score)
		ON CONFLICT(game_id, player_id) DO UPDATE SET
			shots_taken = excluded.shots_taken,
			cups_made = excluded.cups_made,
			own_cups = excluded.own_cups,
			death_cups = excluded.death_cups,
			clutch_cups = excluded.clutch_cups,
			accuracy = excluded.accuracy,
			score = excluded.score`

	listGamesQuery = `
		SELECT g.id, g.created_at, g.status, ta.name AS team1_name, tb.name AS team2_name, tw.name AS winner_name
		FROM games g
		JOIN teams ta ON ta.id = g.team_a_id
		JOIN teams tb ON tb.id = g.team_b_id
		LEFT JOIN teams tw ON tw.id = g.winner_id
		ORDER BY g.created_at DESC, g.rowid DESC
	`
)

func (s *GameStore) CreateTeam(ctx context.Context, tx *sqlx.Tx, team *game.Team) error {
	_, err := tx.NamedExecContext(ctx, createTeamQuery, team)
	return err
}

func (s *GameStore) CreateGame(ctx context.Context, tx *sqlx.Tx, g *game.Game) error {
	_, err := tx.NamedExecContext(ctx, createGameQuery, g)
	return err
}

func (s *GameStore) GetGame(ctx context.Context, id string) (*game.Game, error) {
	return getGame(ctx, s.db, id)
}

func (s *GameStore) GetGameTx(ctx context.Context, tx *sqlx.Tx, id string) (*game.Game, error) {
	return getGame(ctx, tx, id)
}

func getGame(ctx context.Context, q sqlx.QueryerContext, id string) (*game.Game, error) {
	var g game.Game
	if err := sqlx.GetContext(ctx, q, &g, "SELECT * FROM games WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &g, nil
}

// LockGameTx serializes writers on one game for the rest of tx.
// Returns sql.ErrNoRows when the game does not exist.
func (s *GameStore) LockGameTx(ctx context.Context, tx *sqlx.Tx, id string) error {
	res, err := tx.ExecContext(ctx, lockGameQuery, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *GameStore) UpdateGame(ctx context.Context, tx *sqlx.Tx, g *game.Game) error {
	_, err := tx.NamedExecContext(ctx, updateGameQuery, g)
	return err
}

func (s *GameStore) GetTeam(ctx context.Context, id string) (*game.Team, error) {
	return getTeam(ctx, s.db, id)
}

func (s *GameStore) GetTeamTx(ctx context.Context, tx *sqlx.Tx, id string) (*game.Team, error) {
	return getTeam(ctx, tx, id)
}

func getTeam(ctx context.Context, q sqlx.QueryerContext, id string) (*game.Team, error) {
	var team game.Team
	if err := sqlx.GetContext(ctx, q, &team, "SELECT * FROM teams WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &team, nil
}

type cupRow struct {
	CupID       int    `db:"cup_id"`
	PlayerID    string `db:"player_id"`
	RoundNumber int    `db:"round_number"`
}

func (s *GameStore) GetLedger(ctx context.Context, gameID string) (game.Ledger, error) {
	return getLedger(ctx, s.db, gameID)
}

func (s *GameStore) GetLedgerTx(ctx context.Context, tx *sqlx.Tx, gameID string) (game.Ledger, error) {
	return getLedger(ctx, tx, gameID)
}

func getLedger(ctx context.Context, q sqlx.QueryerContext, gameID string) (game.Ledger, error) {
	var rows []cupRow
	if err := sqlx.SelectContext(ctx, q, &rows, "SELECT cup_id, player_id, round_number FROM game_cups WHERE game_id = ? ORDER BY cup_id ASC", gameID); err != nil {
		return nil, err
	}
	ledger := make(game.Ledger, len(rows))
	for _, r := range rows {
		id, err := game.DecodeCupID(r.CupID)
		if err != nil {
			return nil, fmt.Errorf("corrupt ledger entry in game %s: %w", gameID, err)
		}
		ledger[id] = r.PlayerID
	}
	return ledger, nil
}

// AddCups appends a round's cups to the ledger. A cup that is already
// recorded fails with game.ErrConflict.
func (s *GameStore) AddCups(ctx context.Context, tx *sqlx.Tx, gameID uuid.UUID, roundNumber int, delta game.Ledger) error {
	for _, id := range delta.SortedIDs() {
		if _, err := tx.ExecContext(ctx, addCupQuery, gameID, id.Encode(), delta[id], roundNumber); err != nil {
			if isConstraintViolation(err) {
				return &game.ConflictError{CupIDs: []int{id.Encode()}}
			}
			return fmt.Errorf("failed to add cup %s: %w", id, err)
		}
	}
	return nil
}

func (s *GameStore) GetLastRoundNumberTx(ctx context.Context, tx *sqlx.Tx, gameID string) (int, error) {
	var last int
	err := tx.GetContext(ctx, &last, "SELECT COALESCE(MAX(round_number), 0) FROM rounds WHERE game_id = ?", gameID)
	return last, err
}

type roundRow struct {
	ID          uuid.UUID       `db:"id"`
	GameID      uuid.UUID       `db:"game_id"`
	RoundNumber int             `db:"round_number"`
	Cups        []byte          `db:"cups"`
	DeathCups   []byte          `db:"death_cups"`
	RackStatusA game.RackStatus `db:"rack_status_a"`
	RackStatusB game.RackStatus `db:"rack_status_b"`
	CreatedAt   time.Time       `db:"created_at"`
}

func (s *GameStore) CreateRound(ctx context.Context, tx *sqlx.Tx, round *game.Round) error {
	wire := make(map[int]string, len(round.Cups))
	for id, p := range round.Cups {
		wire[id.Encode()] = p
	}
	cups, err := msgpack.Marshal(wire)
	if err != nil {
		return fmt.Errorf("failed to encode round cups: %w", err)
	}
	deathCups, err := msgpack.Marshal(round.DeathCups)
	if err != nil {
		return fmt.Errorf("failed to encode death cups: %w", err)
	}

	row := roundRow{
		ID:          round.ID,
		GameID:      round.GameID,
		RoundNumber: round.RoundNumber,
		Cups:        cups,
		DeathCups:   deathCups,
		RackStatusA: round.RackStatusA,
		RackStatusB: round.RackStatusB,
	}
	if _, err := tx.NamedExecContext(ctx, createRoundQuery, row); err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("%w: round %d already exists", game.ErrConflict, round.RoundNumber)
		}
		return err
	}
	return nil
}

func (s *GameStore) GetRounds(ctx context.Context, gameID string) ([]game.Round, error) {
	var rows []roundRow
	if err := s.db.SelectContext(ctx, &rows, "SELECT * FROM rounds WHERE game_id = ? ORDER BY round_number ASC", gameID); err != nil {
		return nil, err
	}

	rounds := make([]game.Round, 0, len(rows))
	for _, r := range rows {
		var wire map[int]string
		if err := msgpack.Unmarshal(r.Cups, &wire); err != nil {
			return nil, fmt.Errorf("failed to decode cups of round %d: %w", r.RoundNumber, err)
		}
		cups := make(game.Ledger, len(wire))
		for n, p := range wire {
			id, err := game.DecodeCupID(n)
			if err != nil {
				return nil, err
			}
			cups[id] = p
		}
		var deathCups []string
		if err := msgpack.Unmarshal(r.DeathCups, &deathCups); err != nil {
			return nil, fmt.Errorf("failed to decode death cups of round %d: %w", r.RoundNumber, err)
		}

		rounds = append(rounds, game.Round{
			ID:          r.ID,
			GameID:      r.GameID,
			RoundNumber: r.RoundNumber,
			Cups:        cups,
			DeathCups:   deathCups,
			RackStatusA: r.RackStatusA,
			RackStatusB: r.RackStatusB,
			CreatedAt:   r.CreatedAt,
		})
	}
	return rounds, nil
}

func (s *GameStore) GetPlayerStats(ctx context.Context, gameID string) ([]game.PlayerStats, error) {
	return getPlayerStats(ctx, s.db, gameID)
}

func (s *GameStore) GetPlayerStatsTx(ctx context.Context, tx *sqlx.Tx, gameID string) ([]game.PlayerStats, error) {
	return getPlayerStats(ctx, tx, gameID)
}

func getPlayerStats(ctx context.Context, q sqlx.QueryerContext, gameID string) ([]game.PlayerStats, error) {
	var stats []game.PlayerStats
	err := sqlx.SelectContext(ctx, q, &stats, "SELECT * FROM player_stats WHERE game_id = ? ORDER BY player_id ASC", gameID)
	return stats, err
}

func (s *GameStore) SavePlayerStats(ctx context.Context, tx *sqlx.Tx, stats []*game.PlayerStats) error {
	for _, ps := range stats {
		if _, err := tx.NamedExecContext(ctx, upsertPlayerStatsQuery, ps); err != nil {
			return fmt.Errorf("failed to save stats for player %s: %w", ps.PlayerID, err)
		}
	}
	return nil
}

func (s *GameStore) ListGames(ctx context.Context) ([]game.Summary, error) {
	var games []game.Summary
	err := s.db.SelectContext(ctx, &games, listGamesQuery)
	return games, err
}
