package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AdamBeresnev/pong-tracker/internal/player"
)

type PlayerStore struct {
	db *sqlx.DB
}

const (
	getPlayerQuery       = "SELECT * FROM players WHERE id = ?"
	getPlayersByIDsQuery = "SELECT * FROM players WHERE id IN (?)"
	listPlayersQuery     = "SELECT * FROM players ORDER BY username ASC"
	createPlayerQuery    = `
		INSERT INTO players (id, username, email, first_name, last_name) VALUES
		(:id, :username, :email, :first_name, :last_name)
		ON CONFLICT DO NOTHING
	`
)

func NewPlayerStore(db *sqlx.DB) *PlayerStore {
	return &PlayerStore{db: db}
}

func (s *PlayerStore) GetPlayer(ctx context.Context, id uuid.UUID) (*player.Player, error) {
	var p player.Player
	err := s.db.GetContext(ctx, &p, getPlayerQuery, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPlayersByIDs returns the known players among ids, keyed by id.
func (s *PlayerStore) GetPlayersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]player.Player, error) {
	return getPlayersByIDs(ctx, s.db, ids)
}

func (s *PlayerStore) GetPlayersByIDsTx(ctx context.Context, tx *sqlx.Tx, ids []uuid.UUID) (map[uuid.UUID]player.Player, error) {
	return getPlayersByIDs(ctx, tx, ids)
}

func getPlayersByIDs(ctx context.Context, q sqlx.QueryerContext, ids []uuid.UUID) (map[uuid.UUID]player.Player, error) {
	found := make(map[uuid.UUID]player.Player, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	args := make([]string, len(ids))
	for i, id := range ids {
		args[i] = id.String()
	}
	query, params, err := sqlx.In(getPlayersByIDsQuery, args)
	if err != nil {
		return nil, err
	}

	var players []player.Player
	if err := sqlx.SelectContext(ctx, q, &players, sqlx.Rebind(sqlx.QUESTION, query), params...); err != nil {
		return nil, err
	}
	for _, p := range players {
		found[p.ID] = p
	}
	return found, nil
}

func (s *PlayerStore) ListPlayers(ctx context.Context) ([]player.Player, error) {
	var players []player.Player
	err := s.db.SelectContext(ctx, &players, listPlayersQuery)
	return players, err
}

// CreatePlayer inserts p unless its id, username or email is taken.
// Reports whether a row was written.
func (s *PlayerStore) CreatePlayer(ctx context.Context, p *player.Player) (bool, error) {
	res, err := s.db.NamedExecContext(ctx, createPlayerQuery, p)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
