// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/AdamBeresnev/pong-tracker/internal/db"
	"github.com/AdamBeresnev/pong-tracker/internal/player"
)

// MigrationsDir is relative to a package directory two levels below the module root.
const MigrationsDir = "../../migrations"

// NewTestDB creates an in-memory SQLite database and applies migrations.
// The pool is pinned to one connection so every query sees the same database.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", "file::memory:?_foreign_keys=on")
	require.NoError(t, err, "Failed to connect to in-memory DB")
	database.SetMaxOpenConns(1)

	require.NoError(t, db.RunMigrations(database.DB, MigrationsDir), "Failed to apply migrations")

	t.Cleanup(func() { database.Close() })
	return database
}

// SeedPlayers inserts n players named Player1..Playern and returns their ids.
func SeedPlayers(t *testing.T, database *sqlx.DB, n int) []uuid.UUID {
	t.Helper()

	ids := make([]uuid.UUID, 0, n)
	for i := 1; i <= n; i++ {
		p := player.Player{
			ID:       uuid.New(),
			Username: fmt.Sprintf("Player%d-%s", i, uuid.NewString()[:4]),
			Email:    fmt.Sprintf("player%d-%s@example.com", i, uuid.NewString()[:8]),
		}
		_, err := database.NamedExecContext(context.Background(),
			`INSERT INTO players (id, username, email, first_name, last_name) VALUES (:id, :username, :email, :first_name, :last_name)`, p)
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	return ids
}
