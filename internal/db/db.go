package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"

	"github.com/AdamBeresnev/pong-tracker/internal/config"
)

// Local databases take the write lock when a transaction begins, so two
// round submissions for the same game queue instead of interleaving.
const localDSNOptions = "?_journal_mode=WAL&_txlock=immediate&_busy_timeout=5000&_foreign_keys=on"

func InitDB(cfg config.DBConfig) (*sqlx.DB, error) {
	if cfg.Turso.PrimaryURL != "" {
		slog.Info("Connecting to Turso database", "url", cfg.Turso.PrimaryURL)
		db, err := sqlx.Connect("libsql", cfg.Turso.PrimaryURL+"?authToken="+cfg.Turso.AuthToken)
		if err != nil {
			return nil, fmt.Errorf("failed to open db %s: %w", cfg.Turso.PrimaryURL, err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		return db, nil
	}

	slog.Info("Opening local SQLite database", "path", cfg.Path)
	db, err := sqlx.Connect("sqlite3", cfg.Path+localDSNOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}
	return db, nil
}

// RunMigrations applies every pending migration found in dir.
func RunMigrations(db *sql.DB, dir string) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	slog.Info("Database migrated", "version", version, "dirty", dirty)
	return nil
}
