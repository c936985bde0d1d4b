package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdamBeresnev/pong-tracker/internal/game"
	"github.com/AdamBeresnev/pong-tracker/internal/testutil"
)

// createTestGame persists two 3-player teams and a game between them.
func createTestGame(t *testing.T, db *sqlx.DB, store *GameStore) (*game.Game, []uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	players := testutil.SeedPlayers(t, db, 6)

	teamA, err := game.NewTeam("Team A", players[:3])
	require.NoError(t, err)
	teamB, err := game.NewTeam("Team B", players[3:])
	require.NoError(t, err)
	g := game.NewGame(teamA, teamB, 3, game.ModeCasual)

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.CreateTeam(ctx, tx, teamA))
	require.NoError(t, store.CreateTeam(ctx, tx, teamB))
	require.NoError(t, store.CreateGame(ctx, tx, g))
	require.NoError(t, tx.Commit())

	return g, players
}

func TestCreateAndGetGame(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewGameStore(db)
	ctx := context.Background()

	g, players := createTestGame(t, db, store)

	fetched, err := store.GetGame(ctx, g.ID.String())
	require.NoError(t, err)
	assert.Equal(t, g.ID, fetched.ID)
	assert.Equal(t, game.StatusNotStarted, fetched.Status)
	assert.Equal(t, game.RackInitial, fetched.RackStatusA)
	assert.Equal(t, game.CupsPerSide, fetched.CupsRemainingA)
	assert.Equal(t, game.CupsPerSide, fetched.CupsRemainingB)
	assert.Nil(t, fetched.WinnerID)
	assert.False(t, fetched.CreatedAt.IsZero())

	teamA, err := store.GetTeam(ctx, fetched.TeamAID.String())
	require.NoError(t, err)
	assert.Equal(t, players[:3], teamA.Roster())
	assert.Nil(t, teamA.Player4ID)

	_, err = store.GetGame(ctx, uuid.NewString())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestLockGameTx(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewGameStore(db)
	ctx := context.Background()
	g, _ := createTestGame(t, db, store)

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	require.NoError(t, store.LockGameTx(ctx, tx, g.ID.String()))
	assert.ErrorIs(t, store.LockGameTx(ctx, tx, uuid.NewString()), sql.ErrNoRows)

	locked, err := store.GetGameTx(ctx, tx, g.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, locked.Version)
}

func TestAddCupsIsWriteOnce(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewGameStore(db)
	ctx := context.Background()
	g, players := createTestGame(t, db, store)

	first := game.Ledger{
		{Side: game.SideB, Index: 4}: players[3].String(),
		{Side: game.SideA, Index: 1}: players[0].String(),
	}
	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.AddCups(ctx, tx, g.ID, 1, first))
	require.NoError(t, tx.Commit())

	tx, err = db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	err = store.AddCups(ctx, tx, g.ID, 2, game.Ledger{{Side: game.SideB, Index: 4}: players[4].String()})
	require.NoError(t, tx.Rollback())

	var conflict *game.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []int{4}, conflict.CupIDs)

	ledger, err := store.GetLedger(ctx, g.ID.String())
	require.NoError(t, err)
	if diff := cmp.Diff(first, ledger); diff != "" {
		t.Errorf("ledger mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateRoundSnapshot(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewGameStore(db)
	ctx := context.Background()
	g, players := createTestGame(t, db, store)

	round := &game.Round{
		ID:          uuid.New(),
		GameID:      g.ID,
		RoundNumber: 1,
		Cups:        game.Ledger{{Side: game.SideA, Index: 2}: players[0].String()},
		DeathCups:   []string{players[0].String()},
		RackStatusA: game.RackInitial,
		RackStatusB: game.RackInitial,
	}

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.CreateRound(ctx, tx, round))
	last, err := store.GetLastRoundNumberTx(ctx, tx, g.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, last)

	// same number again is rejected by the unique constraint
	dup := *round
	dup.ID = uuid.New()
	assert.ErrorIs(t, store.CreateRound(ctx, tx, &dup), game.ErrConflict)
	require.NoError(t, tx.Commit())

	rounds, err := store.GetRounds(ctx, g.ID.String())
	require.NoError(t, err)
	require.Len(t, rounds, 1)
	assert.Equal(t, round.Cups, rounds[0].Cups)
	assert.Equal(t, round.DeathCups, rounds[0].DeathCups)
	assert.Equal(t, 1, rounds[0].RoundNumber)
}

func TestSavePlayerStatsUpserts(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewGameStore(db)
	ctx := context.Background()
	g, players := createTestGame(t, db, store)

	stats := game.NewPlayerStats(g.ID, players[0])
	stats.ShotsTaken = 1
	stats.CupsMade = 1
	stats.Recompute(1)

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.SavePlayerStats(ctx, tx, []*game.PlayerStats{stats}))
	stats.ShotsTaken = 2
	stats.Recompute(1)
	require.NoError(t, store.SavePlayerStats(ctx, tx, []*game.PlayerStats{stats}))
	require.NoError(t, tx.Commit())

	rows, err := store.GetPlayerStats(ctx, g.ID.String())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].ShotsTaken)
	assert.Equal(t, 50.0, rows[0].Accuracy)
	assert.Equal(t, stats.ID, rows[0].ID)
}

func TestListGames(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewGameStore(db)
	ctx := context.Background()
	g, _ := createTestGame(t, db, store)

	winner := g.TeamBID
	g.Status = game.StatusCompleted
	g.WinnerID = &winner
	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.UpdateGame(ctx, tx, g))
	require.NoError(t, tx.Commit())

	games, err := store.ListGames(ctx)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Team A", games[0].Team1Name)
	assert.Equal(t, "Team B", games[0].Team2Name)
	require.NotNil(t, games[0].WinnerName)
	assert.Equal(t, "Team B", *games[0].WinnerName)
	assert.Equal(t, game.StatusCompleted, games[0].Status)
}
