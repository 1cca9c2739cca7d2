package service

import (
	"context"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/tkaczmarz/rocket-arena/internal/bracket"
	"github.com/tkaczmarz/rocket-arena/internal/events"
	"github.com/tkaczmarz/rocket-arena/internal/store"
)

// setupTestDB creates an in-memory SQLite database and applies migrations.
// The pool is pinned to one connection so every query sees the same memory
// database.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", "file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")
	database.SetMaxOpenConns(1)

	_, err = database.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)

	driver, err := sqlite3.WithInstance(database.DB, &sqlite3.Config{})
	require.NoError(t, err, "Failed to create migrate driver instance")

	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"sqlite3",
		driver,
	)
	require.NoError(t, err, "Failed to create migrate instance")

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to apply migrations")
	}

	return database
}

type testEnv struct {
	db          *sqlx.DB
	store       *store.TournamentStore
	players     *store.PlayerStore
	tournaments *TournamentService
	roster      *RosterService
	matches     *MatchService
	leaderboard *LeaderboardService
	ownerID     uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	t.Cleanup(func() { db.Close() })

	tournamentStore := store.NewTournamentStore(db)
	playerStore := store.NewPlayerStore(db)
	guard := NewGuard()
	notifier := events.NopNotifier{}

	return &testEnv{
		db:          db,
		store:       tournamentStore,
		players:     playerStore,
		tournaments: NewTournamentService(db, tournamentStore, playerStore, guard, notifier),
		roster:      NewRosterService(db, tournamentStore, playerStore, guard, notifier),
		matches:     NewMatchService(db, tournamentStore, guard, notifier),
		leaderboard: NewLeaderboardService(tournamentStore),
		ownerID:     uuid.New(),
	}
}

// openTournament creates a tournament with the given players on the roster,
// still in the open state.
func (e *testEnv) openTournament(t *testing.T, names ...string) *bracket.Tournament {
	t.Helper()
	ctx := context.Background()

	tournament, err := e.tournaments.Create(ctx, e.ownerID, "Test Cup")
	require.NoError(t, err)

	for _, name := range names {
		_, err := e.roster.Add(ctx, e.ownerID, tournament.ID, name, bracket.SkillLevelMin)
		require.NoError(t, err)
	}
	return tournament
}

// startedTournament creates a tournament with the given players and starts
// it, returning the tournament and its round 1 matches in bracket order.
func (e *testEnv) startedTournament(t *testing.T, names ...string) (*bracket.Tournament, []bracket.Match) {
	t.Helper()
	ctx := context.Background()

	tournament := e.openTournament(t, names...)
	_, err := e.tournaments.Start(ctx, e.ownerID, tournament.ID)
	require.NoError(t, err)

	matches, err := e.store.GetMatches(ctx, tournament.ID)
	require.NoError(t, err)
	return tournament, matches
}
