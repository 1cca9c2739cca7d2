package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tkaczmarz/rocket-arena/internal/bracket"
)

func TestCreateTournament(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tournament, err := env.tournaments.Create(ctx, env.ownerID, "  Friday Cup  ")
	require.NoError(t, err)

	assert.Equal(t, "Friday Cup", tournament.Name)
	assert.Equal(t, env.ownerID, tournament.OwnerID)
	assert.Equal(t, bracket.TournamentOpen, tournament.Status)
	assert.Len(t, tournament.JoinCode, 6)
	assert.Equal(t, bracket.NormalizeJoinCode(tournament.JoinCode), tournament.JoinCode)

	fetched, err := env.store.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, tournament.JoinCode, fetched.JoinCode)
}

func TestCreateTournament_NameRequired(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.tournaments.Create(context.Background(), env.ownerID, "   ")
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestStartTournament(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tournament := env.openTournament(t, "Ada", "Brook", "Chi", "Dana")

	started, err := env.tournaments.Start(ctx, env.ownerID, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, bracket.TournamentActive, started.Status)

	matches, err := env.store.GetMatches(ctx, tournament.ID)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	seen := make(map[uuid.UUID]bool)
	for i, m := range matches {
		assert.Equal(t, 1, m.Round)
		assert.Equal(t, i+1, m.MatchOrder)
		assert.Equal(t, bracket.MatchPending, m.Status)
		assert.False(t, m.IsBye)
		require.NotNil(t, m.Player1ID)
		require.NotNil(t, m.Player2ID)
		seen[*m.Player1ID] = true
		seen[*m.Player2ID] = true
	}
	assert.Len(t, seen, 4, "every roster player should be placed exactly once")
}

func TestStartTournament_OddRosterGetsBye(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tournament := env.openTournament(t, "Ada", "Brook", "Chi")

	_, err := env.tournaments.Start(ctx, env.ownerID, tournament.ID)
	require.NoError(t, err)

	matches, err := env.store.GetMatches(ctx, tournament.ID)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	real, bye := matches[0], matches[1]
	assert.False(t, real.IsBye)
	assert.Equal(t, bracket.MatchPending, real.Status)

	assert.True(t, bye.IsBye)
	assert.Equal(t, bracket.MatchCompleted, bye.Status)
	require.NotNil(t, bye.Player1ID)
	assert.Nil(t, bye.Player2ID)
	require.NotNil(t, bye.WinnerID)
	assert.Equal(t, *bye.Player1ID, *bye.WinnerID)
	assert.Nil(t, bye.Score1, "byes record no stats")
}

func TestStartTournament_NotEnoughPlayers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tournament := env.openTournament(t, "Ada")

	_, err := env.tournaments.Start(ctx, env.ownerID, tournament.ID)
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)

	fetched, err := env.store.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, bracket.TournamentOpen, fetched.Status)
}

func TestStartTournament_Twice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tournament, _ := env.startedTournament(t, "Ada", "Brook")

	_, err := env.tournaments.Start(ctx, env.ownerID, tournament.ID)
	assert.ErrorIs(t, err, ErrTournamentNotOpen)
}

func TestStartTournament_NotOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tournament := env.openTournament(t, "Ada", "Brook")

	_, err := env.tournaments.Start(ctx, uuid.New(), tournament.ID)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestJoinByCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tournament := env.openTournament(t)

	player := &bracket.Player{ID: uuid.New(), Username: "Eve", SkillLevel: 3}
	require.NoError(t, env.players.CreatePlayer(ctx, player))

	// Codes are matched case-insensitively, whitespace and all.
	joined, err := env.tournaments.JoinByCode(ctx, player.ID, "  "+strings.ToLower(tournament.JoinCode)+" ")
	require.NoError(t, err)
	assert.Equal(t, tournament.ID, joined.ID)

	roster, err := env.store.GetRoster(ctx, tournament.ID)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, player.ID, roster[0].ID)

	// Joining again is a no-op.
	_, err = env.tournaments.JoinByCode(ctx, player.ID, tournament.JoinCode)
	require.NoError(t, err)

	roster, err = env.store.GetRoster(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Len(t, roster, 1)
}

func TestJoinByCode_UnknownCode(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.tournaments.JoinByCode(context.Background(), uuid.New(), "NOSUCH")
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestJoinByCode_UnknownPlayer(t *testing.T) {
	env := newTestEnv(t)

	tournament := env.openTournament(t)

	_, err := env.tournaments.JoinByCode(context.Background(), uuid.New(), tournament.JoinCode)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestJoinByCode_AfterStart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tournament, _ := env.startedTournament(t, "Ada", "Brook")

	player := &bracket.Player{ID: uuid.New(), Username: "Eve", SkillLevel: 3}
	require.NoError(t, env.players.CreatePlayer(ctx, player))

	_, err := env.tournaments.JoinByCode(ctx, player.ID, tournament.JoinCode)
	assert.ErrorIs(t, err, ErrTournamentNotOpen)
}

func TestTournamentData(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tournament, matches := env.startedTournament(t, "Ada", "Brook", "Chi", "Dana")

	data, err := env.tournaments.Data(ctx, tournament.ID)
	require.NoError(t, err)

	assert.Equal(t, tournament.ID, data.Tournament.ID)
	assert.Len(t, data.Roster, 4)
	assert.Len(t, data.Matches, len(matches))
}

func TestTournamentsByOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.tournaments.Create(ctx, env.ownerID, "First")
	require.NoError(t, err)
	_, err = env.tournaments.Create(ctx, uuid.New(), "Someone Else's")
	require.NoError(t, err)

	mine, err := env.tournaments.ByOwner(ctx, env.ownerID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)
}
