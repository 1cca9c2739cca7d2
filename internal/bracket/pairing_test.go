package bracket

import (
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlayers(n int) []uuid.UUID {
	players := make([]uuid.UUID, n)
	for i := range players {
		players[i] = uuid.New()
	}
	return players
}

func TestPairShuffled_EvenCount(t *testing.T) {
	players := newPlayers(8)

	pairings := PairShuffled(players, rand.New(rand.NewPCG(1, 2)))
	require.Len(t, pairings, 4)

	seen := make(map[uuid.UUID]bool)
	for _, p := range pairings {
		assert.False(t, p.IsBye())
		require.NotNil(t, p.Player2)
		assert.False(t, seen[p.Player1], "player paired twice")
		assert.False(t, seen[*p.Player2], "player paired twice")
		seen[p.Player1] = true
		seen[*p.Player2] = true
	}
	assert.Len(t, seen, 8, "every player should appear exactly once")
}

func TestPairShuffled_OddCountGetsBye(t *testing.T) {
	players := newPlayers(5)

	pairings := PairShuffled(players, rand.New(rand.NewPCG(3, 4)))
	require.Len(t, pairings, 3)

	byes := 0
	for _, p := range pairings {
		if p.IsBye() {
			byes++
		}
	}
	assert.Equal(t, 1, byes)
	assert.True(t, pairings[2].IsBye(), "the leftover player pairs last")
}

func TestPairShuffled_DoesNotMutateInput(t *testing.T) {
	players := newPlayers(6)
	original := make([]uuid.UUID, len(players))
	copy(original, players)

	PairShuffled(players, rand.New(rand.NewPCG(5, 6)))
	assert.Equal(t, original, players)
}

func TestPairShuffled_SeededIsReproducible(t *testing.T) {
	players := newPlayers(7)

	first := PairShuffled(players, rand.New(rand.NewPCG(42, 0)))
	second := PairShuffled(players, rand.New(rand.NewPCG(42, 0)))
	assert.Equal(t, first, second)
}

func TestPairInOrder_PreservesOrder(t *testing.T) {
	players := newPlayers(4)

	pairings := PairInOrder(players)
	require.Len(t, pairings, 2)

	assert.Equal(t, players[0], pairings[0].Player1)
	assert.Equal(t, players[1], *pairings[0].Player2)
	assert.Equal(t, players[2], pairings[1].Player1)
	assert.Equal(t, players[3], *pairings[1].Player2)
}

func TestPairInOrder_SinglePlayer(t *testing.T) {
	players := newPlayers(1)

	pairings := PairInOrder(players)
	require.Len(t, pairings, 1)
	assert.True(t, pairings[0].IsBye())
	assert.Equal(t, players[0], pairings[0].Player1)
}

func TestPairInOrder_Empty(t *testing.T) {
	assert.Empty(t, PairInOrder(nil))
}
