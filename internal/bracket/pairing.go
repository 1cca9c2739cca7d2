package bracket

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

// Pairing is one planned match: two players, or a single player receiving a
// bye when Player2 is nil.
type Pairing struct {
	Player1 uuid.UUID
	Player2 *uuid.UUID
}

func (p Pairing) IsBye() bool {
	return p.Player2 == nil
}

// PairShuffled randomly permutes players and pairs them consecutively; an
// odd leftover gets a bye. Used for round 1. Pass a seeded *rand.Rand for
// reproducible pairings, nil for system entropy.
func PairShuffled(players []uuid.UUID, rng *rand.Rand) []Pairing {
	shuffled := make([]uuid.UUID, len(players))
	copy(shuffled, players)

	swap := func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] }
	if rng != nil {
		rng.Shuffle(len(shuffled), swap)
	} else {
		rand.Shuffle(len(shuffled), swap)
	}

	return PairInOrder(shuffled)
}

// PairInOrder pairs players two at a time in list order. Later rounds use
// this directly with the previous round's winners so the bracket structure
// is preserved rather than reshuffled.
func PairInOrder(players []uuid.UUID) []Pairing {
	pairings := make([]Pairing, 0, (len(players)+1)/2)
	for i := 0; i < len(players); i += 2 {
		p := Pairing{Player1: players[i]}
		if i+1 < len(players) {
			p2 := players[i+1]
			p.Player2 = &p2
		}
		pairings = append(pairings, p)
	}
	return pairings
}
