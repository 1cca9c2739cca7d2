package service

import (
	"sync"

	"github.com/google/uuid"
)

// Guard serializes mutating operations per tournament. Two clients racing on
// the same tournament (say, two score submissions both completing a round)
// take turns; operations on different tournaments do not contend.
//
// Locks are never evicted: a tournament that has been touched keeps its
// mutex for the life of the process, which is fine at this scale.
type Guard struct {
	locks sync.Map // uuid.UUID -> *sync.Mutex
}

func NewGuard() *Guard {
	return &Guard{}
}

// Lock acquires the tournament's mutex and returns the unlock func.
func (g *Guard) Lock(tournamentID uuid.UUID) func() {
	v, _ := g.locks.LoadOrStore(tournamentID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
