package bracket

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
)

type TournamentStatus string

const (
	TournamentOpen      TournamentStatus = "open"
	TournamentActive    TournamentStatus = "active"
	TournamentCompleted TournamentStatus = "completed"
)

type Tournament struct {
	ID        uuid.UUID        `db:"id" json:"id"`
	OwnerID   uuid.UUID        `db:"owner_id" json:"owner_id"`
	Name      string           `db:"name" json:"name"`
	JoinCode  string           `db:"join_code" json:"join_code"`
	Status    TournamentStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

const (
	joinCodeLength   = 6
	joinCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewJoinCode returns a short shareable code. Uniqueness is enforced by the
// DB constraint; callers retry with a fresh code on conflict.
func NewJoinCode() string {
	var b strings.Builder
	b.Grow(joinCodeLength)
	for range joinCodeLength {
		b.WriteByte(joinCodeAlphabet[rand.IntN(len(joinCodeAlphabet))])
	}
	return b.String()
}

// NormalizeJoinCode uppercases a user-entered code so lookups are
// case-insensitive.
func NormalizeJoinCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
