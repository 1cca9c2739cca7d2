package bracket

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchPending   MatchStatus = "pending"
	MatchCompleted MatchStatus = "completed"
)

// Match is one bracket slot. A bye has only player 1 filled and is created
// already completed, with that player as winner and no stats recorded.
type Match struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournament_id"`

	// Position in the bracket for reconstructing the view
	Round      int `db:"round" json:"round"`
	MatchOrder int `db:"match_order" json:"match_order"`

	Player1ID *uuid.UUID `db:"player1_id" json:"player1_id"`
	Player2ID *uuid.UUID `db:"player2_id" json:"player2_id"`

	Status MatchStatus `db:"status" json:"status"`

	Score1   *int `db:"score1" json:"score1"`
	Assists1 *int `db:"assists1" json:"assists1"`
	Saves1   *int `db:"saves1" json:"saves1"`
	Score2   *int `db:"score2" json:"score2"`
	Assists2 *int `db:"assists2" json:"assists2"`
	Saves2   *int `db:"saves2" json:"saves2"`

	IsBye    bool       `db:"is_bye" json:"is_bye"`
	WinnerID *uuid.UUID `db:"winner_id" json:"winner_id"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (m *Match) Completed() bool {
	return m.Status == MatchCompleted
}

func (m *Match) IsWinner(playerID uuid.UUID) bool {
	return m.Status == MatchCompleted && m.WinnerID != nil && *m.WinnerID == playerID
}
