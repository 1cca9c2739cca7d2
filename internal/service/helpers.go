package service

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/tkaczmarz/rocket-arena/internal/bracket"
	"github.com/tkaczmarz/rocket-arena/internal/store"
)

// matchesFromPairings turns planned pairings into match records for a round.
// Byes are created already completed with the lone player as winner, so they
// never accept a score submission.
func matchesFromPairings(tournamentID uuid.UUID, round int, pairings []bracket.Pairing) []bracket.Match {
	matches := make([]bracket.Match, 0, len(pairings))
	for i, p := range pairings {
		player1 := p.Player1
		m := bracket.Match{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			Round:        round,
			MatchOrder:   i + 1,
			Player1ID:    &player1,
			Status:       bracket.MatchPending,
		}
		if p.IsBye() {
			m.Status = bracket.MatchCompleted
			m.IsBye = true
			m.WinnerID = &player1
		} else {
			m.Player2ID = p.Player2
		}
		matches = append(matches, m)
	}
	return matches
}

// storeErr maps storage failures onto business errors: missing rows become
// notFound, transient lock contention becomes ErrUnavailable, everything
// else passes through.
func storeErr(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return notFound
	case store.IsBusy(err):
		return ErrUnavailable
	default:
		return err
	}
}
