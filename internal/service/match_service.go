package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/tkaczmarz/rocket-arena/internal/bracket"
	"github.com/tkaczmarz/rocket-arena/internal/events"
	"github.com/tkaczmarz/rocket-arena/internal/store"
	"github.com/tkaczmarz/rocket-arena/internal/utils"
)

type MatchService struct {
	db       *sqlx.DB
	store    *store.TournamentStore
	guard    *Guard
	notifier events.Notifier
}

func NewMatchService(db *sqlx.DB, store *store.TournamentStore, guard *Guard, notifier events.Notifier) *MatchService {
	return &MatchService{db: db, store: store, guard: guard, notifier: notifier}
}

// ScoreSheet is a full stat line for both players of a match. Goals decide
// the winner; assists and saves only feed the leaderboard.
type ScoreSheet struct {
	Goals1   int `json:"goals1"`
	Assists1 int `json:"assists1"`
	Saves1   int `json:"saves1"`
	Goals2   int `json:"goals2"`
	Assists2 int `json:"assists2"`
	Saves2   int `json:"saves2"`
}

func (s ScoreSheet) validate() error {
	for _, v := range []int{s.Goals1, s.Assists1, s.Saves1, s.Goals2, s.Assists2, s.Saves2} {
		if v < 0 {
			return ErrInvalidScore
		}
	}
	if s.Goals1 == s.Goals2 {
		// Draws are not allowed; a completed match must have a winner.
		return ErrInvalidScore
	}
	return nil
}

// RecordScore completes a pending match and advances the bracket. The score
// write, winner derivation and any next-round generation commit in a single
// transaction: either the bracket moves forward consistently or nothing
// changes.
func (s *MatchService) RecordScore(ctx context.Context, actorID, matchID uuid.UUID, sheet ScoreSheet) (*bracket.Match, error) {
	if err := sheet.validate(); err != nil {
		return nil, err
	}

	// An initial read outside the lock locates the owning tournament; the
	// match is re-read under the lock before any decision is made.
	located, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, storeErr(err, ErrMatchNotFound)
	}

	unlock := s.guard.Lock(located.TournamentID)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeErr(err, ErrMatchNotFound)
	}
	defer tx.Rollback()

	tournament, err := s.store.GetTournamentTx(ctx, tx, located.TournamentID)
	if err != nil {
		return nil, storeErr(err, ErrTournamentNotFound)
	}
	if tournament.OwnerID != actorID {
		return nil, ErrNotOwner
	}

	match, err := s.store.GetMatchTx(ctx, tx, matchID)
	if err != nil {
		return nil, storeErr(err, ErrMatchNotFound)
	}
	if match.Status != bracket.MatchPending {
		// Also covers byes, which are created completed.
		return nil, ErrMatchAlreadyCompleted
	}
	if match.Player1ID == nil || match.Player2ID == nil {
		return nil, ErrMatchAlreadyCompleted
	}

	match.Score1 = utils.Ptr(sheet.Goals1)
	match.Assists1 = utils.Ptr(sheet.Assists1)
	match.Saves1 = utils.Ptr(sheet.Saves1)
	match.Score2 = utils.Ptr(sheet.Goals2)
	match.Assists2 = utils.Ptr(sheet.Assists2)
	match.Saves2 = utils.Ptr(sheet.Saves2)
	match.Status = bracket.MatchCompleted

	if sheet.Goals1 > sheet.Goals2 {
		match.WinnerID = match.Player1ID
	} else {
		match.WinnerID = match.Player2ID
	}

	if err := s.store.UpdateMatchTx(ctx, tx, match); err != nil {
		return nil, fmt.Errorf("failed to update match: %w", storeErr(err, ErrMatchNotFound))
	}

	finished, err := s.advanceRound(ctx, tx, tournament, match.Round)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr(err, ErrMatchNotFound)
	}

	s.notifier.Notify(tournament.ID, events.MatchUpdated)
	if finished {
		s.notifier.Notify(tournament.ID, events.TournamentUpdated)
	}
	return match, nil
}

// advanceRound checks whether the given round is fully completed and, if so,
// either finishes the tournament (single final match) or generates the next
// round from the winners in match-creation order. Generation is idempotent:
// if the next round already has matches, nothing is added. Returns whether
// the tournament was completed.
func (s *MatchService) advanceRound(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament, round int) (bool, error) {
	matches, err := s.store.GetMatchesForRoundTx(ctx, tx, tournament.ID, round)
	if err != nil {
		return false, storeErr(err, ErrTournamentNotFound)
	}

	for _, m := range matches {
		if m.Status != bracket.MatchCompleted {
			return false, nil
		}
	}

	if len(matches) == 1 {
		if err := s.store.UpdateTournamentStatusTx(ctx, tx, tournament.ID, bracket.TournamentCompleted); err != nil {
			return false, storeErr(err, ErrTournamentNotFound)
		}
		return true, nil
	}

	existing, err := s.store.CountMatchesForRoundTx(ctx, tx, tournament.ID, round+1)
	if err != nil {
		return false, storeErr(err, ErrTournamentNotFound)
	}
	if existing > 0 {
		return false, nil
	}

	winners := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		if m.WinnerID == nil {
			return false, fmt.Errorf("completed match %s in round %d has no winner", m.ID, round)
		}
		winners = append(winners, *m.WinnerID)
	}

	// Winners pair in the order they were produced; later rounds are never
	// reshuffled so the bracket structure holds.
	next := matchesFromPairings(tournament.ID, round+1, bracket.PairInOrder(winners))
	if err := s.store.CreateMatchesTx(ctx, tx, next); err != nil {
		return false, fmt.Errorf("failed to create round %d matches: %w", round+1, storeErr(err, ErrTournamentNotFound))
	}
	return false, nil
}

func (s *MatchService) Get(ctx context.Context, matchID uuid.UUID) (*bracket.Match, error) {
	match, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, storeErr(err, ErrMatchNotFound)
	}
	return match, nil
}

// History lists completed matches, most recent round first.
func (s *MatchService) History(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Match, error) {
	matches, err := s.store.GetMatchHistory(ctx, tournamentID)
	if err != nil {
		return nil, storeErr(err, ErrTournamentNotFound)
	}
	return matches, nil
}
