package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/tkaczmarz/rocket-arena/internal/bracket"
	"github.com/tkaczmarz/rocket-arena/internal/events"
	"github.com/tkaczmarz/rocket-arena/internal/store"
	"golang.org/x/sync/errgroup"
)

// joinCodeAttempts bounds the regenerate-on-conflict loop when creating a
// tournament.
const joinCodeAttempts = 5

type TournamentService struct {
	db       *sqlx.DB
	store    *store.TournamentStore
	players  *store.PlayerStore
	guard    *Guard
	notifier events.Notifier

	// Rand seeds round-1 pairing; nil uses system entropy. Tests inject a
	// seeded source for reproducible brackets.
	Rand *rand.Rand
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore, players *store.PlayerStore, guard *Guard, notifier events.Notifier) *TournamentService {
	return &TournamentService{db: db, store: store, players: players, guard: guard, notifier: notifier}
}

type TournamentData struct {
	Tournament *bracket.Tournament `json:"tournament"`
	Roster     []bracket.Player    `json:"roster"`
	Matches    []bracket.Match     `json:"matches"`
}

// Create opens a new tournament owned by ownerID with a fresh join code.
// Code collisions are resolved by regenerating and retrying; the unique
// constraint is the backstop.
func (s *TournamentService) Create(ctx context.Context, ownerID uuid.UUID, name string) (*bracket.Tournament, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	for attempt := 0; attempt < joinCodeAttempts; attempt++ {
		tournament := &bracket.Tournament{
			ID:       uuid.New(),
			OwnerID:  ownerID,
			Name:     name,
			JoinCode: bracket.NewJoinCode(),
			Status:   bracket.TournamentOpen,
		}

		err := s.insertTournament(ctx, tournament)
		if store.IsUniqueViolation(err) {
			continue
		}
		if err != nil {
			return nil, storeErr(err, ErrTournamentNotFound)
		}
		return tournament, nil
	}
	return nil, fmt.Errorf("failed to allocate a unique join code after %d attempts", joinCodeAttempts)
}

func (s *TournamentService) insertTournament(ctx context.Context, tournament *bracket.Tournament) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.store.CreateTournament(ctx, tx, tournament); err != nil {
		return err
	}
	return tx.Commit()
}

// Start freezes the roster and generates round 1 from a shuffled pairing.
// Requires the caller to be the owner, the tournament to be open, and at
// least 2 players on the roster.
func (s *TournamentService) Start(ctx context.Context, actorID, tournamentID uuid.UUID) (*bracket.Tournament, error) {
	unlock := s.guard.Lock(tournamentID)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeErr(err, ErrTournamentNotFound)
	}
	defer tx.Rollback()

	tournament, err := s.store.GetTournamentTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, storeErr(err, ErrTournamentNotFound)
	}
	if tournament.OwnerID != actorID {
		return nil, ErrNotOwner
	}
	if tournament.Status != bracket.TournamentOpen {
		return nil, ErrTournamentNotOpen
	}

	roster, err := s.store.GetRosterTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, storeErr(err, ErrTournamentNotFound)
	}
	if len(roster) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	playerIDs := make([]uuid.UUID, len(roster))
	for i, p := range roster {
		playerIDs[i] = p.ID
	}

	pairings := bracket.PairShuffled(playerIDs, s.Rand)
	matches := matchesFromPairings(tournamentID, 1, pairings)

	if err := s.store.UpdateTournamentStatusTx(ctx, tx, tournamentID, bracket.TournamentActive); err != nil {
		return nil, storeErr(err, ErrTournamentNotFound)
	}
	if err := s.store.CreateMatchesTx(ctx, tx, matches); err != nil {
		return nil, fmt.Errorf("failed to create round 1 matches: %w", storeErr(err, ErrTournamentNotFound))
	}
	if err := tx.Commit(); err != nil {
		return nil, storeErr(err, ErrTournamentNotFound)
	}

	tournament.Status = bracket.TournamentActive
	s.notifier.Notify(tournamentID, events.TournamentUpdated)
	return tournament, nil
}

// JoinByCode adds the calling player to the roster of the tournament behind
// the code. Lookup is case-insensitive; re-joining is a no-op.
func (s *TournamentService) JoinByCode(ctx context.Context, playerID uuid.UUID, code string) (*bracket.Tournament, error) {
	tournament, err := s.store.GetTournamentByJoinCode(ctx, bracket.NormalizeJoinCode(code))
	if err != nil {
		return nil, storeErr(err, ErrTournamentNotFound)
	}

	unlock := s.guard.Lock(tournament.ID)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeErr(err, ErrTournamentNotFound)
	}
	defer tx.Rollback()

	// Re-read under the lock: the owner may have started the tournament
	// between lookup and join.
	tournament, err = s.store.GetTournamentTx(ctx, tx, tournament.ID)
	if err != nil {
		return nil, storeErr(err, ErrTournamentNotFound)
	}
	if tournament.Status != bracket.TournamentOpen {
		return nil, ErrTournamentNotOpen
	}

	if _, err := s.players.GetPlayerTx(ctx, tx, playerID); err != nil {
		return nil, storeErr(err, ErrPlayerNotFound)
	}

	if err := s.store.AddRosterEntryTx(ctx, tx, tournament.ID, playerID); err != nil {
		return nil, storeErr(err, ErrTournamentNotFound)
	}
	if err := tx.Commit(); err != nil {
		return nil, storeErr(err, ErrTournamentNotFound)
	}

	s.notifier.Notify(tournament.ID, events.RosterUpdated)
	return tournament, nil
}

// Data loads the tournament, its roster and its matches in parallel.
func (s *TournamentService) Data(ctx context.Context, tournamentID uuid.UUID) (*TournamentData, error) {
	data := &TournamentData{}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tournament, err := s.store.GetTournament(gCtx, tournamentID)
		if err != nil {
			return storeErr(err, ErrTournamentNotFound)
		}
		data.Tournament = tournament
		return nil
	})
	g.Go(func() error {
		roster, err := s.store.GetRoster(gCtx, tournamentID)
		if err != nil {
			return storeErr(err, ErrTournamentNotFound)
		}
		data.Roster = roster
		return nil
	})
	g.Go(func() error {
		matches, err := s.store.GetMatches(gCtx, tournamentID)
		if err != nil {
			return storeErr(err, ErrTournamentNotFound)
		}
		data.Matches = matches
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *TournamentService) ByOwner(ctx context.Context, ownerID uuid.UUID) ([]bracket.Tournament, error) {
	tournaments, err := s.store.GetTournamentsByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeErr(err, ErrTournamentNotFound)
	}
	return tournaments, nil
}
