package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/tkaczmarz/rocket-arena/internal/bracket"
	"github.com/tkaczmarz/rocket-arena/internal/events"
	"github.com/tkaczmarz/rocket-arena/internal/store"
)

// guestNameAttempts bounds the disambiguation loop when a guest username
// collides ("Kara", "Kara (2)", ...).
const guestNameAttempts = 5

type RosterService struct {
	db       *sqlx.DB
	store    *store.TournamentStore
	players  *store.PlayerStore
	guard    *Guard
	notifier events.Notifier
}

func NewRosterService(db *sqlx.DB, store *store.TournamentStore, players *store.PlayerStore, guard *Guard, notifier events.Notifier) *RosterService {
	return &RosterService{db: db, store: store, players: players, guard: guard, notifier: notifier}
}

// Add puts the named player on the roster. The name is resolved against
// existing players first; unknown names become guest players with the given
// tier (clamped, lowest by default). Re-adding a player is a no-op.
func (s *RosterService) Add(ctx context.Context, actorID, tournamentID uuid.UUID, name string, skillLevel int) (*bracket.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	unlock := s.guard.Lock(tournamentID)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeErr(err, ErrTournamentNotFound)
	}
	defer tx.Rollback()

	if err := s.requireOpenOwned(ctx, tx, actorID, tournamentID); err != nil {
		return nil, err
	}

	player, err := s.players.GetPlayerByUsernameTx(ctx, tx, name)
	if errors.Is(err, sql.ErrNoRows) {
		player, err = s.createGuest(ctx, tx, name, skillLevel)
	}
	if err != nil {
		return nil, storeErr(err, ErrPlayerNotFound)
	}

	if err := s.store.AddRosterEntryTx(ctx, tx, tournamentID, player.ID); err != nil {
		return nil, storeErr(err, ErrTournamentNotFound)
	}
	if err := tx.Commit(); err != nil {
		return nil, storeErr(err, ErrTournamentNotFound)
	}

	s.notifier.Notify(tournamentID, events.RosterUpdated)
	return player, nil
}

// Remove drops a player from the roster; removing a non-member is a no-op.
func (s *RosterService) Remove(ctx context.Context, actorID, tournamentID, playerID uuid.UUID) error {
	unlock := s.guard.Lock(tournamentID)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return storeErr(err, ErrTournamentNotFound)
	}
	defer tx.Rollback()

	if err := s.requireOpenOwned(ctx, tx, actorID, tournamentID); err != nil {
		return err
	}

	if err := s.store.RemoveRosterEntryTx(ctx, tx, tournamentID, playerID); err != nil {
		return storeErr(err, ErrTournamentNotFound)
	}
	if err := tx.Commit(); err != nil {
		return storeErr(err, ErrTournamentNotFound)
	}

	s.notifier.Notify(tournamentID, events.RosterUpdated)
	return nil
}

// Player returns a single player profile.
func (s *RosterService) Player(ctx context.Context, playerID uuid.UUID) (*bracket.Player, error) {
	player, err := s.players.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, storeErr(err, ErrPlayerNotFound)
	}
	return player, nil
}

func (s *RosterService) List(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Player, error) {
	roster, err := s.store.GetRoster(ctx, tournamentID)
	if err != nil {
		return nil, storeErr(err, ErrTournamentNotFound)
	}
	return roster, nil
}

// requireOpenOwned enforces that the roster is only mutable by the owner
// while the tournament is open.
func (s *RosterService) requireOpenOwned(ctx context.Context, tx *sqlx.Tx, actorID, tournamentID uuid.UUID) error {
	tournament, err := s.store.GetTournamentTx(ctx, tx, tournamentID)
	if err != nil {
		return storeErr(err, ErrTournamentNotFound)
	}
	if tournament.OwnerID != actorID {
		return ErrNotOwner
	}
	if tournament.Status != bracket.TournamentOpen {
		return ErrTournamentNotOpen
	}
	return nil
}

// createGuest inserts a new guest player. A username collision (another
// transaction created the same guest, or the SELECT raced an insert) is
// retried with a numbered suffix rather than surfaced as an error.
func (s *RosterService) createGuest(ctx context.Context, tx *sqlx.Tx, name string, skillLevel int) (*bracket.Player, error) {
	username := name
	for attempt := 1; attempt <= guestNameAttempts; attempt++ {
		guest := &bracket.Player{
			ID:         uuid.New(),
			Username:   username,
			Gamertag:   "Guest",
			SkillLevel: bracket.ClampSkillLevel(skillLevel),
			IsGuest:    true,
		}
		err := s.players.CreatePlayerTx(ctx, tx, guest)
		if err == nil {
			return guest, nil
		}
		if !store.IsUniqueViolation(err) {
			return nil, err
		}
		username = fmt.Sprintf("%s (%d)", name, attempt+1)
	}
	return nil, ErrUsernameConflict
}
