package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/markbates/goth"
	"github.com/tkaczmarz/rocket-arena/internal/bracket"
	"github.com/tkaczmarz/rocket-arena/internal/store"
	users "github.com/tkaczmarz/rocket-arena/internal/user"
	"github.com/tkaczmarz/rocket-arena/internal/utils"
)

type UserService struct {
	db      *sqlx.DB
	store   *store.UserStore
	players *store.PlayerStore
}

func NewUserService(db *sqlx.DB, store *store.UserStore, players *store.PlayerStore) *UserService {
	return &UserService{db: db, store: store, players: players}
}

// FindOrCreateUserByProvider resolves an OAuth login to an account. First
// logins also get a player profile (same id, lowest tier) so the account can
// join tournaments right away.
func (s *UserService) FindOrCreateUserByProvider(ctx context.Context, gothUser goth.User) (*users.User, error) {
	user, err := s.store.GetUserByProvider(ctx, gothUser.Provider, gothUser.UserID)
	if err == nil {
		changed := utils.OrZero(user.AvatarURL) != gothUser.AvatarURL
		if gothUser.NickName != "" && user.Username != gothUser.NickName {
			user.Username = gothUser.NickName
			changed = true
		}
		if changed {
			user.AvatarURL = utils.StringOrNil(gothUser.AvatarURL)
			s.store.UpdateUserNameAndAvatar(ctx, user)
		}
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, storeErr(err, ErrPlayerNotFound)
	}

	username := gothUser.NickName
	if username == "" {
		username = gothUser.Name
	}

	newUser := &users.User{
		ID:         uuid.New(),
		Email:      gothUser.Email,
		Username:   username,
		Provider:   &gothUser.Provider,
		ProviderID: &gothUser.UserID,
		AvatarURL:  utils.StringOrNil(gothUser.AvatarURL),
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.store.CreateUserTx(ctx, tx, newUser); err != nil {
		return nil, err
	}
	if err := s.provisionPlayer(ctx, tx, newUser); err != nil {
		return nil, err
	}
	return newUser, tx.Commit()
}

// provisionPlayer creates the player profile behind a new account. The
// profile shares the account id; a taken username gets a numbered suffix.
func (s *UserService) provisionPlayer(ctx context.Context, tx *sqlx.Tx, user *users.User) error {
	username := user.Username
	for attempt := 1; attempt <= guestNameAttempts; attempt++ {
		player := &bracket.Player{
			ID:         user.ID,
			Username:   username,
			Gamertag:   user.Username,
			SkillLevel: bracket.SkillLevelMin,
			IsGuest:    false,
		}
		err := s.players.CreatePlayerTx(ctx, tx, player)
		if err == nil {
			return nil
		}
		if !store.IsUniqueViolation(err) {
			return err
		}
		username = fmt.Sprintf("%s (%d)", user.Username, attempt+1)
	}
	return ErrUsernameConflict
}
