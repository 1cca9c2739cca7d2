package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/tkaczmarz/rocket-arena/internal/bracket"
)

type PlayerStore struct {
	db *sqlx.DB
}

const (
	getPlayerQuery           = "SELECT * FROM players WHERE id = ?"
	getPlayerByUsernameQuery = "SELECT * FROM players WHERE username = ?"
	createPlayerQuery        = `
		INSERT INTO players (id, username, gamertag, skill_level, is_guest) VALUES
		(:id, :username, :gamertag, :skill_level, :is_guest)
	`
)

func NewPlayerStore(db *sqlx.DB) *PlayerStore {
	return &PlayerStore{db: db}
}

func (s *PlayerStore) GetPlayer(ctx context.Context, id uuid.UUID) (*bracket.Player, error) {
	var player bracket.Player
	err := s.db.GetContext(ctx, &player, getPlayerQuery, id)
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *PlayerStore) GetPlayerTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*bracket.Player, error) {
	var player bracket.Player
	err := tx.GetContext(ctx, &player, getPlayerQuery, id)
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *PlayerStore) GetPlayerByUsernameTx(ctx context.Context, tx *sqlx.Tx, username string) (*bracket.Player, error) {
	var player bracket.Player
	err := tx.GetContext(ctx, &player, getPlayerByUsernameQuery, username)
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *PlayerStore) CreatePlayer(ctx context.Context, player *bracket.Player) error {
	_, err := s.db.NamedExecContext(ctx, createPlayerQuery, player)
	return err
}

func (s *PlayerStore) CreatePlayerTx(ctx context.Context, tx *sqlx.Tx, player *bracket.Player) error {
	_, err := tx.NamedExecContext(ctx, createPlayerQuery, player)
	return err
}
