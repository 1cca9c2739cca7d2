package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/tkaczmarz/rocket-arena/internal/bracket"
)

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	_, err := tx.NamedExecContext(ctx, `INSERT INTO tournaments (id, owner_id, name, join_code, status)
        VALUES (:id, :owner_id, :name, :join_code, :status)`, tournament)
	return err
}

func (s *TournamentStore) GetTournament(ctx context.Context, id uuid.UUID) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	err := s.db.GetContext(ctx, &tournament, "SELECT * FROM tournaments WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	return &tournament, nil
}

func (s *TournamentStore) GetTournamentTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	err := tx.GetContext(ctx, &tournament, "SELECT * FROM tournaments WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	return &tournament, nil
}

// GetTournamentByJoinCode expects a code already passed through
// bracket.NormalizeJoinCode; codes are stored uppercase.
func (s *TournamentStore) GetTournamentByJoinCode(ctx context.Context, code string) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	err := s.db.GetContext(ctx, &tournament, "SELECT * FROM tournaments WHERE join_code = ?", code)
	if err != nil {
		return nil, err
	}
	return &tournament, nil
}

func (s *TournamentStore) GetTournamentsByOwner(ctx context.Context, ownerID uuid.UUID) ([]bracket.Tournament, error) {
	var tournaments []bracket.Tournament
	err := s.db.SelectContext(ctx, &tournaments, "SELECT * FROM tournaments WHERE owner_id = ? ORDER BY created_at DESC", ownerID)
	return tournaments, err
}

func (s *TournamentStore) UpdateTournamentStatusTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status bracket.TournamentStatus) error {
	_, err := tx.ExecContext(ctx, "UPDATE tournaments SET status = ? WHERE id = ?", status, id)
	return err
}

// AddRosterEntryTx is idempotent: re-adding a player already on the roster
// is a no-op.
func (s *TournamentStore) AddRosterEntryTx(ctx context.Context, tx *sqlx.Tx, tournamentID, playerID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO roster (tournament_id, player_id) VALUES (?, ?)
		ON CONFLICT (tournament_id, player_id) DO NOTHING`, tournamentID, playerID)
	return err
}

// RemoveRosterEntryTx is a no-op for players not on the roster.
func (s *TournamentStore) RemoveRosterEntryTx(ctx context.Context, tx *sqlx.Tx, tournamentID, playerID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM roster WHERE tournament_id = ? AND player_id = ?", tournamentID, playerID)
	return err
}

const rosterQuery = `
	SELECT p.* FROM players p
	JOIN roster r ON r.player_id = p.id
	WHERE r.tournament_id = ?
	ORDER BY r.created_at ASC, p.username ASC`

func (s *TournamentStore) GetRoster(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Player, error) {
	var players []bracket.Player
	err := s.db.SelectContext(ctx, &players, rosterQuery, tournamentID)
	return players, err
}

func (s *TournamentStore) GetRosterTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) ([]bracket.Player, error) {
	var players []bracket.Player
	err := tx.SelectContext(ctx, &players, rosterQuery, tournamentID)
	return players, err
}

func (s *TournamentStore) CreateMatchesTx(ctx context.Context, tx *sqlx.Tx, matches []bracket.Match) error {
	if len(matches) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO matches (id, tournament_id, round, match_order, player1_id, player2_id, status, is_bye, winner_id)
		VALUES (:id, :tournament_id, :round, :match_order, :player1_id, :player2_id, :status, :is_bye, :winner_id)`, matches)
	return err
}

func (s *TournamentStore) GetMatch(ctx context.Context, id uuid.UUID) (*bracket.Match, error) {
	var match bracket.Match
	err := s.db.GetContext(ctx, &match, "SELECT * FROM matches WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *TournamentStore) GetMatchTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*bracket.Match, error) {
	var match bracket.Match
	err := tx.GetContext(ctx, &match, "SELECT * FROM matches WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *TournamentStore) GetMatches(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Match, error) {
	var matches []bracket.Match
	err := s.db.SelectContext(ctx, &matches, "SELECT * FROM matches WHERE tournament_id = ? ORDER BY round ASC, match_order ASC", tournamentID)
	return matches, err
}

func (s *TournamentStore) GetMatchesForRoundTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID, round int) ([]bracket.Match, error) {
	var matches []bracket.Match
	err := tx.SelectContext(ctx, &matches, "SELECT * FROM matches WHERE tournament_id = ? AND round = ? ORDER BY match_order ASC", tournamentID, round)
	return matches, err
}

func (s *TournamentStore) CountMatchesForRoundTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID, round int) (int, error) {
	var count int
	err := tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM matches WHERE tournament_id = ? AND round = ?", tournamentID, round)
	return count, err
}

// GetMatchHistory returns completed matches, most recent round first.
func (s *TournamentStore) GetMatchHistory(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Match, error) {
	var matches []bracket.Match
	err := s.db.SelectContext(ctx, &matches, `SELECT * FROM matches WHERE tournament_id = ? AND status = ?
		ORDER BY round DESC, match_order DESC`, tournamentID, bracket.MatchCompleted)
	return matches, err
}

func (s *TournamentStore) UpdateMatchTx(ctx context.Context, tx *sqlx.Tx, match *bracket.Match) error {
	_, err := tx.NamedExecContext(ctx, `UPDATE matches SET
		status = :status,
		score1 = :score1, assists1 = :assists1, saves1 = :saves1,
		score2 = :score2, assists2 = :assists2, saves2 = :saves2,
		winner_id = :winner_id
		WHERE id = :id`, match)
	return err
}
