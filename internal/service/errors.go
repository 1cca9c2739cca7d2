package service

import "errors"

// Business errors shared across services and the HTTP mapping.
var (
	// Lookups
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrPlayerNotFound     = errors.New("player not found")

	// Lifecycle-state violations
	ErrTournamentNotOpen     = errors.New("tournament is not open")
	ErrMatchAlreadyCompleted = errors.New("match has already been completed")

	// Validation and business rules
	ErrNameRequired     = errors.New("a name is required")
	ErrNotEnoughPlayers = errors.New("at least 2 players are required to start")
	ErrInvalidScore     = errors.New("scores must be non-negative and goals cannot be equal")

	// Conflicts
	ErrUsernameConflict = errors.New("username is already in use")

	// Authorization
	ErrNotOwner = errors.New("only the tournament owner can perform this action")

	// Transient storage failure; safe to retry
	ErrUnavailable = errors.New("storage temporarily unavailable")
)
