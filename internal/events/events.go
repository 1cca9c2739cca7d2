package events

import "github.com/google/uuid"

type Type string

const (
	TournamentUpdated Type = "tournament_updated"
	RosterUpdated     Type = "roster_updated"
	MatchUpdated      Type = "match_updated"
)

// Event tells observers of a tournament that some of its records changed.
// It carries no payload: delivery is at-least-once and may coalesce, so
// consumers refetch rather than apply deltas.
type Event struct {
	Type         Type      `json:"type"`
	TournamentID uuid.UUID `json:"tournament_id"`
}

// Notifier decouples the services from the websocket hub. Notify must not
// block the caller.
type Notifier interface {
	Notify(tournamentID uuid.UUID, eventType Type)
}

// NopNotifier discards events; used in tests.
type NopNotifier struct{}

func (NopNotifier) Notify(uuid.UUID, Type) {}
