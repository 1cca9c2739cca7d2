package events

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Hub fans events out to websocket clients grouped into rooms, one room per
// tournament id. Slow or gone clients are skipped, not waited on; observers
// that miss an event catch up on their next refetch.
type Hub struct {
	register   chan *Client
	unregister chan *Client

	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
	}
}

// Run owns the room bookkeeping. Call it once in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.room]; ok {
				if clients[client] {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.rooms, client.room)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// Notify implements Notifier.
func (h *Hub) Notify(tournamentID uuid.UUID, eventType Type) {
	event := Event{Type: eventType, TournamentID: tournamentID}
	message, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal event", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[tournamentID.String()] {
		select {
		case client.send <- message:
		default:
			// client buffer full; it will refetch on reconnect
		}
	}
}
