package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Message is a live RSVP notification pushed to viewers of a session page.
type Message struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Status    string `json:"status,omitempty"`
	Player    string `json:"player,omitempty"`
	Created   bool   `json:"created,omitempty"`
}

// Hub maintains the set of active WebSocket clients, grouped by the session
// they are watching, and fans RSVP updates out to the right group.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	logger  *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to the group for its session.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	group, ok := h.clients[c.sessionID]
	if !ok {
		group = make(map[*Client]struct{})
		h.clients[c.sessionID] = group
	}
	group[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from its group and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if group, ok := h.clients[c.sessionID]; ok {
		if _, ok := group[c]; ok {
			delete(group, c)
			close(c.send)
		}
		if len(group) == 0 {
			delete(h.clients, c.sessionID)
		}
	}
	h.mu.Unlock()
}

// Broadcast sends a message to every client watching the message's session.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[msg.SessionID] {
		select {
		case c.send <- data:
		default:
			// Client buffer full — drop message to avoid blocking
		}
	}
}

// ClientCount returns the number of clients watching a session.
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}
