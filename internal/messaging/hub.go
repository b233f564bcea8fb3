// internal/messaging/hub.go

package messaging

import (
	"context"
	"encoding/json"
	"log"
	"sync"
)

// Hub keeps track of connected websocket clients and routes events to
// them by user id. A user who is not connected simply misses the push;
// the message is still in storage.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]*Client

	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes register/unregister events. Call in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if existing, ok := h.clients[client.userID]; ok {
				close(existing.send)
			}
			h.clients[client.userID] = client
			h.mu.Unlock()
			wsConnectionsActive.Inc()

		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.userID]; ok && current == client {
				delete(h.clients, client.userID)
				close(client.send)
			}
			h.mu.Unlock()
			wsConnectionsActive.Dec()
		}
	}
}

// SendToUser pushes an event to the user if they are connected. The
// read lock is held across the send: Run closes a client's channel only
// under the write lock, so the channel cannot close mid-send.
func (h *Hub) SendToUser(ctx context.Context, userID int64, event *WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal ws event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[userID]
	if !ok {
		return
	}

	select {
	case client.send <- data:
	default:
		// Slow client; drop the push rather than block the sender.
	}
}

// IsConnected reports whether the user has an active websocket
func (h *Hub) IsConnected(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}
