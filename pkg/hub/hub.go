// Package hub fans status updates out to dashboard websocket clients
// using the channel-based fan-out pattern: one goroutine owns the
// client set, everyone else talks to it through channels.
package hub

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/avosc/avosc/internal/log"
)

// Hub maintains the set of active clients and broadcasts status
// payloads to them.
type Hub struct {
	// Name for logging
	name string

	// Registered clients
	clients map[*Client]bool

	// Inbound payloads to broadcast
	broadcast chan []byte

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Guards clients and latest for read access from outside Run
	mu sync.RWMutex

	// Most recent payload, replayed to clients as they join
	latest []byte
}

// New creates a hub.
func New(name string) *Hub {
	return &Hub{
		name:       name,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run owns the client set until ctx is canceled, then closes every
// client. Call it in a goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			latest := h.latest
			h.mu.Unlock()
			// New clients get the current state right away instead of
			// waiting for the next broadcast.
			if latest != nil {
				client.send <- latest
			}
			log.Debug("dashboard client connected", "hub", h.name, "id", client.ID, "total", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Debug("dashboard client disconnected", "hub", h.name, "id", client.ID, "remaining", count)

		case payload := <-h.broadcast:
			h.mu.Lock()
			h.latest = payload
			for client := range h.clients {
				select {
				case client.send <- payload:
				default:
					// Client's buffer is full - they're too slow.
					close(client.send)
					delete(h.clients, client)
					log.Warn("dropped slow dashboard client", "hub", h.name, "id", client.ID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish encodes a value and broadcasts it to all clients. A full
// broadcast channel drops the payload; the next one supersedes it
// anyway.
func (h *Hub) Publish(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- data:
	default:
	}
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
