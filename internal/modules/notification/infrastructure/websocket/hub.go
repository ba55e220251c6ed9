package websocket

import (
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var activeConnections = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "websocket_active_connections",
	Help: "Number of registered WebSocket connections.",
})

// Hub is the live connection registry: at most one current connection per
// user. A new connection for the same user silently supersedes the previous
// entry; the superseded connection is not closed, it just stops receiving
// pushes (it can still be closed by the client or time out on its own).
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*Client),
	}
}

// Register stores the connection for the user, overwriting any previous one.
func (h *Hub) Register(userID uuid.UUID, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if prev, ok := h.clients[userID]; ok && prev != client {
		log.Printf("[WebSocket Hub] Superseding connection for user %s", userID)
	}
	h.clients[userID] = client
	activeConnections.Set(float64(len(h.clients)))
	log.Printf("[WebSocket Hub] Client registered (user: %s, total: %d)", userID, len(h.clients))
}

// Unregister removes the mapping only if the stored connection is the same
// one, so a stale disconnect cannot evict a newer connection registered
// after a reconnect race.
func (h *Hub) Unregister(userID uuid.UUID, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.clients[userID]; ok && current == client {
		delete(h.clients, userID)
		activeConnections.Set(float64(len(h.clients)))
		log.Printf("[WebSocket Hub] Client unregistered (user: %s, total: %d)", userID, len(h.clients))
	}
}

// Lookup returns the current connection for the user, if any.
func (h *Hub) Lookup(userID uuid.UUID) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[userID]
	return client, ok
}

// PushToUser sends an event to the user's live connection. When the user has
// no connection the call is a silent no-op and returns false; the persisted
// store remains the source of truth and the client catches up over REST.
func (h *Hub) PushToUser(userID uuid.UUID, event string, payload any) bool {
	client, ok := h.Lookup(userID)
	if !ok {
		return false
	}

	frame, err := marshalEnvelope(event, payload)
	if err != nil {
		log.Printf("[WebSocket Hub] Failed to marshal %s event: %v", event, err)
		return false
	}
	return client.enqueue(frame)
}

// ClientCount returns the number of registered connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown closes every registered connection and empties the registry.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, client := range h.clients {
		client.Close()
		delete(h.clients, userID)
	}
	activeConnections.Set(0)
	log.Println("[WebSocket Hub] Shut down")
}
