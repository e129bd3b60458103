package notifications

import (
	"context"
	"errors"
	"sync"

	"blog/internal/middleware"
	"blog/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const defaultMaxConns = 10000

// ErrHubFull is returned by Register when the connection cap is reached.
var ErrHubFull = errors.New("server connection limit reached")

// ErrHubClosed is returned by Register after Shutdown.
var ErrHubClosed = errors.New("feed is shutting down")

// Hub tracks every connected feed client.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]struct{}
	maxConns int
	closed   bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients:  make(map[*Client]struct{}),
		maxConns: defaultMaxConns,
	}
}

// Name returns a human-readable identifier for this hub.
func (h *Hub) Name() string { return "feed hub" }

// Register adds a connection. userID may be empty.
func (h *Hub) Register(userID string, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHubClosed
	}
	if len(h.clients) >= h.maxConns {
		return nil, ErrHubFull
	}

	client := NewClient(h, conn, userID)
	h.clients[client] = struct{}{}
	observability.WebSocketConnectionsTotal.Inc()
	return client, nil
}

// UnregisterClient removes the client and closes its send channel. Safe to
// call more than once.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)
	observability.WebSocketConnectionsTotal.Dec()
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastAll sends message to every connected websocket client.
func (h *Hub) BroadcastAll(message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	data := []byte(message)
	for c := range h.clients {
		c.TrySend(data)
	}
}

// StartWiring forwards every event received from Redis to local clients.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartSubscriber(ctx, h.BroadcastAll)
}

// Shutdown drops every client. Closing a client's send channel makes its
// write pump send the close frame, so the hub never writes to a connection.
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true

	for client := range h.clients {
		delete(h.clients, client)
		close(client.Send)
		observability.WebSocketConnectionsTotal.Dec()
	}
	middleware.Logger.Info("feed hub shut down")
	return nil
}
