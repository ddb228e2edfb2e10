// Package realtime pushes messages to connected users over websockets.
package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// writeJSON serializes writers; gorilla connections allow one at a time.
func (c *client) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

func (c *client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

// Hub tracks open sockets per user id.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[uint]map[*client]bool
}

// NewHub returns a hub that accepts upgrades from the given origins. Requests
// without an Origin header (non-browser clients) are accepted.
func NewHub(origins []string) *Hub {
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		allowed[origin] = true
	}

	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
		clients: make(map[uint]map[*client]bool),
	}
}

func (h *Hub) register(userID uint, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*client]bool)
	}
	h.clients[userID][c] = true
}

func (h *Hub) unregister(userID uint, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, exists := h.clients[userID]; exists {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.clients, userID)
		}
	}
}

// Connections returns the number of open sockets for userID.
func (h *Hub) Connections(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// SendTo writes payload to every socket of every listed user. Duplicate ids
// receive the payload once. Failed sockets are dropped.
func (h *Hub) SendTo(payload interface{}, userIDs ...uint) {
	seen := make(map[uint]bool, len(userIDs))

	for _, userID := range userIDs {
		if seen[userID] {
			continue
		}
		seen[userID] = true

		h.mu.RLock()
		targets := make([]*client, 0, len(h.clients[userID]))
		for c := range h.clients[userID] {
			targets = append(targets, c)
		}
		h.mu.RUnlock()

		for _, c := range targets {
			if err := c.writeJSON(payload); err != nil {
				log.Warn().Err(err).Uint("user_id", userID).Msg("Failed to push to websocket client")
				h.unregister(userID, c)
				c.conn.Close()
			}
		}
	}
}

// Serve upgrades the request and blocks until the socket closes.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID uint) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	c := &client{conn: conn}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	h.register(userID, c)
	defer func() {
		h.unregister(userID, c)
		conn.Close()
		log.Debug().Uint("user_id", userID).Msg("WebSocket connection closed")
	}()

	if err := c.writeJSON(map[string]interface{}{
		"type":   "connected",
		"userId": userID,
	}); err != nil {
		return
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := c.ping(); err != nil {
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Uint("user_id", userID).Msg("WebSocket error")
			}
			return
		}
	}
}
