package notify

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Hub holds the WebSocket connections of logged-in caregivers and pushes
// every notice to all of them.
type Hub struct {
	upgrader websocket.Upgrader
	log      zerolog.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log:   log.With().Str("component", "notify-hub").Logger(),
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// HandleWS upgrades the request and keeps the connection registered until the
// client goes away.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	n := len(h.conns)
	h.mu.Unlock()

	h.log.Debug().Int("connections", n).Msg("listener connected")

	// Inbound frames are ignored; the read loop only notices disconnects.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends the notice to every connection, dropping the dead ones.
func (h *Hub) Broadcast(n Notice) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		if err := conn.WriteJSON(n); err != nil {
			delete(h.conns, conn)
			_ = conn.Close()
		}
	}
}

// NotifyCaregiver makes a single-instance deployment work without Redis: the
// hub itself satisfies Notifier.
func (h *Hub) NotifyCaregiver(_ context.Context, caregiverID uuid.UUID, message string) error {
	h.Broadcast(Notice{CaregiverID: caregiverID.String(), Message: message})
	return nil
}

// Close disconnects every listener.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		_ = conn.Close()
		delete(h.conns, conn)
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		_ = conn.Close()
	}
	h.mu.Unlock()
}
