package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"envmonitor-service/internal/logging"
)

// maxClients bounds dashboard connections per instance.
const maxClients = 256

// Event is one message pushed to dashboard clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub fans persisted anomalies and samples out to connected dashboards.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	logger  *logging.Logger
}

func NewHub(logger *logging.Logger) *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool), logger: logger}
}

// Add registers a dashboard connection.
func (h *Hub) Add(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients) >= maxClients {
		h.logger.Warnf("Realtime hub full (%d clients), rejecting connection", maxClients)
		return false
	}
	h.clients[conn] = true
	h.logger.Infof("Realtime client connected (total: %d)", len(h.clients))
	return true
}

// Remove drops a dashboard connection.
func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		h.logger.Infof("Realtime client disconnected (remaining: %d)", len(h.clients))
	}
}

// Broadcast pushes an event to every connected client. Connections that
// fail to take the write are dropped.
func (h *Hub) Broadcast(eventType string, payload interface{}) {
	msg, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		h.logger.Errorf("Failed to marshal realtime event %s: %v", eventType, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Errorf("Failed to push realtime event: %v", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}
