package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	// same permissive origin policy as the CORS middleware
	CheckOrigin: func(r *http.Request) bool { return true },
}

// AnomalyFeed upgrades to a WebSocket and streams persisted anomalies and
// samples until the client goes away. The feed is push-only; inbound frames
// are drained and discarded.
func (h *Handler) AnomalyFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}

	if !h.hub.Add(conn) {
		conn.Close()
		return
	}
	defer func() {
		h.hub.Remove(conn)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
