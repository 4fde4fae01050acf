package handlers

import (
	"net/http"

	"taskflow/internal/logger"
	"taskflow/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WS subscribes the connection to task change events.
func (h *Handler) WS(hub *ws.Hub) gin.HandlerFunc {
	allowedOrigin := h.cfg.AllowedOrigin
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade error", "error", err)
			return
		}

		client := ws.NewClient(conn, hub)
		go client.Run()
	}
}
