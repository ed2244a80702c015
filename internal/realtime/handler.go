package realtime

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/collabsphere/collabsphere-api/internal/core/ports"
)

// Handler upgrades HTTP requests to websocket connections and hands them to
// the hub. There is no connection-level authentication: tokens travel inside
// the join and chatMessage payloads.
type Handler struct {
	hub    *Hub
	tokens ports.TokenService
	chat   ports.ChatService
	logger zerolog.Logger

	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, tokens ports.TokenService, chat ports.ChatService, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		tokens: tokens,
		chat:   chat,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the browser client connects cross-origin from the SPA host
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve handles GET /ws.
func (h *Handler) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return nil // upgrader already wrote the response
	}

	client := newClient(conn, h.hub, h.tokens, h.chat, h.logger)
	h.hub.register <- client
	return nil
}
