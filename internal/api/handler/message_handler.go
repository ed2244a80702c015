package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/collabsphere/collabsphere-api/internal/api/metrics"
	"github.com/collabsphere/collabsphere-api/internal/core/ports"
)

type postMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// MessageHandler is the REST adapter over the chat service. It shares the
// sendMessage path with the websocket event handler, so REST-originated
// messages reach realtime-connected clients the same way.
type MessageHandler struct {
	chatService ports.ChatService
}

func NewMessageHandler(chatService ports.ChatService) *MessageHandler {
	return &MessageHandler{chatService: chatService}
}

// Post handles POST /api/messages: persist, enrich, and broadcast.
//
// @Summary      Send a chat message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        body  body      postMessageRequest  true  "Message content"
// @Success      201   {object}  domain.EnrichedMessage
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/messages [post]
func (h *MessageHandler) Post(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req postMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg, err := h.chatService.SendMessage(c.Request().Context(), userID, req.Content)
	if err != nil {
		return err
	}

	metrics.MessagesSentTotal.WithLabelValues("rest").Inc()
	return c.JSON(http.StatusCreated, msg)
}

// List handles GET /api/messages: newest 50, oldest first.
func (h *MessageHandler) List(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	msgs, err := h.chatService.ListMessages(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msgs)
}
