package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/collabsphere/collabsphere-api/internal/api/metrics"
	"github.com/collabsphere/collabsphere-api/internal/core/ports"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4096
	sendBufferSize = 64

	eventTimeout = 10 * time.Second
)

var connSeq atomic.Int64

// Client is one websocket connection. It starts anonymous (Connected) and
// becomes Joined once a join event with a valid token binds an identity.
type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	hub  *Hub

	tokens ports.TokenService
	chat   ports.ChatService
	logger zerolog.Logger

	// mu guards the fields written across goroutines: the hub's run loop
	// closes send while readPump may still be queueing error events, and
	// readPump binds the join identity the hub reads when logging.
	mu     sync.Mutex
	closed bool
	userID string
	joined bool
}

func newClient(conn *websocket.Conn, hub *Hub, tokens ports.TokenService, chat ports.ChatService, logger zerolog.Logger) *Client {
	id := fmt.Sprintf("conn-%d", connSeq.Add(1))
	if conn != nil {
		conn.SetReadLimit(maxMessageSize)
	}
	return &Client{
		id:     id,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		hub:    hub,
		tokens: tokens,
		chat:   chat,
		logger: logger.With().Str("conn_id", id).Logger(),
	}
}

// trySend queues payload without blocking. Returns false when the client has
// been closed by the hub or its buffer is full.
func (c *Client) trySend(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// markClosed flags the client and closes its send channel. Must be called
// exactly once, by the hub.
func (c *Client) markClosed() {
	c.mu.Lock()
	c.closed = true
	close(c.send)
	c.mu.Unlock()
}

// joinedUser returns the identity bound by a successful join, if any.
func (c *Client) joinedUser() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID, c.joined
}

func (c *Client) readPump() {
	defer func() {
		// the run loop is gone after shutdown, so the unregister send
		// must not block forever
		select {
		case c.hub.unregister <- c:
		case <-c.hub.ctx.Done():
		}
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn().Err(err).Msg("unexpected close")
			}
			return
		}
		c.handleEvent(raw)
	}
}

// handleEvent dispatches one inbound envelope. Bad tokens fail closed: the
// event is dropped, logged, and an error event goes back to this connection
// only. Nothing is ever broadcast for a rejected event.
func (c *Client) handleEvent(raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.logger.Debug().Err(err).Msg("malformed envelope")
		c.sendError("malformed event")
		return
	}

	switch env.Event {
	case EventJoin:
		c.handleJoin(env.Data)
	case EventChatMessage:
		c.handleChatMessage(env.Data)
	default:
		c.logger.Debug().Str("event", env.Event).Msg("unknown event")
		c.sendError("unknown event: " + env.Event)
	}
}

func (c *Client) handleJoin(data json.RawMessage) {
	var payload joinPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.sendError("malformed join payload")
		return
	}

	identity, err := c.tokens.Verify(payload.Token)
	if err != nil {
		metrics.AuthFailuresTotal.WithLabelValues("realtime").Inc()
		c.logger.Warn().Msg("join rejected: invalid token")
		c.sendError("token is not valid")
		return
	}

	c.mu.Lock()
	c.userID = identity.UserID
	c.joined = true
	c.mu.Unlock()
	c.logger.Info().Str("user_id", identity.UserID).Msg("client joined")
}

func (c *Client) handleChatMessage(data json.RawMessage) {
	var payload chatMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.sendError("malformed chatMessage payload")
		return
	}

	identity, err := c.tokens.Verify(payload.Token)
	if err != nil {
		metrics.AuthFailuresTotal.WithLabelValues("realtime").Inc()
		c.logger.Warn().Msg("chatMessage rejected: invalid token")
		c.sendError("token is not valid")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	if _, err := c.chat.SendMessage(ctx, identity.UserID, payload.Content); err != nil {
		c.logger.Error().Err(err).Str("user_id", identity.UserID).Msg("chatMessage failed")
		c.sendError("message could not be delivered")
		return
	}
	metrics.MessagesSentTotal.WithLabelValues("realtime").Inc()
}

// sendError emits an error event to this connection only. Slow or
// already-dropped connections just miss the notification.
func (c *Client) sendError(msg string) {
	payload, err := marshalEnvelope(EventError, errorPayload{Message: msg})
	if err != nil {
		return
	}
	c.trySend(payload)
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.hub.ctx.Done():
			// shutdown: the run loop exits without closing send channels
			return
		}
	}
}
