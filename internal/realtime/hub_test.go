package realtime

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/collabsphere/collabsphere-api/internal/core/domain"
	"github.com/collabsphere/collabsphere-api/internal/core/service"
)

// stubChat persists nothing; it enriches the message and pushes it straight
// to the broadcaster, which is all the hub tests need.
type stubChat struct {
	broadcaster interface{ Broadcast(*domain.EnrichedMessage) }
	sendErr     error
}

func (s *stubChat) SendMessage(_ context.Context, senderID, content string) (*domain.EnrichedMessage, error) {
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	msg := &domain.EnrichedMessage{
		ID:        "msg_1",
		Sender:    domain.Profile{ID: senderID, Name: "Alice"},
		Content:   content,
		Seq:       1,
		CreatedAt: time.Now().UTC(),
	}
	s.broadcaster.Broadcast(msg)
	return msg, nil
}

func (s *stubChat) ListMessages(_ context.Context) ([]*domain.EnrichedMessage, error) {
	return nil, nil
}

type testServer struct {
	hub    *Hub
	tokens *service.TokenService
	srv    *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	hub := NewHub(zerolog.Nop())
	go hub.Run()
	t.Cleanup(func() {
		_ = hub.Shutdown(2 * time.Second)
	})

	tokens := service.NewTokenService("test-secret", time.Hour)
	chat := &stubChat{broadcaster: hub}
	handler := NewHandler(hub, tokens, chat, zerolog.Nop())

	e := echo.New()
	e.GET("/ws", handler.Serve)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	return &testServer{hub: hub, tokens: tokens, srv: srv}
}

func (ts *testServer) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func (ts *testServer) issueToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := ts.tokens.Issue(domain.Identity{UserID: userID, Role: domain.RoleTeamMember})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func (ts *testServer) waitForConnections(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ts.hub.ConnectionCount() == n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d connections, have %d", n, ts.hub.ConnectionCount())
}

func sendEvent(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	payload, err := marshalEnvelope(event, data)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		t.Fatalf("write event: %v", err)
	}
}

func readEnvelope(t *testing.T, conn *websocket.Conn, timeout time.Duration) (Envelope, bool) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		return Envelope{}, false
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env, true
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	ts := newTestServer(t)

	sender := ts.dial(t)
	observer := ts.dial(t)
	ts.waitForConnections(t, 2)

	token := ts.issueToken(t, "user_1")
	sendEvent(t, sender, EventChatMessage, map[string]string{
		"token":   token,
		"content": "hello everyone",
	})

	for _, conn := range []*websocket.Conn{sender, observer} {
		env, ok := readEnvelope(t, conn, 2*time.Second)
		if !ok {
			t.Fatalf("no broadcast received")
		}
		if env.Event != EventMessage {
			t.Fatalf("expected message event, got %q", env.Event)
		}
		var msg domain.EnrichedMessage
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		if msg.Content != "hello everyone" || msg.Sender.ID != "user_1" {
			t.Fatalf("unexpected message: %+v", msg)
		}
	}
}

func TestHub_InvalidToken_ErrorToSenderOnly(t *testing.T) {
	ts := newTestServer(t)

	sender := ts.dial(t)
	observer := ts.dial(t)
	ts.waitForConnections(t, 2)

	sendEvent(t, sender, EventChatMessage, map[string]string{
		"token":   "forged",
		"content": "should not go through",
	})

	env, ok := readEnvelope(t, sender, 2*time.Second)
	if !ok {
		t.Fatalf("sender got no error event")
	}
	if env.Event != EventError {
		t.Fatalf("expected error event, got %q", env.Event)
	}

	if env, ok := readEnvelope(t, observer, 300*time.Millisecond); ok {
		t.Fatalf("observer must receive nothing, got %q", env.Event)
	}
}

func TestHub_InvalidJoin_ErrorEvent(t *testing.T) {
	ts := newTestServer(t)

	conn := ts.dial(t)
	ts.waitForConnections(t, 1)

	sendEvent(t, conn, EventJoin, map[string]string{"token": "forged"})

	env, ok := readEnvelope(t, conn, 2*time.Second)
	if !ok {
		t.Fatalf("no error event received")
	}
	if env.Event != EventError {
		t.Fatalf("expected error event, got %q", env.Event)
	}
	var payload errorPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if payload.Message != "token is not valid" {
		t.Fatalf("unexpected error message: %q", payload.Message)
	}
}

func TestHub_ValidJoin_NoError(t *testing.T) {
	ts := newTestServer(t)

	conn := ts.dial(t)
	ts.waitForConnections(t, 1)

	sendEvent(t, conn, EventJoin, map[string]string{"token": ts.issueToken(t, "user_1")})

	if env, ok := readEnvelope(t, conn, 300*time.Millisecond); ok {
		t.Fatalf("valid join must be silent, got %q", env.Event)
	}
}

func TestHub_UnknownEvent_ErrorEvent(t *testing.T) {
	ts := newTestServer(t)

	conn := ts.dial(t)
	ts.waitForConnections(t, 1)

	sendEvent(t, conn, "typing", map[string]string{})

	env, ok := readEnvelope(t, conn, 2*time.Second)
	if !ok {
		t.Fatalf("no error event received")
	}
	if env.Event != EventError {
		t.Fatalf("expected error event, got %q", env.Event)
	}
}

func TestHub_DisconnectUpdatesCount(t *testing.T) {
	ts := newTestServer(t)

	conn := ts.dial(t)
	ts.waitForConnections(t, 1)

	_ = conn.Close()
	ts.waitForConnections(t, 0)
}

func TestHub_Shutdown(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	if err := hub.Shutdown(2 * time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestHub_ErrorAfterSlowDropDoesNotPanic(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	client := newClient(nil, hub, nil, nil, zerolog.Nop())
	hub.clients[client] = true

	// fill the send buffer so the next fan-out drops the client
	for i := 0; i < sendBufferSize; i++ {
		client.send <- []byte("backlog")
	}
	hub.fanOut([]byte("overflow"))

	if got := hub.ConnectionCount(); got != 0 {
		t.Fatalf("expected dropped client to be removed, have %d", got)
	}

	// the read side may still react to a bad inbound event after the drop
	client.sendError("token is not valid")
	client.sendError("malformed event")
}

func TestHub_ConcurrentErrorsDuringDrop(t *testing.T) {
	for i := 0; i < 100; i++ {
		hub := NewHub(zerolog.Nop())
		client := newClient(nil, hub, nil, nil, zerolog.Nop())
		hub.clients[client] = true
		for j := 0; j < sendBufferSize; j++ {
			client.send <- []byte("backlog")
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			for k := 0; k < 16; k++ {
				client.sendError("token is not valid")
			}
		}()

		hub.fanOut([]byte("overflow"))
		<-done
	}
}

func TestHub_ShutdownWithConnectedClients(t *testing.T) {
	ts := newTestServer(t)
	ts.dial(t)
	ts.dial(t)
	ts.waitForConnections(t, 2)

	start := time.Now()
	if err := ts.hub.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown with live clients: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("shutdown blocked for %v", elapsed)
	}
}
