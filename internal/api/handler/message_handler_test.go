package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/collabsphere/collabsphere-api/internal/core/domain"
)

type stubChatService struct {
	sent    []string
	sendErr error
	history []*domain.EnrichedMessage
}

func (s *stubChatService) SendMessage(_ context.Context, senderID, content string) (*domain.EnrichedMessage, error) {
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	s.sent = append(s.sent, content)
	return &domain.EnrichedMessage{
		ID:        "msg_1",
		Sender:    domain.Profile{ID: senderID, Name: "Alice"},
		Content:   content,
		Seq:       1,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (s *stubChatService) ListMessages(_ context.Context) ([]*domain.EnrichedMessage, error) {
	return s.history, nil
}

func TestMessageHandler_Post(t *testing.T) {
	stub := &stubChatService{}
	h := NewMessageHandler(stub)
	c, rec := newTestContext(t, http.MethodPost, "/api/messages", `{"content":"hello team"}`)
	c.Set("user_id", "user_1")
	c.Set("role", domain.RoleTeamMember)

	if err := h.Post(c); err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if len(stub.sent) != 1 || stub.sent[0] != "hello team" {
		t.Fatalf("message not sent through service: %v", stub.sent)
	}

	var msg domain.EnrichedMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &msg); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if msg.Sender.ID != "user_1" {
		t.Fatalf("unexpected sender: %+v", msg.Sender)
	}
}

func TestMessageHandler_Post_MissingContent(t *testing.T) {
	h := NewMessageHandler(&stubChatService{})
	c, _ := newTestContext(t, http.MethodPost, "/api/messages", `{}`)
	c.Set("user_id", "user_1")
	c.Set("role", domain.RoleTeamMember)

	err := h.Post(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestMessageHandler_Post_Unauthenticated(t *testing.T) {
	h := NewMessageHandler(&stubChatService{})
	c, _ := newTestContext(t, http.MethodPost, "/api/messages", `{"content":"hello"}`)

	err := h.Post(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestMessageHandler_Post_EmptyContentFromService(t *testing.T) {
	h := NewMessageHandler(&stubChatService{sendErr: domain.ErrEmptyMessage})
	c, _ := newTestContext(t, http.MethodPost, "/api/messages", `{"content":"   "}`)
	c.Set("user_id", "user_1")
	c.Set("role", domain.RoleTeamMember)

	if err := h.Post(c); err != domain.ErrEmptyMessage {
		t.Fatalf("expected ErrEmptyMessage passthrough, got %v", err)
	}
}

func TestMessageHandler_List(t *testing.T) {
	stub := &stubChatService{
		history: []*domain.EnrichedMessage{
			{ID: "msg_1", Sender: domain.Profile{ID: "user_1", Name: "Alice"}, Content: "first", Seq: 1},
			{ID: "msg_2", Sender: domain.Profile{ID: "user_2", Name: "Bob"}, Content: "second", Seq: 2},
		},
	}
	h := NewMessageHandler(stub)
	c, rec := newTestContext(t, http.MethodGet, "/api/messages", "")
	c.Set("user_id", "user_1")
	c.Set("role", domain.RoleTeamMember)

	if err := h.List(c); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var msgs []domain.EnrichedMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &msgs); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "first" {
		t.Fatalf("unexpected history: %+v", msgs)
	}
}
