package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/collabsphere/collabsphere-api/internal/core/domain"
)

type stubUserService struct {
	me    *domain.User
	meErr error
	users []*domain.User
}

func (s *stubUserService) Me(_ context.Context, _ string) (*domain.User, error) {
	if s.meErr != nil {
		return nil, s.meErr
	}
	return s.me, nil
}

func (s *stubUserService) List(_ context.Context) ([]*domain.User, error) {
	return s.users, nil
}

func TestUserHandler_Me(t *testing.T) {
	h := NewUserHandler(&stubUserService{
		me: &domain.User{ID: "user_1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleManager, PasswordHash: "hash"},
	})
	c, rec := newTestContext(t, http.MethodGet, "/api/users/me", "")
	c.Set("user_id", "user_1")
	c.Set("role", domain.RoleManager)

	if err := h.Me(c); err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}

	var user domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestUserHandler_Me_NotFound(t *testing.T) {
	h := NewUserHandler(&stubUserService{meErr: domain.ErrUserNotFound})
	c, _ := newTestContext(t, http.MethodGet, "/api/users/me", "")
	c.Set("user_id", "user_404")
	c.Set("role", domain.RoleTeamMember)

	if err := h.Me(c); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound passthrough, got %v", err)
	}
}

func TestUserHandler_List(t *testing.T) {
	h := NewUserHandler(&stubUserService{
		users: []*domain.User{
			{ID: "user_1", Name: "Alice", Role: domain.RoleManager, PasswordHash: "hash1"},
			{ID: "user_2", Name: "Bob", Role: domain.RoleTeamMember, PasswordHash: "hash2"},
		},
	})
	c, rec := newTestContext(t, http.MethodGet, "/api/users", "")
	c.Set("user_id", "user_1")
	c.Set("role", domain.RoleManager)

	if err := h.List(c); err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	var users []domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
}
