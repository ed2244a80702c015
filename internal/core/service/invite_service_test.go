package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/collabsphere/collabsphere-api/internal/core/domain"
)

type stubInviteStore struct {
	codes map[string]string
}

func newStubInviteStore() *stubInviteStore {
	return &stubInviteStore{codes: make(map[string]string)}
}

func (s *stubInviteStore) Put(_ context.Context, code, inviterID string, _ time.Duration) error {
	s.codes[code] = inviterID
	return nil
}

func (s *stubInviteStore) Get(_ context.Context, code string) (string, error) {
	if inviterID, ok := s.codes[code]; ok {
		return inviterID, nil
	}
	return "", domain.ErrInviteNotFound
}

func TestInviteService_CreateAndAccept(t *testing.T) {
	store := newStubInviteStore()
	svc := NewInviteService(store, zerolog.Nop())

	invite, err := svc.Create(context.Background(), "manager_1")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !strings.HasPrefix(invite.Code, "CS-") || len(invite.Code) != 11 {
		t.Fatalf("unexpected code format: %q", invite.Code)
	}
	if invite.ExpiresAt.Before(time.Now()) {
		t.Fatalf("invite already expired: %v", invite.ExpiresAt)
	}

	inviterID, err := svc.Accept(context.Background(), invite.Code)
	if err != nil {
		t.Fatalf("Accept returned error: %v", err)
	}
	if inviterID != "manager_1" {
		t.Fatalf("unexpected inviter: %s", inviterID)
	}
}

func TestInviteService_Accept_Unknown(t *testing.T) {
	svc := NewInviteService(newStubInviteStore(), zerolog.Nop())

	if _, err := svc.Accept(context.Background(), "CS-DEADBEEF"); err != domain.ErrInviteNotFound {
		t.Fatalf("expected ErrInviteNotFound, got %v", err)
	}
}

func TestInviteService_CodesAreUnique(t *testing.T) {
	store := newStubInviteStore()
	svc := NewInviteService(store, zerolog.Nop())

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		invite, err := svc.Create(context.Background(), "manager_1")
		if err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
		if seen[invite.Code] {
			t.Fatalf("duplicate invite code: %s", invite.Code)
		}
		seen[invite.Code] = true
	}
}
