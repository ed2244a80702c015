package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/collabsphere/collabsphere-api/internal/core/domain"
	"github.com/collabsphere/collabsphere-api/internal/core/ports"
)

const inviteTTL = 7 * 24 * time.Hour

// InviteService creates and redeems short-lived team invite codes backed by
// the invite store (Redis).
type InviteService struct {
	store  ports.InviteStore
	logger zerolog.Logger
}

func NewInviteService(store ports.InviteStore, logger zerolog.Logger) *InviteService {
	return &InviteService{store: store, logger: logger}
}

func (s *InviteService) Create(ctx context.Context, inviterID string) (*domain.Invite, error) {
	code := generateInviteCode()
	if err := s.store.Put(ctx, code, inviterID, inviteTTL); err != nil {
		return nil, err
	}

	s.logger.Info().Str("inviter_id", inviterID).Str("code", code).Msg("invite created")
	return &domain.Invite{
		Code:      code,
		InviterID: inviterID,
		ExpiresAt: time.Now().UTC().Add(inviteTTL),
	}, nil
}

func (s *InviteService) Accept(ctx context.Context, code string) (string, error) {
	inviterID, err := s.store.Get(ctx, code)
	if err != nil {
		return "", err
	}
	return inviterID, nil
}

// generateInviteCode returns a code in the format CS-XXXXXXXX.
func generateInviteCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("CS-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("CS-%08X", b)
}
