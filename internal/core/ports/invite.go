package ports

import (
	"context"
	"time"

	"github.com/collabsphere/collabsphere-api/internal/core/domain"
)

// InviteStore is the short-lived invite code store (Redis).
type InviteStore interface {
	Put(ctx context.Context, code, inviterID string, ttl time.Duration) error
	// Get resolves a code to the inviter's user id. Unknown or expired codes
	// return domain.ErrInviteNotFound.
	Get(ctx context.Context, code string) (string, error)
}

// InviteService creates and redeems team invite codes.
type InviteService interface {
	Create(ctx context.Context, inviterID string) (*domain.Invite, error)
	// Accept resolves the code and returns the inviter's user id.
	Accept(ctx context.Context, code string) (string, error)
}
