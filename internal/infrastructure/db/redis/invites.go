package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/collabsphere/collabsphere-api/internal/core/domain"
)

// InviteStore keeps invite codes in Redis with a TTL, mapping each code to
// the inviting manager's user id.
// Key format: invite:<code>
type InviteStore struct {
	client *redis.Client
}

// NewInviteStore creates an InviteStore wrapping the given Redis client.
func NewInviteStore(client *redis.Client) *InviteStore {
	return &InviteStore{client: client}
}

// Put stores the code for ttl. Codes are written once and never refreshed.
func (s *InviteStore) Put(ctx context.Context, code, inviterID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(code), inviterID, ttl).Err(); err != nil {
		return fmt.Errorf("store invite: %w", err)
	}
	return nil
}

// Get resolves a code to the inviter's user id. Expired keys are gone from
// Redis, so expired and unknown codes are indistinguishable.
func (s *InviteStore) Get(ctx context.Context, code string) (string, error) {
	inviterID, err := s.client.Get(ctx, s.key(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrInviteNotFound
		}
		return "", fmt.Errorf("resolve invite: %w", err)
	}
	return inviterID, nil
}

func (s *InviteStore) key(code string) string {
	return "invite:" + code
}
