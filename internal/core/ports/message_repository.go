package ports

import (
	"context"

	"github.com/collabsphere/collabsphere-api/internal/core/domain"
)

// MessageRepository is the append-only chat message store.
type MessageRepository interface {
	Append(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	// ListRecent returns the newest limit messages in chronological
	// (oldest-first) order.
	ListRecent(ctx context.Context, limit int) ([]*domain.Message, error)
	// LastSeq returns the highest sequence number stored, or 0 when empty.
	LastSeq(ctx context.Context) (int64, error)
}
