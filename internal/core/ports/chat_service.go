package ports

import (
	"context"

	"github.com/collabsphere/collabsphere-api/internal/core/domain"
)

// Broadcaster pushes a newly stored message to every connected realtime
// client. Implemented by the realtime hub.
type Broadcaster interface {
	Broadcast(msg *domain.EnrichedMessage)
}

// ChatService is the single write path for chat. Both the REST handler and
// the websocket event handler go through SendMessage so the two entry points
// cannot diverge.
type ChatService interface {
	SendMessage(ctx context.Context, senderID, content string) (*domain.EnrichedMessage, error)
	// ListMessages returns up to the 50 most recent messages, oldest first.
	ListMessages(ctx context.Context) ([]*domain.EnrichedMessage, error)
}
