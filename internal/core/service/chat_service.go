package service

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/collabsphere/collabsphere-api/internal/core/domain"
	"github.com/collabsphere/collabsphere-api/internal/core/ports"
)

const historyWindow = 50

// ChatService is the single write path for chat messages. The REST handler
// and the websocket event handler both call SendMessage, so persistence,
// enrichment, and broadcast cannot diverge between the two entry points.
type ChatService struct {
	messages ports.MessageRepository
	users    ports.UserRepository
	hub      ports.Broadcaster
	logger   zerolog.Logger

	// seq hands out a monotonic ordering token at submission time, before
	// persistence, so concurrent sends still get distinct positions.
	seq atomic.Int64
}

func NewChatService(ctx context.Context, messages ports.MessageRepository, users ports.UserRepository, hub ports.Broadcaster, logger zerolog.Logger) (*ChatService, error) {
	s := &ChatService{messages: messages, users: users, hub: hub, logger: logger}

	last, err := messages.LastSeq(ctx)
	if err != nil {
		return nil, err
	}
	s.seq.Store(last)
	return s, nil
}

// SendMessage persists the message, enriches it with the sender's public
// profile, and fans it out to all connected realtime clients.
func (s *ChatService) SendMessage(ctx context.Context, senderID, content string) (*domain.EnrichedMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrEmptyMessage
	}

	sender, err := s.users.FindByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		SenderID:  senderID,
		Content:   content,
		Seq:       s.seq.Add(1),
		CreatedAt: time.Now().UTC(),
	}

	stored, err := s.messages.Append(ctx, msg)
	if err != nil {
		s.logger.Error().Err(err).Str("sender_id", senderID).Msg("failed to store message")
		return nil, err
	}

	enriched := &domain.EnrichedMessage{
		ID:        stored.ID,
		Sender:    sender.Profile(),
		Content:   stored.Content,
		Seq:       stored.Seq,
		CreatedAt: stored.CreatedAt,
	}

	s.hub.Broadcast(enriched)

	s.logger.Debug().Str("message_id", stored.ID).Int64("seq", stored.Seq).Msg("message sent")
	return enriched, nil
}

// ListMessages returns the most recent messages (up to 50) in chronological
// order, each joined with its sender's public profile.
func (s *ChatService) ListMessages(ctx context.Context) ([]*domain.EnrichedMessage, error) {
	stored, err := s.messages.ListRecent(ctx, historyWindow)
	if err != nil {
		return nil, err
	}

	senderIDs := make([]string, 0, len(stored))
	seen := make(map[string]struct{}, len(stored))
	for _, m := range stored {
		if _, ok := seen[m.SenderID]; !ok {
			seen[m.SenderID] = struct{}{}
			senderIDs = append(senderIDs, m.SenderID)
		}
	}

	senders, err := s.users.FindByIDs(ctx, senderIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.EnrichedMessage, 0, len(stored))
	for _, m := range stored {
		profile := domain.Profile{ID: m.SenderID}
		if u, ok := senders[m.SenderID]; ok {
			profile = u.Profile()
		}
		out = append(out, &domain.EnrichedMessage{
			ID:        m.ID,
			Sender:    profile,
			Content:   m.Content,
			Seq:       m.Seq,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}
