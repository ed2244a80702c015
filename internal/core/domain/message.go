package domain

import (
	"errors"
	"time"
)

var ErrEmptyMessage = errors.New("message content is empty")

// Message is a chat message as stored. Messages are append-only and immutable;
// there is no edit or delete operation.
type Message struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	Seq       int64     `json:"seq"`
	CreatedAt time.Time `json:"created_at"`
}

// EnrichedMessage is a stored message joined with the sender's public profile.
// This is the only message shape that ever leaves the server.
type EnrichedMessage struct {
	ID        string    `json:"id"`
	Sender    Profile   `json:"sender"`
	Content   string    `json:"content"`
	Seq       int64     `json:"seq"`
	CreatedAt time.Time `json:"created_at"`
}
