package domain

import (
	"errors"
	"time"
)

var ErrInviteNotFound = errors.New("invite not found or expired")

// Invite is a short-lived code a manager hands out to onboard a team member.
// Invites live in Redis only; they are not part of the durable data model.
type Invite struct {
	Code      string    `json:"code"`
	InviterID string    `json:"inviter_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
