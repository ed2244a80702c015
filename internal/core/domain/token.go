package domain

import "errors"

var ErrInvalidToken = errors.New("token is not valid")

// Identity is the authenticated principal carried by a session token and
// injected into request contexts by the auth middleware.
type Identity struct {
	UserID string
	Role   string
}
