package ports

import "github.com/collabsphere/collabsphere-api/internal/core/domain"

// TokenService issues and verifies the stateless session tokens presented on
// every protected request and realtime event.
type TokenService interface {
	// Issue signs a time-limited token carrying the identity.
	Issue(identity domain.Identity) (string, error)
	// Verify checks signature and expiry and returns the embedded identity.
	// Any failure surfaces as domain.ErrInvalidToken.
	Verify(token string) (domain.Identity, error)
}
