package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/collabsphere/collabsphere-api/internal/core/domain"
)

const defaultTokenTTL = 120 * time.Hour // 5 days, matching client session length

// TokenService signs and verifies session tokens. It is stateless: there is
// no revocation list, a verified unexpired token is always accepted.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue produces a signed HS256 token carrying the user id and role.
func (s *TokenService) Issue(identity domain.Identity) (string, error) {
	claims := jwt.MapClaims{
		"user_id": identity.UserID,
		"role":    identity.Role,
		"exp":     time.Now().Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify parses the token and returns the embedded identity. Expired,
// malformed, or wrongly signed tokens all surface as ErrInvalidToken.
func (s *TokenService) Verify(token string) (domain.Identity, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	return domain.Identity{UserID: userID, Role: role}, nil
}
