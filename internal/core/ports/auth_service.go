package ports

import (
	"context"

	"github.com/collabsphere/collabsphere-api/internal/core/domain"
)

type AuthService interface {
	// Signup creates an account and returns it together with a fresh token.
	Signup(ctx context.Context, name, email, password, role string) (*domain.User, string, error)
	// Login checks credentials and returns a token plus the account.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// ChooseRole updates the role picked in the post-signup step.
	ChooseRole(ctx context.Context, userID, role string) (*domain.User, error)
}
