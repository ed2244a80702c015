package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/collabsphere/collabsphere-api/internal/core/domain"
	"github.com/collabsphere/collabsphere-api/internal/core/ports"
)

// AuthService implements signup, login, and the post-signup role choice.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenService
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func (s *AuthService) Signup(ctx context.Context, name, email, password, role string) (*domain.User, string, error) {
	if name == "" || email == "" || password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}
	if role == "" {
		role = domain.RoleTeamMember
	}
	if !domain.ValidRole(role) {
		return nil, "", domain.ErrInvalidRole
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, "", domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(domain.Identity{UserID: created.ID, Role: created.Role})
	if err != nil {
		return nil, "", err
	}
	return created, token, nil
}

// Login checks credentials. Unknown email and wrong password both collapse
// into ErrInvalidCredentials so the response does not reveal which failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(domain.Identity{UserID: user.ID, Role: user.Role})
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) ChooseRole(ctx context.Context, userID, role string) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}
	return s.users.UpdateRole(ctx, userID, role)
}
