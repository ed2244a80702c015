package ports

import (
	"context"

	"github.com/collabsphere/collabsphere-api/internal/core/domain"
)

// CreateProjectInput carries the fields accepted when creating a project.
type CreateProjectInput struct {
	Name        string
	Description string
	Members     []string
	CreatedBy   string
}

// UpdateProjectInput carries a partial update; nil fields are left untouched.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Members     *[]string
}

type ProjectService interface {
	Create(ctx context.Context, input CreateProjectInput) (*domain.Project, error)
	Get(ctx context.Context, id, requesterID string) (*domain.Project, error)
	List(ctx context.Context, userID string) ([]*domain.Project, error)
	Update(ctx context.Context, id, requesterID string, input UpdateProjectInput) (*domain.Project, error)
	// Delete is creator-only, mirroring the task ownership rule.
	Delete(ctx context.Context, id, requesterID, role string) error
}
