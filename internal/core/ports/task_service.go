package ports

import (
	"context"
	"time"

	"github.com/collabsphere/collabsphere-api/internal/core/domain"
)

// CreateTaskInput carries the fields accepted when creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    string
	AssignedTo  string
	DueDate     time.Time
	CreatedBy   string
}

// UpdateTaskInput carries a partial update; nil fields are left untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	AssignedTo  *string
	DueDate     *time.Time
}

// TaskView is a task with its creator and assignee joined to public profiles.
type TaskView struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Status      domain.TaskStatus   `json:"status"`
	Priority    domain.TaskPriority `json:"priority"`
	AssignedTo  *domain.Profile     `json:"assigned_to,omitempty"`
	CreatedBy   domain.Profile      `json:"created_by"`
	DueDate     time.Time           `json:"due_date,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type TaskService interface {
	Create(ctx context.Context, input CreateTaskInput) (*TaskView, error)
	// List returns tasks the requester created or is assigned to.
	List(ctx context.Context, userID string) ([]*TaskView, error)
	Update(ctx context.Context, id string, input UpdateTaskInput) (*TaskView, error)
	// Delete enforces the ownership rule: creator or admin only.
	Delete(ctx context.Context, id, requesterID, role string) error
}
