package domain

import (
	"errors"
	"time"
)

// TaskStatus represents the workflow state of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
)

// TaskPriority levels as shown on the dashboards.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

var ErrTaskNotFound = errors.New("task not found")
var ErrForbidden = errors.New("not authorized")

// Task is a unit of work created by one user and optionally assigned to another.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	AssignedTo  string       `json:"assigned_to,omitempty"`
	CreatedBy   string       `json:"created_by"`
	DueDate     time.Time    `json:"due_date,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// CanDelete applies the one hard authorization rule: only the creator or an
// admin may remove a task.
func (t *Task) CanDelete(userID, role string) bool {
	return t.CreatedBy == userID || role == RoleAdmin
}
