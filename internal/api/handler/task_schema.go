package handler

import "time"

type createTaskRequest struct {
	Title       string    `json:"title"       validate:"required"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"    validate:"omitempty,oneof=low medium high"`
	AssignedTo  string    `json:"assigned_to"`
	DueDate     time.Time `json:"due_date"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"   validate:"omitempty,oneof=pending in-progress completed"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedTo  *string    `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
}
