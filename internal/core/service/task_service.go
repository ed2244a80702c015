package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/collabsphere/collabsphere-api/internal/core/domain"
	"github.com/collabsphere/collabsphere-api/internal/core/ports"
)

// TaskService implements task CRUD with the creator-or-admin delete rule.
type TaskService struct {
	tasks  ports.TaskRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewTaskService(tasks ports.TaskRepository, users ports.UserRepository, logger zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, users: users, logger: logger}
}

func (s *TaskService) Create(ctx context.Context, input ports.CreateTaskInput) (*ports.TaskView, error) {
	now := time.Now().UTC()
	task := &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.TaskPending,
		Priority:    domain.TaskPriority(input.Priority),
		AssignedTo:  input.AssignedTo,
		CreatedBy:   input.CreatedBy,
		DueDate:     input.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("task_id", created.ID).Str("created_by", created.CreatedBy).Msg("task created")
	return s.enrichOne(ctx, created)
}

func (s *TaskService) List(ctx context.Context, userID string) ([]*ports.TaskView, error) {
	tasks, err := s.tasks.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, tasks)
}

func (s *TaskService) Update(ctx context.Context, id string, input ports.UpdateTaskInput) (*ports.TaskView, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = domain.TaskStatus(*input.Status)
	}
	if input.Priority != nil {
		task.Priority = domain.TaskPriority(*input.Priority)
	}
	if input.AssignedTo != nil {
		task.AssignedTo = *input.AssignedTo
	}
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	}
	task.UpdatedAt = time.Now().UTC()

	updated, err := s.tasks.Update(ctx, task)
	if err != nil {
		return nil, err
	}
	return s.enrichOne(ctx, updated)
}

// Delete removes a task. Only the creator or an admin may delete; everyone
// else gets ErrForbidden.
func (s *TaskService) Delete(ctx context.Context, id, requesterID, role string) error {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !task.CanDelete(requesterID, role) {
		return domain.ErrForbidden
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("task_id", id).Str("deleted_by", requesterID).Msg("task deleted")
	return nil
}

func (s *TaskService) enrichOne(ctx context.Context, task *domain.Task) (*ports.TaskView, error) {
	views, err := s.enrich(ctx, []*domain.Task{task})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// enrich joins creator and assignee ids to public profiles in one batched
// user lookup.
func (s *TaskService) enrich(ctx context.Context, tasks []*domain.Task) ([]*ports.TaskView, error) {
	ids := make([]string, 0, len(tasks)*2)
	seen := make(map[string]struct{}, len(tasks)*2)
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, t := range tasks {
		add(t.CreatedBy)
		add(t.AssignedTo)
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	profile := func(id string) domain.Profile {
		if u, ok := users[id]; ok {
			return u.Profile()
		}
		return domain.Profile{ID: id}
	}

	views := make([]*ports.TaskView, 0, len(tasks))
	for _, t := range tasks {
		view := &ports.TaskView{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Status:      t.Status,
			Priority:    t.Priority,
			CreatedBy:   profile(t.CreatedBy),
			DueDate:     t.DueDate,
			CreatedAt:   t.CreatedAt,
			UpdatedAt:   t.UpdatedAt,
		}
		if t.AssignedTo != "" {
			p := profile(t.AssignedTo)
			view.AssignedTo = &p
		}
		views = append(views, view)
	}
	return views, nil
}
