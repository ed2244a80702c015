package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/collabsphere/collabsphere-api/internal/core/domain"
	"github.com/collabsphere/collabsphere-api/internal/core/ports"
)

// ProjectService implements project CRUD. Reads are scoped to members;
// deletes follow the same creator-or-admin rule as tasks.
type ProjectService struct {
	projects ports.ProjectRepository
	logger   zerolog.Logger
}

func NewProjectService(projects ports.ProjectRepository, logger zerolog.Logger) *ProjectService {
	return &ProjectService{projects: projects, logger: logger}
}

func (s *ProjectService) Create(ctx context.Context, input ports.CreateProjectInput) (*domain.Project, error) {
	now := time.Now().UTC()
	project := &domain.Project{
		Name:        input.Name,
		Description: input.Description,
		Members:     input.Members,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if project.Members == nil {
		project.Members = []string{}
	}

	created, err := s.projects.Create(ctx, project)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("project_id", created.ID).Str("created_by", created.CreatedBy).Msg("project created")
	return created, nil
}

func (s *ProjectService) Get(ctx context.Context, id, requesterID string) (*domain.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !project.HasMember(requesterID) {
		return nil, domain.ErrForbidden
	}
	return project, nil
}

func (s *ProjectService) List(ctx context.Context, userID string) ([]*domain.Project, error) {
	return s.projects.ListForUser(ctx, userID)
}

func (s *ProjectService) Update(ctx context.Context, id, requesterID string, input ports.UpdateProjectInput) (*domain.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !project.HasMember(requesterID) {
		return nil, domain.ErrForbidden
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Members != nil {
		project.Members = *input.Members
	}
	project.UpdatedAt = time.Now().UTC()

	return s.projects.Update(ctx, project)
}

func (s *ProjectService) Delete(ctx context.Context, id, requesterID, role string) error {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if project.CreatedBy != requesterID && role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return s.projects.Delete(ctx, id)
}
