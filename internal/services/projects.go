package services

import (
	"context"
	"log/slog"

	"github.com/taskly/backend/internal/apperrors"
	"github.com/taskly/backend/internal/authz"
	"github.com/taskly/backend/internal/models"
	"github.com/taskly/backend/internal/store"
)

// ProjectService handles project CRUD. Mutations re-validate the caller's
// role against the resolved project even though the route pipeline has
// already gated them.
type ProjectService struct {
	projects store.Projects
	tasks    store.Tasks
	notes    store.Notes
	log      *slog.Logger
}

func NewProjectService(projects store.Projects, tasks store.Tasks, notes store.Notes, log *slog.Logger) *ProjectService {
	return &ProjectService{projects: projects, tasks: tasks, notes: notes, log: log}
}

// Create makes the caller the manager of a new project.
func (s *ProjectService) Create(ctx context.Context, manager *models.User, projectName, clientName, description string) (*models.Project, error) {
	project := &models.Project{
		ProjectName: projectName,
		ClientName:  clientName,
		Description: description,
		ManagerID:   manager.ID,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// List returns every project the caller manages or is a team member of.
func (s *ProjectService) List(ctx context.Context, user *models.User) ([]models.Project, error) {
	return s.projects.ListForUser(ctx, user.ID)
}

// Get returns the resolved project if the caller may view it.
func (s *ProjectService) Get(ctx context.Context, user *models.User, project *models.Project) (*models.Project, error) {
	if !authz.CanViewProject(user, project) {
		return nil, apperrors.ErrForbidden
	}
	return project, nil
}

// Update changes the project's identity fields. Manager only.
func (s *ProjectService) Update(ctx context.Context, user *models.User, project *models.Project, projectName, clientName, description string) error {
	if !authz.CanMutateProject(user, project) {
		return apperrors.ErrForbidden
	}
	return s.projects.Update(ctx, project.ID, projectName, clientName, description)
}

// Delete removes the project and cascades to its tasks and their notes.
func (s *ProjectService) Delete(ctx context.Context, user *models.User, project *models.Project) error {
	if !authz.CanMutateProject(user, project) {
		return apperrors.ErrForbidden
	}

	if err := s.notes.DeleteByTasks(ctx, project.Tasks); err != nil {
		return err
	}
	if err := s.tasks.DeleteByProject(ctx, project.ID); err != nil {
		return err
	}
	return s.projects.Delete(ctx, project.ID)
}
