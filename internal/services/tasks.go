package services

import (
	"context"
	"log/slog"

	"github.com/taskly/backend/internal/apperrors"
	"github.com/taskly/backend/internal/authz"
	"github.com/taskly/backend/internal/models"
	"github.com/taskly/backend/internal/store"
)

// TaskService handles task operations under a resolved project. Every method
// re-validates the task/project relation before anything else, so no
// mutation can happen through a mismatched pair.
type TaskService struct {
	tasks    store.Tasks
	projects store.Projects
	notes    store.Notes
	log      *slog.Logger
}

func NewTaskService(tasks store.Tasks, projects store.Projects, notes store.Notes, log *slog.Logger) *TaskService {
	return &TaskService{tasks: tasks, projects: projects, notes: notes, log: log}
}

// Create adds a task to the project and records it in the project's task
// list. Manager only.
func (s *TaskService) Create(ctx context.Context, user *models.User, project *models.Project, name, description string) (*models.Task, error) {
	if !authz.CanMutateProject(user, project) {
		return nil, apperrors.ErrForbidden
	}

	task := &models.Task{
		Name:        name,
		Description: description,
		ProjectID:   project.ID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	if err := s.projects.AppendTask(ctx, project.ID, task.ID); err != nil {
		return nil, err
	}
	return task, nil
}

// ListByProject returns the project's tasks. Any member may read.
func (s *TaskService) ListByProject(ctx context.Context, user *models.User, project *models.Project) ([]models.Task, error) {
	if !authz.CanViewProject(user, project) {
		return nil, apperrors.ErrForbidden
	}
	return s.tasks.ListByProject(ctx, project.ID)
}

// Get returns a resolved task after the relation and membership checks.
func (s *TaskService) Get(ctx context.Context, user *models.User, project *models.Project, task *models.Task) (*models.Task, error) {
	if !authz.TaskBelongsToProject(task, project) {
		return nil, apperrors.ErrInvalidRelation
	}
	if !authz.CanViewProject(user, project) {
		return nil, apperrors.ErrForbidden
	}
	return task, nil
}

// Update changes the task's name and description. Manager only.
func (s *TaskService) Update(ctx context.Context, user *models.User, project *models.Project, task *models.Task, name, description string) error {
	if !authz.TaskBelongsToProject(task, project) {
		return apperrors.ErrInvalidRelation
	}
	if !authz.CanMutateProject(user, project) {
		return apperrors.ErrForbidden
	}
	return s.tasks.Update(ctx, task.ID, name, description)
}

// Delete removes the task, its notes and its entry in the project task list.
// Manager only.
func (s *TaskService) Delete(ctx context.Context, user *models.User, project *models.Project, task *models.Task) error {
	if !authz.TaskBelongsToProject(task, project) {
		return apperrors.ErrInvalidRelation
	}
	if !authz.CanMutateProject(user, project) {
		return apperrors.ErrForbidden
	}

	if err := s.notes.DeleteByTask(ctx, task.ID); err != nil {
		return err
	}
	if err := s.projects.RemoveTask(ctx, project.ID, task.ID); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, task.ID)
}

// UpdateStatus moves the task to a new lifecycle state and logs who did it.
// Any member may change status.
func (s *TaskService) UpdateStatus(ctx context.Context, user *models.User, project *models.Project, task *models.Task, status models.TaskStatus) error {
	if !authz.TaskBelongsToProject(task, project) {
		return apperrors.ErrInvalidRelation
	}
	if !authz.CanViewProject(user, project) {
		return apperrors.ErrForbidden
	}
	if !models.ValidStatus(status) {
		return apperrors.ErrValidation
	}
	return s.tasks.AppendStatusChange(ctx, task.ID, user.ID, status)
}
