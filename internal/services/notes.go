package services

import (
	"context"
	"log/slog"

	"github.com/taskly/backend/internal/apperrors"
	"github.com/taskly/backend/internal/authz"
	"github.com/taskly/backend/internal/models"
	"github.com/taskly/backend/internal/store"
)

// NoteService handles task notes. Creation is open to any project member;
// deletion is gated on authorship, not project role.
type NoteService struct {
	notes store.Notes
	tasks store.Tasks
	log   *slog.Logger
}

func NewNoteService(notes store.Notes, tasks store.Tasks, log *slog.Logger) *NoteService {
	return &NoteService{notes: notes, tasks: tasks, log: log}
}

// Create attaches a note to the task and records it in the task's note list.
func (s *NoteService) Create(ctx context.Context, user *models.User, project *models.Project, task *models.Task, content string) (*models.Note, error) {
	if !authz.TaskBelongsToProject(task, project) {
		return nil, apperrors.ErrInvalidRelation
	}
	if !authz.CanViewProject(user, project) {
		return nil, apperrors.ErrForbidden
	}

	note := &models.Note{
		Content:   content,
		CreatedBy: user.ID,
		TaskID:    task.ID,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	if err := s.tasks.AppendNote(ctx, task.ID, note.ID); err != nil {
		return nil, err
	}
	return note, nil
}

// ListByTask returns the notes on a task.
func (s *NoteService) ListByTask(ctx context.Context, user *models.User, project *models.Project, task *models.Task) ([]models.Note, error) {
	if !authz.TaskBelongsToProject(task, project) {
		return nil, apperrors.ErrInvalidRelation
	}
	if !authz.CanViewProject(user, project) {
		return nil, apperrors.ErrForbidden
	}
	return s.notes.ListByTask(ctx, task.ID)
}

// Delete removes a note. Only its author may delete it, regardless of
// project role.
func (s *NoteService) Delete(ctx context.Context, user *models.User, project *models.Project, task *models.Task, noteID string) error {
	if !authz.TaskBelongsToProject(task, project) {
		return apperrors.ErrInvalidRelation
	}

	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return err
	}
	if !authz.CanDeleteNote(user, note) {
		return apperrors.ErrForbidden
	}

	if err := s.tasks.RemoveNote(ctx, task.ID, note.ID); err != nil {
		return err
	}
	return s.notes.Delete(ctx, note.ID)
}
