package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskly/backend/internal/apperrors"
	"github.com/taskly/backend/internal/models"
)

func noteFixture(t *testing.T, h *projectHarness) (*models.Project, *models.Task) {
	t.Helper()
	p := h.project(t)
	task, err := h.taskSvc.Create(context.Background(), h.manager, p, "Design", "Mockups")
	require.NoError(t, err)
	return h.reload(t, p.ID), task
}

func TestNoteCreate(t *testing.T) {
	h := newProjectHarness(t)
	ctx := context.Background()
	p, task := noteFixture(t, h)

	note, err := h.noteSvc.Create(ctx, h.member, p, task, "Draft looks good")
	require.NoError(t, err)
	assert.Equal(t, h.member.ID, note.CreatedBy)
	assert.Equal(t, task.ID, note.TaskID)

	got, err := h.tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Contains(t, got.Notes, note.ID)
}

func TestNoteCreateOutsiderForbidden(t *testing.T) {
	h := newProjectHarness(t)
	ctx := context.Background()
	p, task := noteFixture(t, h)

	_, err := h.noteSvc.Create(ctx, h.outside, p, task, "Sneaky comment")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Equal(t, 0, h.notes.Count())
}

func TestNoteCreateWrongProject(t *testing.T) {
	h := newProjectHarness(t)
	ctx := context.Background()
	_, task := noteFixture(t, h)

	other, err := h.projectSvc.Create(ctx, h.manager, "Other", "Acme", "Second project")
	require.NoError(t, err)

	_, err = h.noteSvc.Create(ctx, h.manager, other, task, "Misrouted")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRelation)
	assert.Equal(t, 0, h.notes.Count())
}

func TestNoteListByTask(t *testing.T) {
	h := newProjectHarness(t)
	ctx := context.Background()
	p, task := noteFixture(t, h)

	_, err := h.noteSvc.Create(ctx, h.member, p, task, "First")
	require.NoError(t, err)
	_, err = h.noteSvc.Create(ctx, h.manager, p, task, "Second")
	require.NoError(t, err)

	notes, err := h.noteSvc.ListByTask(ctx, h.member, p, task)
	require.NoError(t, err)
	assert.Len(t, notes, 2)

	_, err = h.noteSvc.ListByTask(ctx, h.outside, p, task)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestNoteDeleteAuthorOnly(t *testing.T) {
	h := newProjectHarness(t)
	ctx := context.Background()
	p, task := noteFixture(t, h)

	note, err := h.noteSvc.Create(ctx, h.member, p, task, "Mine")
	require.NoError(t, err)

	// Not even the manager may delete someone else's note.
	err = h.noteSvc.Delete(ctx, h.manager, p, task, note.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Equal(t, 1, h.notes.Count())

	require.NoError(t, h.noteSvc.Delete(ctx, h.member, p, task, note.ID))
	assert.Equal(t, 0, h.notes.Count())

	got, err := h.tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.NotContains(t, got.Notes, note.ID)
}

func TestNoteDeleteUnknown(t *testing.T) {
	h := newProjectHarness(t)
	ctx := context.Background()
	p, task := noteFixture(t, h)

	err := h.noteSvc.Delete(ctx, h.member, p, task, "note-999")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
