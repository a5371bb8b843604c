package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskly/backend/internal/apperrors"
	"github.com/taskly/backend/internal/models"
	"github.com/taskly/backend/internal/store/storetest"
)

type projectHarness struct {
	projects *storetest.Projects
	tasks    *storetest.Tasks
	notes    *storetest.Notes
	users    *storetest.Users

	projectSvc *ProjectService
	taskSvc    *TaskService
	teamSvc    *TeamService
	noteSvc    *NoteService

	manager *models.User
	member  *models.User
	outside *models.User
}

func newProjectHarness(t *testing.T) *projectHarness {
	t.Helper()
	ctx := context.Background()

	h := &projectHarness{
		projects: storetest.NewProjects(),
		tasks:    storetest.NewTasks(),
		notes:    storetest.NewNotes(),
		users:    storetest.NewUsers(),
	}
	log := slog.Default()
	h.projectSvc = NewProjectService(h.projects, h.tasks, h.notes, log)
	h.taskSvc = NewTaskService(h.tasks, h.projects, h.notes, log)
	h.teamSvc = NewTeamService(h.projects, h.users, log)
	h.noteSvc = NewNoteService(h.notes, h.tasks, log)

	for _, u := range []**models.User{&h.manager, &h.member, &h.outside} {
		*u = &models.User{Confirmed: true}
	}
	h.manager.Email, h.manager.Name = "manager@example.com", "Manager"
	h.member.Email, h.member.Name = "member@example.com", "Member"
	h.outside.Email, h.outside.Name = "outside@example.com", "Outside"
	for _, u := range []*models.User{h.manager, h.member, h.outside} {
		require.NoError(t, h.users.Create(ctx, u))
		require.NoError(t, h.users.Confirm(ctx, u.ID))
		u.Confirmed = true
	}
	return h
}

// project creates a project managed by h.manager with h.member on the team
// and returns the freshly resolved document.
func (h *projectHarness) project(t *testing.T) *models.Project {
	t.Helper()
	ctx := context.Background()

	p, err := h.projectSvc.Create(ctx, h.manager, "Website", "Acme", "Marketing site rebuild")
	require.NoError(t, err)
	require.NoError(t, h.projects.AddTeamMember(ctx, p.ID, h.member.ID))
	return h.reload(t, p.ID)
}

func (h *projectHarness) reload(t *testing.T, projectID string) *models.Project {
	t.Helper()
	p, err := h.projects.GetByID(context.Background(), projectID)
	require.NoError(t, err)
	return p
}

func TestProjectCreateSetsManager(t *testing.T) {
	h := newProjectHarness(t)

	p, err := h.projectSvc.Create(context.Background(), h.manager, "Website", "Acme", "Rebuild")
	require.NoError(t, err)
	assert.Equal(t, h.manager.ID, p.ManagerID)
	assert.Empty(t, p.Team)
	assert.Empty(t, p.Tasks)
}

func TestProjectListForUser(t *testing.T) {
	h := newProjectHarness(t)
	ctx := context.Background()
	h.project(t)

	for _, tc := range []struct {
		name string
		user *models.User
		want int
	}{
		{"manager", h.manager, 1},
		{"member", h.member, 1},
		{"outsider", h.outside, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			list, err := h.projectSvc.List(ctx, tc.user)
			require.NoError(t, err)
			assert.Len(t, list, tc.want)
		})
	}
}

func TestProjectGetVisibility(t *testing.T) {
	h := newProjectHarness(t)
	ctx := context.Background()
	p := h.project(t)

	_, err := h.projectSvc.Get(ctx, h.member, p)
	assert.NoError(t, err)

	_, err = h.projectSvc.Get(ctx, h.outside, p)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestProjectUpdateManagerOnly(t *testing.T) {
	h := newProjectHarness(t)
	ctx := context.Background()
	p := h.project(t)

	err := h.projectSvc.Update(ctx, h.member, p, "New name", "Acme", "Changed")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Equal(t, "Website", h.reload(t, p.ID).ProjectName)

	require.NoError(t, h.projectSvc.Update(ctx, h.manager, p, "New name", "Acme", "Changed"))
	assert.Equal(t, "New name", h.reload(t, p.ID).ProjectName)
}

func TestProjectDeleteCascades(t *testing.T) {
	h := newProjectHarness(t)
	ctx := context.Background()
	p := h.project(t)

	task, err := h.taskSvc.Create(ctx, h.manager, p, "Design", "Mockups")
	require.NoError(t, err)
	p = h.reload(t, p.ID)

	_, err = h.noteSvc.Create(ctx, h.member, p, task, "First draft ready")
	require.NoError(t, err)

	require.NoError(t, h.projectSvc.Delete(ctx, h.manager, p))

	_, err = h.projects.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = h.tasks.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, 0, h.notes.Count())
}

func TestProjectDeleteManagerOnly(t *testing.T) {
	h := newProjectHarness(t)
	ctx := context.Background()
	p := h.project(t)

	err := h.projectSvc.Delete(ctx, h.member, p)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = h.projects.GetByID(ctx, p.ID)
	assert.NoError(t, err)
}
