package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskly/backend/internal/apperrors"
)

func TestTeamFindMemberByEmail(t *testing.T) {
	h := newProjectHarness(t)
	ctx := context.Background()

	found, err := h.teamSvc.FindMemberByEmail(ctx, "member@example.com")
	require.NoError(t, err)
	assert.Equal(t, h.member.ID, found.ID)

	_, err = h.teamSvc.FindMemberByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTeamList(t *testing.T) {
	h := newProjectHarness(t)
	ctx := context.Background()
	p := h.project(t)

	team, err := h.teamSvc.List(ctx, h.member, p)
	require.NoError(t, err)
	require.Len(t, team, 1)
	assert.Equal(t, h.member.ID, team[0].ID)

	_, err = h.teamSvc.List(ctx, h.outside, p)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestTeamAdd(t *testing.T) {
	h := newProjectHarness(t)
	ctx := context.Background()
	p := h.project(t)

	require.NoError(t, h.teamSvc.Add(ctx, h.manager, p, h.outside.ID))
	assert.Contains(t, h.reload(t, p.ID).Team, h.outside.ID)
}

func TestTeamAddManagerOnly(t *testing.T) {
	h := newProjectHarness(t)
	ctx := context.Background()
	p := h.project(t)

	err := h.teamSvc.Add(ctx, h.member, p, h.outside.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.NotContains(t, h.reload(t, p.ID).Team, h.outside.ID)
}

func TestTeamAddAlreadyMember(t *testing.T) {
	h := newProjectHarness(t)
	ctx := context.Background()
	p := h.project(t)

	err := h.teamSvc.Add(ctx, h.manager, p, h.member.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyTeamMember)
	assert.Len(t, h.reload(t, p.ID).Team, 1)
}

func TestTeamAddUnknownUser(t *testing.T) {
	h := newProjectHarness(t)
	ctx := context.Background()
	p := h.project(t)

	err := h.teamSvc.Add(ctx, h.manager, p, "user-999")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTeamRemove(t *testing.T) {
	h := newProjectHarness(t)
	ctx := context.Background()
	p := h.project(t)

	require.NoError(t, h.teamSvc.Remove(ctx, h.manager, p, h.member.ID))
	assert.NotContains(t, h.reload(t, p.ID).Team, h.member.ID)
}

func TestTeamRemoveManagerOnly(t *testing.T) {
	h := newProjectHarness(t)
	ctx := context.Background()
	p := h.project(t)

	err := h.teamSvc.Remove(ctx, h.member, p, h.member.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Contains(t, h.reload(t, p.ID).Team, h.member.ID)
}

func TestTeamRemoveNotMember(t *testing.T) {
	h := newProjectHarness(t)
	ctx := context.Background()
	p := h.project(t)

	err := h.teamSvc.Remove(ctx, h.manager, p, h.outside.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotTeamMember)
}

func TestTeamListSkipsDanglingIDs(t *testing.T) {
	h := newProjectHarness(t)
	ctx := context.Background()
	p := h.project(t)

	require.NoError(t, h.projects.AddTeamMember(ctx, p.ID, "user-999"))
	p = h.reload(t, p.ID)

	team, err := h.teamSvc.List(ctx, h.manager, p)
	require.NoError(t, err)
	require.Len(t, team, 1)
	assert.Equal(t, h.member.ID, team[0].ID)
}
