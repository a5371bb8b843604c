package services

import (
	"context"
	"log/slog"

	"github.com/taskly/backend/internal/apperrors"
	"github.com/taskly/backend/internal/authz"
	"github.com/taskly/backend/internal/models"
	"github.com/taskly/backend/internal/store"
)

// TeamService manages project team membership. Membership mutations are
// manager-only; the store applies them as atomic add-if-absent /
// remove-if-present updates.
type TeamService struct {
	projects store.Projects
	users    store.Users
	log      *slog.Logger
}

func NewTeamService(projects store.Projects, users store.Users, log *slog.Logger) *TeamService {
	return &TeamService{projects: projects, users: users, log: log}
}

// FindMemberByEmail looks up a user to invite.
func (s *TeamService) FindMemberByEmail(ctx context.Context, email string) (*models.UserResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// List returns the team members of the project.
func (s *TeamService) List(ctx context.Context, user *models.User, project *models.Project) ([]*models.UserResponse, error) {
	if !authz.CanViewProject(user, project) {
		return nil, apperrors.ErrForbidden
	}

	team := []*models.UserResponse{}
	for _, id := range project.Team {
		member, err := s.users.GetByID(ctx, id)
		if err != nil {
			// A dangling id means the user was removed out of band; skip it
			// rather than fail the whole listing.
			s.log.Warn("team references missing user", "project_id", project.ID, "user_id", id)
			continue
		}
		team = append(team, member.ToResponse())
	}
	return team, nil
}

// Add puts an existing user on the project team. Manager only; adding a user
// who is already on the team is a conflict.
func (s *TeamService) Add(ctx context.Context, user *models.User, project *models.Project, memberID string) error {
	if !authz.CanMutateProject(user, project) {
		return apperrors.ErrForbidden
	}

	member, err := s.users.GetByID(ctx, memberID)
	if err != nil {
		return err
	}

	for _, id := range project.Team {
		if id == member.ID {
			return apperrors.ErrAlreadyTeamMember
		}
	}

	return s.projects.AddTeamMember(ctx, project.ID, member.ID)
}

// Remove takes a user off the project team. Manager only; removing a user
// who is not on the team is a conflict.
func (s *TeamService) Remove(ctx context.Context, user *models.User, project *models.Project, memberID string) error {
	if !authz.CanMutateProject(user, project) {
		return apperrors.ErrForbidden
	}

	found := false
	for _, id := range project.Team {
		if id == memberID {
			found = true
			break
		}
	}
	if !found {
		return apperrors.ErrNotTeamMember
	}

	return s.projects.RemoveTeamMember(ctx, project.ID, memberID)
}
