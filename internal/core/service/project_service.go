package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/basisdhar/mrmanager/internal/core/domain"
	"github.com/basisdhar/mrmanager/internal/core/ports"
)

// ProjectService implements project CRUD and membership management.
type ProjectService struct {
	projects ports.ProjectRepository
	members  ports.MemberRepository
	users    ports.UserRepository
	tasks    ports.TaskRepository
	log      zerolog.Logger
}

func NewProjectService(
	projects ports.ProjectRepository,
	members ports.MemberRepository,
	users ports.UserRepository,
	tasks ports.TaskRepository,
	log zerolog.Logger,
) *ProjectService {
	return &ProjectService{projects: projects, members: members, users: users, tasks: tasks, log: log}
}

// Create stores the project and makes its creator an admin member, so the
// creator can immediately pass the permission check on project routes.
func (s *ProjectService) Create(ctx context.Context, creatorID string, in ports.CreateProjectInput) (*domain.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	project, err := s.projects.Create(ctx, &domain.Project{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CreatedBy:   creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.members.Add(ctx, &domain.ProjectMember{
		ProjectID: project.ID,
		UserID:    creatorID,
		Role:      domain.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		// Without the admin membership the project is unreachable; undo.
		if delErr := s.projects.Delete(ctx, project.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("project_id", project.ID).Msg("failed to roll back orphaned project")
		}
		return nil, err
	}

	return project, nil
}

func (s *ProjectService) ListForUser(ctx context.Context, userID string) ([]domain.Project, error) {
	ids, err := s.members.ListProjectIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.Project{}, nil
	}
	return s.projects.FindByIDs(ctx, ids)
}

func (s *ProjectService) Get(ctx context.Context, projectID string) (*domain.Project, error) {
	return s.projects.FindByID(ctx, projectID)
}

func (s *ProjectService) Update(ctx context.Context, projectID string, in ports.CreateProjectInput) (*domain.Project, error) {
	return s.projects.Update(ctx, projectID, strings.TrimSpace(in.Name), strings.TrimSpace(in.Description))
}

func (s *ProjectService) Delete(ctx context.Context, projectID string) error {
	if err := s.projects.Delete(ctx, projectID); err != nil {
		return err
	}
	// Memberships and tasks go with the project. Best effort; a failure
	// leaves orphans that no route can reach (the project 404s).
	if err := s.members.RemoveByProject(ctx, projectID); err != nil {
		s.log.Warn().Err(err).Str("project_id", projectID).Msg("failed to remove project memberships")
	}
	if err := s.tasks.DeleteByProject(ctx, projectID); err != nil {
		s.log.Warn().Err(err).Str("project_id", projectID).Msg("failed to remove project tasks")
	}
	return nil
}

func (s *ProjectService) AddMember(ctx context.Context, projectID, email, role string) (*domain.ProjectMember, error) {
	if role == "" {
		role = domain.RoleMember
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	_, email = normalizeIdentity("", email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if _, err := s.members.Find(ctx, projectID, user.ID); err == nil {
		return nil, domain.ErrMemberExists
	} else if err != domain.ErrMemberNotFound {
		return nil, err
	}

	now := time.Now().UTC()
	return s.members.Add(ctx, &domain.ProjectMember{
		ProjectID: projectID,
		UserID:    user.ID,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *ProjectService) ListMembers(ctx context.Context, projectID string) ([]ports.MemberDetail, error) {
	memberships, err := s.members.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	details := make([]ports.MemberDetail, 0, len(memberships))
	for _, m := range memberships {
		detail := ports.MemberDetail{Membership: m}
		user, err := s.users.FindByID(ctx, m.UserID)
		if err != nil {
			// Deleted account; keep the membership row visible.
			s.log.Warn().Str("user_id", m.UserID).Str("project_id", projectID).Msg("membership references missing user")
		} else {
			detail.User = user
		}
		details = append(details, detail)
	}
	return details, nil
}

func (s *ProjectService) UpdateMemberRole(ctx context.Context, projectID, userID, role string) (*domain.ProjectMember, error) {
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}
	return s.members.UpdateRole(ctx, projectID, userID, role)
}

func (s *ProjectService) RemoveMember(ctx context.Context, projectID, userID string) error {
	return s.members.Remove(ctx, projectID, userID)
}
