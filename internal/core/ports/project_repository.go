package ports

import (
	"context"

	"github.com/basisdhar/mrmanager/internal/core/domain"
)

// ProjectRepository defines persistence for projects.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	FindByIDs(ctx context.Context, ids []string) ([]domain.Project, error)
	Update(ctx context.Context, id string, name, description string) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

// MemberRepository defines persistence for project memberships.
type MemberRepository interface {
	Add(ctx context.Context, member *domain.ProjectMember) (*domain.ProjectMember, error)

	// Find returns the membership for a (project, user) pair, or
	// domain.ErrMemberNotFound when none exists.
	Find(ctx context.Context, projectID, userID string) (*domain.ProjectMember, error)

	ListByProject(ctx context.Context, projectID string) ([]domain.ProjectMember, error)
	ListProjectIDsByUser(ctx context.Context, userID string) ([]string, error)
	UpdateRole(ctx context.Context, projectID, userID, role string) (*domain.ProjectMember, error)
	Remove(ctx context.Context, projectID, userID string) error
	RemoveByProject(ctx context.Context, projectID string) error
}
