package ports

import (
	"context"

	"github.com/basisdhar/mrmanager/internal/core/domain"
)

// CreateProjectInput carries the fields accepted when creating or updating a
// project.
type CreateProjectInput struct {
	Name        string
	Description string
}

// MemberDetail is a membership joined with a summary of the member's account.
type MemberDetail struct {
	Membership domain.ProjectMember `json:"membership"`
	User       *domain.User         `json:"user,omitempty"`
}

// ProjectService implements project and membership management.
type ProjectService interface {
	Create(ctx context.Context, creatorID string, in CreateProjectInput) (*domain.Project, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Project, error)
	Get(ctx context.Context, projectID string) (*domain.Project, error)
	Update(ctx context.Context, projectID string, in CreateProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, projectID string) error

	// AddMember resolves the user by email and adds a membership with the
	// given role (default member when empty).
	AddMember(ctx context.Context, projectID, email, role string) (*domain.ProjectMember, error)
	ListMembers(ctx context.Context, projectID string) ([]MemberDetail, error)
	UpdateMemberRole(ctx context.Context, projectID, userID, role string) (*domain.ProjectMember, error)
	RemoveMember(ctx context.Context, projectID, userID string) error
}
