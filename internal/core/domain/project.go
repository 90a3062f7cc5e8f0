package domain

import "time"

// Membership roles. The membership role is the sole source of authorization
// truth for project-scoped requests; it is resolved fresh on every request.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleViewer = "viewer"
)

// AvailableRoles lists every valid membership role.
var AvailableRoles = []string{RoleAdmin, RoleMember, RoleViewer}

// ValidRole reports whether r is a known membership role.
func ValidRole(r string) bool {
	for _, known := range AvailableRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Project groups tasks and members under a unique name.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProjectMember binds a user to a project with a role. At most one membership
// exists per (project, user) pair, enforced by a unique index.
type ProjectMember struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
