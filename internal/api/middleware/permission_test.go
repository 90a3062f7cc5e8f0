package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/basisdhar/mrmanager/internal/core/domain"
)

type fixedMemberRepo struct {
	memberships map[string]string // "projectID/userID" -> role
}

func (r *fixedMemberRepo) Find(_ context.Context, projectID, userID string) (*domain.ProjectMember, error) {
	role, ok := r.memberships[projectID+"/"+userID]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	return &domain.ProjectMember{ProjectID: projectID, UserID: userID, Role: role}, nil
}

func (r *fixedMemberRepo) Add(context.Context, *domain.ProjectMember) (*domain.ProjectMember, error) {
	return nil, domain.ErrMemberExists
}
func (r *fixedMemberRepo) ListByProject(context.Context, string) ([]domain.ProjectMember, error) {
	return nil, nil
}
func (r *fixedMemberRepo) ListProjectIDsByUser(context.Context, string) ([]string, error) {
	return nil, nil
}
func (r *fixedMemberRepo) UpdateRole(context.Context, string, string, string) (*domain.ProjectMember, error) {
	return nil, domain.ErrMemberNotFound
}
func (r *fixedMemberRepo) Remove(context.Context, string, string) error  { return nil }
func (r *fixedMemberRepo) RemoveByProject(context.Context, string) error { return nil }

func runPermission(repo *fixedMemberRepo, user *domain.User, projectID string, allowed ...string) error {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("projectId")
	c.SetParamValues(projectID)
	if user != nil {
		c.Set(ContextUserKey, user)
	}
	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	return RequireProjectRole(repo, zerolog.Nop(), allowed...)(handler)(c)
}

func TestRequireProjectRole_AllowedRolePasses(t *testing.T) {
	repo := &fixedMemberRepo{memberships: map[string]string{
		"project_1/user_1": domain.RoleMember,
	}}
	user := &domain.User{ID: "user_1"}

	if err := runPermission(repo, user, "project_1", domain.RoleAdmin, domain.RoleMember); err != nil {
		t.Fatalf("member should pass an admin+member allow-list: %v", err)
	}
}

func TestRequireProjectRole_RoleNotAllowed(t *testing.T) {
	repo := &fixedMemberRepo{memberships: map[string]string{
		"project_1/user_1": domain.RoleViewer,
	}}
	user := &domain.User{ID: "user_1"}

	err := runPermission(repo, user, "project_1", domain.RoleAdmin)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a viewer on an admin route, got %v", err)
	}
}

func TestRequireProjectRole_NonMemberGets404(t *testing.T) {
	repo := &fixedMemberRepo{memberships: map[string]string{}}
	user := &domain.User{ID: "user_1"}

	// Non-members cannot tell a real project from a missing one.
	err := runPermission(repo, user, "project_1", domain.RoleAdmin, domain.RoleMember, domain.RoleViewer)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a non-member, got %v", err)
	}
	if httpErr.Message != "project not found" {
		t.Fatalf("message = %v, want the opaque project not found", httpErr.Message)
	}
}

func TestRequireProjectRole_RoleChangeTakesEffectNextRequest(t *testing.T) {
	repo := &fixedMemberRepo{memberships: map[string]string{
		"project_1/user_1": domain.RoleAdmin,
	}}
	user := &domain.User{ID: "user_1"}

	if err := runPermission(repo, user, "project_1", domain.RoleAdmin); err != nil {
		t.Fatalf("admin should pass: %v", err)
	}

	// Demote between requests; the next lookup sees the new role.
	repo.memberships["project_1/user_1"] = domain.RoleViewer
	err := runPermission(repo, user, "project_1", domain.RoleAdmin)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 after demotion, got %v", err)
	}

	// Removal as well.
	delete(repo.memberships, "project_1/user_1")
	err = runPermission(repo, user, "project_1", domain.RoleAdmin)
	httpErr, ok = err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after removal, got %v", err)
	}
}

func TestRequireProjectRole_MissingUser(t *testing.T) {
	repo := &fixedMemberRepo{memberships: map[string]string{}}

	err := runPermission(repo, nil, "project_1", domain.RoleAdmin)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without an authenticated user, got %v", err)
	}
}

func TestRequireProjectRole_SetsRoleInContext(t *testing.T) {
	repo := &fixedMemberRepo{memberships: map[string]string{
		"project_1/user_1": domain.RoleMember,
	}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("projectId")
	c.SetParamValues("project_1")
	c.Set(ContextUserKey, &domain.User{ID: "user_1"})

	handler := func(c echo.Context) error {
		if role, _ := c.Get(ContextProjectRoleKey).(string); role != domain.RoleMember {
			t.Fatalf("projectRole = %q, want %q", role, domain.RoleMember)
		}
		return c.NoContent(http.StatusOK)
	}
	if err := RequireProjectRole(repo, zerolog.Nop(), domain.RoleMember)(handler)(c); err != nil {
		t.Fatalf("middleware failed: %v", err)
	}
}
