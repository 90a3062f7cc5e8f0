package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/basisdhar/mrmanager/internal/core/ports"
)

type ProjectHandler struct {
	projectService ports.ProjectService
}

func NewProjectHandler(projectService ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// List returns the projects the caller is a member of.
func (h *ProjectHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	projects, err := h.projectService.ListForUser(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "projects fetched", projects)
}

// Create stores a project; the caller becomes its admin member.
func (h *ProjectHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	project, err := h.projectService.Create(c.Request().Context(), user.ID, ports.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "project created", project)
}

func (h *ProjectHandler) Get(c echo.Context) error {
	project, err := h.projectService.Get(c.Request().Context(), c.Param("projectId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "project fetched", project)
}

func (h *ProjectHandler) Update(c echo.Context) error {
	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	project, err := h.projectService.Update(c.Request().Context(), c.Param("projectId"), ports.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "project updated", project)
}

func (h *ProjectHandler) Delete(c echo.Context) error {
	if err := h.projectService.Delete(c.Request().Context(), c.Param("projectId")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "project deleted", nil)
}

// ListMembers returns memberships joined with account summaries.
func (h *ProjectHandler) ListMembers(c echo.Context) error {
	members, err := h.projectService.ListMembers(c.Request().Context(), c.Param("projectId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "project members fetched", members)
}

// AddMember adds a user (looked up by email) to the project.
func (h *ProjectHandler) AddMember(c echo.Context) error {
	var req addMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	member, err := h.projectService.AddMember(c.Request().Context(), c.Param("projectId"), req.Email, req.Role)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "member added", member)
}

// UpdateMemberRole changes a member's role; effective on their next request.
func (h *ProjectHandler) UpdateMemberRole(c echo.Context) error {
	var req updateMemberRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	member, err := h.projectService.UpdateMemberRole(c.Request().Context(), c.Param("projectId"), c.Param("userId"), req.Role)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "member role updated", member)
}

func (h *ProjectHandler) RemoveMember(c echo.Context) error {
	if err := h.projectService.RemoveMember(c.Request().Context(), c.Param("projectId"), c.Param("userId")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "member removed", nil)
}
