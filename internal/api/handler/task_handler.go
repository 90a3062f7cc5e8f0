package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/basisdhar/mrmanager/internal/core/ports"
)

type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) List(c echo.Context) error {
	tasks, err := h.taskService.List(c.Request().Context(), c.Param("projectId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "tasks fetched", tasks)
}

func (h *TaskHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.taskService.Create(c.Request().Context(), c.Param("projectId"), user.ID, ports.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Status:      req.Status,
		Attachments: req.Attachments,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "task created", task)
}

func (h *TaskHandler) Get(c echo.Context) error {
	task, err := h.taskService.Get(c.Request().Context(), c.Param("projectId"), c.Param("taskId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "task fetched", task)
}

func (h *TaskHandler) Update(c echo.Context) error {
	var req taskUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.taskService.Update(c.Request().Context(), c.Param("projectId"), c.Param("taskId"), ports.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Status:      req.Status,
		Attachments: req.Attachments,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "task updated", task)
}

func (h *TaskHandler) Delete(c echo.Context) error {
	if err := h.taskService.Delete(c.Request().Context(), c.Param("projectId"), c.Param("taskId")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "task deleted", nil)
}
