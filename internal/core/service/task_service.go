package service

import (
	"context"
	"strings"
	"time"

	"github.com/basisdhar/mrmanager/internal/core/domain"
	"github.com/basisdhar/mrmanager/internal/core/ports"
)

// TaskService implements task management scoped to a project.
type TaskService struct {
	tasks ports.TaskRepository
}

func NewTaskService(tasks ports.TaskRepository) *TaskService {
	return &TaskService{tasks: tasks}
}

func (s *TaskService) Create(ctx context.Context, projectID, assignerID string, in ports.TaskInput) (*domain.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.ErrInvalidInput
	}

	status := domain.TaskStatus(in.Status)
	if in.Status == "" {
		status = domain.TaskStatusTodo
	} else if !domain.ValidTaskStatus(status) {
		return nil, domain.ErrInvalidInput
	}

	attachments := in.Attachments
	if attachments == nil {
		attachments = []domain.Attachment{}
	}

	now := time.Now().UTC()
	return s.tasks.Create(ctx, &domain.Task{
		ProjectID:   projectID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		AssignedTo:  in.AssignedTo,
		AssignedBy:  assignerID,
		Status:      status,
		Attachments: attachments,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *TaskService) List(ctx context.Context, projectID string) ([]domain.Task, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

func (s *TaskService) Get(ctx context.Context, projectID, taskID string) (*domain.Task, error) {
	return s.tasks.FindByID(ctx, projectID, taskID)
}

func (s *TaskService) Update(ctx context.Context, projectID, taskID string, in ports.TaskInput) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		task.Title = title
	}
	if in.Description != "" {
		task.Description = strings.TrimSpace(in.Description)
	}
	if in.AssignedTo != "" {
		task.AssignedTo = in.AssignedTo
	}
	if in.Status != "" {
		status := domain.TaskStatus(in.Status)
		if !domain.ValidTaskStatus(status) {
			return nil, domain.ErrInvalidInput
		}
		task.Status = status
	}
	if in.Attachments != nil {
		task.Attachments = in.Attachments
	}
	task.UpdatedAt = time.Now().UTC()

	return s.tasks.Update(ctx, task)
}

func (s *TaskService) Delete(ctx context.Context, projectID, taskID string) error {
	return s.tasks.Delete(ctx, projectID, taskID)
}
