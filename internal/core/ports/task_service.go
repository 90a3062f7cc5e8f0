package ports

import (
	"context"

	"github.com/basisdhar/mrmanager/internal/core/domain"
)

// TaskInput is the DTO passed from the transport layer to TaskService.
type TaskInput struct {
	Title       string
	Description string
	AssignedTo  string
	Status      string
	Attachments []domain.Attachment
}

// TaskService implements task management within a project.
type TaskService interface {
	Create(ctx context.Context, projectID, assignerID string, in TaskInput) (*domain.Task, error)
	List(ctx context.Context, projectID string) ([]domain.Task, error)
	Get(ctx context.Context, projectID, taskID string) (*domain.Task, error)
	Update(ctx context.Context, projectID, taskID string, in TaskInput) (*domain.Task, error)
	Delete(ctx context.Context, projectID, taskID string) error
}
