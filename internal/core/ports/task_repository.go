package ports

import (
	"context"

	"github.com/basisdhar/mrmanager/internal/core/domain"
)

// TaskRepository defines persistence for tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, projectID, taskID string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Task, error)
	Update(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Delete(ctx context.Context, projectID, taskID string) error
	DeleteByProject(ctx context.Context, projectID string) error
}
