package repository

import (
	"context"

	"github.com/focusflow/backend/domain"
)

type TaskFilter struct {
	OwnerID string
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByOwner(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	SetCompleted(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
}
