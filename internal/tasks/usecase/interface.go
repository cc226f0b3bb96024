// Package usecase implements the task operations on top of an encrypted
// record collection.
package usecase

import (
	"context"

	"github.com/google/uuid"

	tasksDomain "github.com/allisson/frodo/internal/tasks/domain"
)

// TaskRepository persists the task collection. It is satisfied by
// *repository.Collection[tasksDomain.Task].
type TaskRepository interface {
	List(ctx context.Context) ([]tasksDomain.Task, error)
	Get(ctx context.Context, id uuid.UUID) (tasksDomain.Task, error)
	Append(ctx context.Context, task tasksDomain.Task) error
	Update(ctx context.Context, id uuid.UUID, fn func(*tasksDomain.Task) error) (tasksDomain.Task, error)
}

// TaskUseCase defines the task management operations.
type TaskUseCase interface {
	// List returns every task in creation order. An empty store yields an
	// empty slice.
	List(ctx context.Context) ([]*tasksDomain.Task, error)
	Get(ctx context.Context, id uuid.UUID) (*tasksDomain.Task, error)
	// Create adds a task with status Todo.
	Create(ctx context.Context, input *tasksDomain.CreateTaskInput) (*tasksDomain.Task, error)
	// SetStatus changes the status of a task and bumps its UpdatedAt.
	SetStatus(ctx context.Context, id uuid.UUID, status tasksDomain.TaskStatus) (*tasksDomain.Task, error)
}
