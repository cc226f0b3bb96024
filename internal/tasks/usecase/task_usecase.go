package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/frodo/internal/errors"
	storageDomain "github.com/allisson/frodo/internal/storage/domain"
	tasksDomain "github.com/allisson/frodo/internal/tasks/domain"
)

// taskUseCase implements TaskUseCase.
type taskUseCase struct {
	repo TaskRepository
	now  func() time.Time
}

// NewTaskUseCase creates a TaskUseCase. now defaults to time.Now.
func NewTaskUseCase(repo TaskRepository, now func() time.Time) TaskUseCase {
	if now == nil {
		now = time.Now
	}
	return &taskUseCase{repo: repo, now: now}
}

func (u *taskUseCase) List(ctx context.Context) ([]*tasksDomain.Task, error) {
	tasks, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*tasksDomain.Task, 0, len(tasks))
	for i := range tasks {
		if tasks[i].Tags == nil {
			tasks[i].Tags = []string{}
		}
		out = append(out, &tasks[i])
	}
	return out, nil
}

func (u *taskUseCase) Get(ctx context.Context, id uuid.UUID) (*tasksDomain.Task, error) {
	task, err := u.repo.Get(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, id)
	}
	return &task, nil
}

func (u *taskUseCase) Create(
	ctx context.Context,
	input *tasksDomain.CreateTaskInput,
) (*tasksDomain.Task, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate task id: %w", err)
	}

	now := u.now().UTC()
	task := tasksDomain.Task{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		Tags:        input.Tags,
		Status:      tasksDomain.StatusTodo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := u.repo.Append(ctx, task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (u *taskUseCase) SetStatus(
	ctx context.Context,
	id uuid.UUID,
	status tasksDomain.TaskStatus,
) (*tasksDomain.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %d", tasksDomain.ErrInvalidStatus, int(status))
	}

	task, err := u.repo.Update(ctx, id, func(t *tasksDomain.Task) error {
		t.Status = status
		t.Touch(u.now())
		return nil
	})
	if err != nil {
		return nil, mapNotFound(err, id)
	}
	return &task, nil
}

func mapNotFound(err error, id uuid.UUID) error {
	if apperrors.Is(err, storageDomain.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", tasksDomain.ErrTaskNotFound, id)
	}
	return err
}
