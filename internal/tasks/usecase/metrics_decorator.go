package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/frodo/internal/metrics"
	tasksDomain "github.com/allisson/frodo/internal/tasks/domain"
)

// taskUseCaseWithMetrics decorates TaskUseCase with metrics instrumentation.
type taskUseCaseWithMetrics struct {
	next    TaskUseCase
	metrics metrics.BusinessMetrics
}

// NewTaskUseCaseWithMetrics wraps a TaskUseCase with metrics recording.
func NewTaskUseCaseWithMetrics(useCase TaskUseCase, m metrics.BusinessMetrics) TaskUseCase {
	return &taskUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (t *taskUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusOf(err)
	t.metrics.RecordOperation(ctx, "tasks", operation, status)
	t.metrics.RecordDuration(ctx, "tasks", operation, time.Since(start), status)
}

// List records metrics for task listing.
func (t *taskUseCaseWithMetrics) List(ctx context.Context) ([]*tasksDomain.Task, error) {
	start := time.Now()
	tasks, err := t.next.List(ctx)
	t.record(ctx, "task_list", start, err)
	return tasks, err
}

// Get records metrics for task lookup.
func (t *taskUseCaseWithMetrics) Get(ctx context.Context, id uuid.UUID) (*tasksDomain.Task, error) {
	start := time.Now()
	task, err := t.next.Get(ctx, id)
	t.record(ctx, "task_get", start, err)
	return task, err
}

// Create records metrics for task creation.
func (t *taskUseCaseWithMetrics) Create(
	ctx context.Context,
	input *tasksDomain.CreateTaskInput,
) (*tasksDomain.Task, error) {
	start := time.Now()
	task, err := t.next.Create(ctx, input)
	t.record(ctx, "task_create", start, err)
	return task, err
}

// SetStatus records metrics for status changes.
func (t *taskUseCaseWithMetrics) SetStatus(
	ctx context.Context,
	id uuid.UUID,
	status tasksDomain.TaskStatus,
) (*tasksDomain.Task, error) {
	start := time.Now()
	task, err := t.next.SetStatus(ctx, id, status)
	t.record(ctx, "task_set_status", start, err)
	return task, err
}
