package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/frodo/internal/metrics"
	tasksDomain "github.com/allisson/frodo/internal/tasks/domain"
	tasksUsecaseMocks "github.com/allisson/frodo/internal/tasks/usecase/mocks"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

func expectTaskMetrics(ctx context.Context, m *mockBusinessMetrics, operation, status string) {
	m.On("RecordOperation", ctx, "tasks", operation, status).Once()
	m.On("RecordDuration", ctx, "tasks", operation, mock.AnythingOfType("time.Duration"), status).Once()
}

func TestNewTaskUseCaseWithMetrics(t *testing.T) {
	decorator := NewTaskUseCaseWithMetrics(tasksUsecaseMocks.NewMockTaskUseCase(t), &mockBusinessMetrics{})

	assert.NotNil(t, decorator)
	assert.Implements(t, (*TaskUseCase)(nil), decorator)
}

func TestTaskMetricsDecorator(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	task := &tasksDomain.Task{ID: id, Title: "Write docs"}

	t.Run("Success_List", func(t *testing.T) {
		uc := tasksUsecaseMocks.NewMockTaskUseCase(t)
		m := &mockBusinessMetrics{}
		uc.On("List", ctx).Return([]*tasksDomain.Task{task}, nil).Once()
		expectTaskMetrics(ctx, m, "task_list", metrics.StatusSuccess)

		tasks, err := NewTaskUseCaseWithMetrics(uc, m).List(ctx)
		assert.NoError(t, err)
		assert.Len(t, tasks, 1)
		m.AssertExpectations(t)
	})

	t.Run("Success_Create", func(t *testing.T) {
		uc := tasksUsecaseMocks.NewMockTaskUseCase(t)
		m := &mockBusinessMetrics{}
		input := &tasksDomain.CreateTaskInput{Title: "Write docs"}
		uc.On("Create", ctx, input).Return(task, nil).Once()
		expectTaskMetrics(ctx, m, "task_create", metrics.StatusSuccess)

		got, err := NewTaskUseCaseWithMetrics(uc, m).Create(ctx, input)
		assert.NoError(t, err)
		assert.Equal(t, task, got)
		m.AssertExpectations(t)
	})

	t.Run("NotFound_SetStatus", func(t *testing.T) {
		uc := tasksUsecaseMocks.NewMockTaskUseCase(t)
		m := &mockBusinessMetrics{}
		uc.On("SetStatus", ctx, id, tasksDomain.StatusDone).Return(nil, tasksDomain.ErrTaskNotFound).Once()
		expectTaskMetrics(ctx, m, "task_set_status", metrics.StatusNotFound)

		_, err := NewTaskUseCaseWithMetrics(uc, m).SetStatus(ctx, id, tasksDomain.StatusDone)
		assert.ErrorIs(t, err, tasksDomain.ErrTaskNotFound)
		m.AssertExpectations(t)
	})

	t.Run("Error_Get", func(t *testing.T) {
		uc := tasksUsecaseMocks.NewMockTaskUseCase(t)
		m := &mockBusinessMetrics{}
		uc.On("Get", ctx, id).Return(nil, context.DeadlineExceeded).Once()
		expectTaskMetrics(ctx, m, "task_get", metrics.StatusError)

		_, err := NewTaskUseCaseWithMetrics(uc, m).Get(ctx, id)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		m.AssertExpectations(t)
	})
}
