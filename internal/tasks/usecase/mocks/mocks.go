// Package mocks provides mock implementations of the task use case
// interfaces for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	tasksDomain "github.com/allisson/frodo/internal/tasks/domain"
)

// MockTaskUseCase is a mock implementation of TaskUseCase.
type MockTaskUseCase struct {
	mock.Mock
}

// NewMockTaskUseCase creates a MockTaskUseCase whose expectations are
// asserted when the test ends.
func NewMockTaskUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTaskUseCase {
	m := &MockTaskUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// List mocks the List method of TaskUseCase.
func (m *MockTaskUseCase) List(ctx context.Context) ([]*tasksDomain.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tasksDomain.Task), args.Error(1)
}

// Get mocks the Get method of TaskUseCase.
func (m *MockTaskUseCase) Get(ctx context.Context, id uuid.UUID) (*tasksDomain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasksDomain.Task), args.Error(1)
}

// Create mocks the Create method of TaskUseCase.
func (m *MockTaskUseCase) Create(
	ctx context.Context,
	input *tasksDomain.CreateTaskInput,
) (*tasksDomain.Task, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasksDomain.Task), args.Error(1)
}

// SetStatus mocks the SetStatus method of TaskUseCase.
func (m *MockTaskUseCase) SetStatus(
	ctx context.Context,
	id uuid.UUID,
	status tasksDomain.TaskStatus,
) (*tasksDomain.Task, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasksDomain.Task), args.Error(1)
}

// MockTaskRepository is a mock implementation of TaskRepository.
type MockTaskRepository struct {
	mock.Mock
}

// NewMockTaskRepository creates a MockTaskRepository whose expectations are
// asserted when the test ends.
func NewMockTaskRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTaskRepository {
	m := &MockTaskRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// List mocks the List method of TaskRepository.
func (m *MockTaskRepository) List(ctx context.Context) ([]tasksDomain.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tasksDomain.Task), args.Error(1)
}

// Get mocks the Get method of TaskRepository.
func (m *MockTaskRepository) Get(ctx context.Context, id uuid.UUID) (tasksDomain.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(tasksDomain.Task), args.Error(1)
}

// Append mocks the Append method of TaskRepository.
func (m *MockTaskRepository) Append(ctx context.Context, task tasksDomain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// Update mocks the Update method of TaskRepository.
func (m *MockTaskRepository) Update(
	ctx context.Context,
	id uuid.UUID,
	fn func(*tasksDomain.Task) error,
) (tasksDomain.Task, error) {
	args := m.Called(ctx, id, fn)
	return args.Get(0).(tasksDomain.Task), args.Error(1)
}
