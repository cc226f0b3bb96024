package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/allisson/frodo/internal/errors"
	storageDomain "github.com/allisson/frodo/internal/storage/domain"
	"github.com/allisson/frodo/internal/storage/repository"
	tasksDomain "github.com/allisson/frodo/internal/tasks/domain"
	tasksUsecaseMocks "github.com/allisson/frodo/internal/tasks/usecase/mocks"
)

// frozenClock returns the same instant until advanced.
type frozenClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *frozenClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *frozenClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTaskUseCase(t *testing.T, now func() time.Time) (TaskUseCase, *repository.MaskedMemoryStore) {
	t.Helper()
	store := repository.NewMaskedMemoryStore()
	coll := repository.NewCollection[tasksDomain.Task](store, tasksDomain.CollectionKey, nil)
	return NewTaskUseCase(coll, now), store
}

func TestTaskUseCase_WriteDocsScenario(t *testing.T) {
	ctx := context.Background()
	uc, _ := newTaskUseCase(t, nil)

	created, err := uc.Create(ctx, &tasksDomain.CreateTaskInput{Title: "Write docs", Tags: []string{"docs"}})
	require.NoError(t, err)
	assert.Equal(t, tasksDomain.StatusTodo, created.Status)
	assert.Nil(t, created.Description)
	assert.Equal(t, []string{"docs"}, created.Tags)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	tasks, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Write docs", tasks[0].Title)

	_, err = uc.SetStatus(ctx, created.ID, tasksDomain.StatusDone)
	require.NoError(t, err)

	tasks, err = uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, tasksDomain.StatusDone, tasks[0].Status)
	assert.True(t, tasks[0].UpdatedAt.After(tasks[0].CreatedAt))
	assert.Equal(t, created.CreatedAt, tasks[0].CreatedAt)
}

func TestTaskUseCase_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_EmptyStore", func(t *testing.T) {
		uc, _ := newTaskUseCase(t, nil)
		tasks, err := uc.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("Success_NullTagsBecomeEmpty", func(t *testing.T) {
		uc, store := newTaskUseCase(t, nil)
		doc := fmt.Sprintf(
			`[{"id":%q,"title":"old","description":null,"tags":null,"status":"Todo",`+
				`"created_at":"2025-01-01T00:00:00Z","updated_at":"2025-01-01T00:00:00Z"}]`,
			uuid.New(),
		)
		require.NoError(t, store.Put(ctx, tasksDomain.CollectionKey, []byte(doc)))

		tasks, err := uc.List(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, []string{}, tasks[0].Tags)
	})

	t.Run("Error_StoreFailure", func(t *testing.T) {
		repo := tasksUsecaseMocks.NewMockTaskRepository(t)
		storeErr := storageDomain.NewStorageError(storageDomain.ReasonDecryptFailed, nil)
		repo.On("List", ctx).Return(nil, storeErr).Once()

		_, err := NewTaskUseCase(repo, nil).List(ctx)
		assert.ErrorIs(t, err, apperrors.ErrStorage)
	})
}

func TestTaskUseCase_Create(t *testing.T) {
	ctx := context.Background()
	clock := &frozenClock{now: time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("BRT", -3*3600))}

	t.Run("Success_StoresNormalizedTask", func(t *testing.T) {
		uc, store := newTaskUseCase(t, clock.Now)
		desc := "the README"

		task, err := uc.Create(ctx, &tasksDomain.CreateTaskInput{
			Title:       " Write docs ",
			Description: &desc,
			Tags:        []string{"docs", "v1"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Write docs", task.Title)
		assert.Equal(t, []string{"docs", "v1"}, task.Tags)
		assert.Equal(t, uuid.Version(7), task.ID.Version())
		assert.Equal(t, time.UTC, task.CreatedAt.Location())
		assert.True(t, task.CreatedAt.Equal(clock.Now()))

		raw, err := store.Get(ctx, tasksDomain.CollectionKey)
		require.NoError(t, err)
		var stored []tasksDomain.Task
		require.NoError(t, json.Unmarshal(raw, &stored))
		require.Len(t, stored, 1)
		assert.Equal(t, *task, stored[0])
	})

	t.Run("Success_EmptyTagsStoredAsArray", func(t *testing.T) {
		uc, store := newTaskUseCase(t, nil)
		_, err := uc.Create(ctx, &tasksDomain.CreateTaskInput{Title: "x"})
		require.NoError(t, err)

		raw, err := store.Get(ctx, tasksDomain.CollectionKey)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"tags":[]`)
	})

	t.Run("Success_TagsStoredVerbatim", func(t *testing.T) {
		uc, store := newTaskUseCase(t, nil)

		task, err := uc.Create(ctx, &tasksDomain.CreateTaskInput{
			Title: "Review",
			Tags:  []string{"b", "needs review", "a", "b"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "needs review", "a", "b"}, task.Tags)

		raw, err := store.Get(ctx, tasksDomain.CollectionKey)
		require.NoError(t, err)
		var stored []tasksDomain.Task
		require.NoError(t, json.Unmarshal(raw, &stored))
		require.Len(t, stored, 1)
		assert.Equal(t, []string{"b", "needs review", "a", "b"}, stored[0].Tags)
	})

	t.Run("Error_EmptyTag", func(t *testing.T) {
		repo := tasksUsecaseMocks.NewMockTaskRepository(t)

		_, err := NewTaskUseCase(repo, nil).Create(ctx, &tasksDomain.CreateTaskInput{
			Title: "x",
			Tags:  []string{"docs", ""},
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("Error_InvalidInput", func(t *testing.T) {
		repo := tasksUsecaseMocks.NewMockTaskRepository(t)

		_, err := NewTaskUseCase(repo, nil).Create(ctx, &tasksDomain.CreateTaskInput{Title: "   "})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("Error_AppendFails", func(t *testing.T) {
		repo := tasksUsecaseMocks.NewMockTaskRepository(t)
		repo.On("Append", ctx, mock.AnythingOfType("domain.Task")).
			Return(storageDomain.NewStorageError(storageDomain.ReasonIO, errors.New("disk full"))).
			Once()

		task, err := NewTaskUseCase(repo, nil).Create(ctx, &tasksDomain.CreateTaskInput{Title: "x"})
		assert.Nil(t, task)
		assert.ErrorIs(t, err, apperrors.ErrStorage)
	})

	t.Run("Success_ConcurrentCreatesAreNotLost", func(t *testing.T) {
		uc, _ := newTaskUseCase(t, nil)
		const n = 32

		var g errgroup.Group
		for i := range n {
			g.Go(func() error {
				_, err := uc.Create(ctx, &tasksDomain.CreateTaskInput{Title: fmt.Sprintf("task %d", i)})
				return err
			})
		}
		require.NoError(t, g.Wait())

		tasks, err := uc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, tasks, n)

		ids := make(map[uuid.UUID]struct{}, n)
		for _, task := range tasks {
			ids[task.ID] = struct{}{}
		}
		assert.Len(t, ids, n)
	})
}

func TestTaskUseCase_SetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_FrozenClockStillIncreases", func(t *testing.T) {
		clock := &frozenClock{now: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)}
		uc, _ := newTaskUseCase(t, clock.Now)

		task, err := uc.Create(ctx, &tasksDomain.CreateTaskInput{Title: "x"})
		require.NoError(t, err)

		started, err := uc.SetStatus(ctx, task.ID, tasksDomain.StatusInProgress)
		require.NoError(t, err)
		assert.True(t, started.UpdatedAt.After(task.UpdatedAt))

		done, err := uc.SetStatus(ctx, task.ID, tasksDomain.StatusDone)
		require.NoError(t, err)
		assert.True(t, done.UpdatedAt.After(started.UpdatedAt))
		assert.Equal(t, task.CreatedAt, done.CreatedAt)

		got, err := uc.Get(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, done, got)
	})

	t.Run("Success_ClockAdvances", func(t *testing.T) {
		clock := &frozenClock{now: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)}
		uc, _ := newTaskUseCase(t, clock.Now)

		task, err := uc.Create(ctx, &tasksDomain.CreateTaskInput{Title: "x"})
		require.NoError(t, err)
		clock.Advance(time.Hour)

		done, err := uc.SetStatus(ctx, task.ID, tasksDomain.StatusDone)
		require.NoError(t, err)
		assert.Equal(t, clock.Now(), done.UpdatedAt)
	})

	t.Run("Error_UnknownTask", func(t *testing.T) {
		uc, _ := newTaskUseCase(t, nil)
		_, err := uc.Create(ctx, &tasksDomain.CreateTaskInput{Title: "x"})
		require.NoError(t, err)

		_, err = uc.SetStatus(ctx, uuid.New(), tasksDomain.StatusDone)
		assert.ErrorIs(t, err, tasksDomain.ErrTaskNotFound)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		_, err = uc.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, tasksDomain.ErrTaskNotFound)
	})

	t.Run("Error_EmptyStore", func(t *testing.T) {
		uc, _ := newTaskUseCase(t, nil)
		_, err := uc.SetStatus(ctx, uuid.New(), tasksDomain.StatusDone)
		assert.ErrorIs(t, err, tasksDomain.ErrTaskNotFound)
	})

	t.Run("Error_InvalidStatus", func(t *testing.T) {
		repo := tasksUsecaseMocks.NewMockTaskRepository(t)

		_, err := NewTaskUseCase(repo, nil).SetStatus(ctx, uuid.New(), tasksDomain.TaskStatus(42))
		assert.ErrorIs(t, err, tasksDomain.ErrInvalidStatus)
	})

	t.Run("Error_StorageFailureIsNotNotFound", func(t *testing.T) {
		repo := tasksUsecaseMocks.NewMockTaskRepository(t)
		id := uuid.New()
		repo.On("Update", ctx, id, mock.Anything).
			Return(tasksDomain.Task{}, storageDomain.NewStorageError(storageDomain.ReasonLock, nil)).
			Once()

		_, err := NewTaskUseCase(repo, nil).SetStatus(ctx, id, tasksDomain.StatusDone)
		assert.ErrorIs(t, err, apperrors.ErrStorage)
		assert.NotErrorIs(t, err, tasksDomain.ErrTaskNotFound)
	})
}
