package app

import (
	"fmt"
	"time"

	"github.com/allisson/frodo/internal/filelock"
	storageRepository "github.com/allisson/frodo/internal/storage/repository"
	tasksDomain "github.com/allisson/frodo/internal/tasks/domain"
	tasksUseCase "github.com/allisson/frodo/internal/tasks/usecase"
)

// TaskRepository returns the task collection stored under the "tasks" key.
func (c *Container) TaskRepository() (tasksUseCase.TaskRepository, error) {
	var err error
	c.taskRepositoryInit.Do(func() {
		c.taskRepository, err = c.initTaskRepository()
		if err != nil {
			c.initErrors["taskRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["taskRepository"]; exists {
		return nil, storedErr
	}
	return c.taskRepository, nil
}

// TaskUseCase returns the task use case.
func (c *Container) TaskUseCase() (tasksUseCase.TaskUseCase, error) {
	var err error
	c.taskUseCaseInit.Do(func() {
		c.taskUseCase, err = c.initTaskUseCase()
		if err != nil {
			c.initErrors["taskUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["taskUseCase"]; exists {
		return nil, storedErr
	}
	return c.taskUseCase, nil
}

// initTaskRepository creates the task collection. Writers are serialised
// across processes by a lock file in the data dir.
func (c *Container) initTaskRepository() (tasksUseCase.TaskRepository, error) {
	store, err := c.SecureStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get secure store for task repository: %w", err)
	}

	lock := filelock.New(c.config.TasksLockFile(), c.config.LockTimeout)
	return storageRepository.NewCollection[tasksDomain.Task](store, tasksDomain.CollectionKey, lock), nil
}

// initTaskUseCase creates the task use case with all its dependencies.
func (c *Container) initTaskUseCase() (tasksUseCase.TaskUseCase, error) {
	repo, err := c.TaskRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get task repository for task use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for task use case: %w", err)
	}

	useCase := tasksUseCase.NewTaskUseCase(repo, time.Now)
	return tasksUseCase.NewTaskUseCaseWithMetrics(useCase, businessMetrics), nil
}
