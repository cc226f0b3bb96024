package domain

import (
	"github.com/allisson/frodo/internal/errors"
)

// Task-specific error definitions.
var (
	// ErrTaskNotFound indicates no task has the requested id.
	ErrTaskNotFound = errors.Wrap(errors.ErrNotFound, "task not found")

	// ErrInvalidStatus indicates an unknown task status name or label.
	ErrInvalidStatus = errors.Wrap(errors.ErrInvalidInput, "invalid task status")
)
