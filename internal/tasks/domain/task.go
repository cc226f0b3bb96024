// Package domain defines the task record kept in the encrypted store.
package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CollectionKey is the logical store key holding every task as one document.
const CollectionKey = "tasks"

// TaskStatus is the lifecycle state of a task.
type TaskStatus int

const (
	StatusTodo TaskStatus = iota
	StatusInProgress
	StatusDone
)

var statusNames = map[TaskStatus]string{
	StatusTodo:       "Todo",
	StatusInProgress: "InProgress",
	StatusDone:       "Done",
}

var statusLabels = map[TaskStatus]string{
	StatusTodo:       "todo",
	StatusInProgress: "doing",
	StatusDone:       "done",
}

// String returns the stored name, e.g. "InProgress".
func (s TaskStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("TaskStatus(%d)", int(s))
}

// Label returns the short form shown by the CLI, e.g. "doing".
func (s TaskStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return s.String()
}

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// ParseTaskStatus accepts a stored name or a CLI label, case-insensitively.
func ParseTaskStatus(s string) (TaskStatus, error) {
	needle := strings.TrimSpace(s)
	for status, name := range statusNames {
		if strings.EqualFold(needle, name) || strings.EqualFold(needle, statusLabels[status]) {
			return status, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func (s TaskStatus) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, int(s))
	}
	return json.Marshal(s.String())
}

func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, data)
	}
	for status, n := range statusNames {
		if n == name {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidStatus, name)
}

// Task is one to-do item.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Tags        []string   `json:"tags"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// GetID returns the task id.
func (t Task) GetID() uuid.UUID {
	return t.ID
}

// Touch sets UpdatedAt to now, or just past the previous value when the clock
// has not advanced, so UpdatedAt strictly increases on every change.
func (t *Task) Touch(now time.Time) {
	now = now.UTC()
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Microsecond)
	}
	t.UpdatedAt = now
}
