// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/allisson/frodo/internal/app"
	tasksDomain "github.com/allisson/frodo/internal/tasks/domain"
	tasksUseCase "github.com/allisson/frodo/internal/tasks/usecase"
)

// minIDPrefix is the shortest task id prefix accepted in place of a full id.
const minIDPrefix = 4

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// CloseContainer closes all resources in the container and logs any errors.
func CloseContainer(container *app.Container) {
	if err := container.Shutdown(context.Background()); err != nil {
		container.Logger().Error("failed to shutdown container", slog.Any("error", err))
	}
}

// validateFormat rejects output formats other than text and json.
func validateFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}
}

// outputJSON writes v as indented JSON for machine consumption.
func outputJSON(v any, writer io.Writer) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(writer, string(jsonBytes))
	return err
}

// resolveTaskID accepts a full task id or a unique prefix of at least
// minIDPrefix characters.
func resolveTaskID(ctx context.Context, useCase tasksUseCase.TaskUseCase, s string) (uuid.UUID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if id, err := uuid.Parse(s); err == nil {
		return id, nil
	}
	if len(s) < minIDPrefix {
		return uuid.Nil, fmt.Errorf("invalid task id: %q (use the full id or at least %d characters)", s, minIDPrefix)
	}

	tasks, err := useCase.List(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	var matches []uuid.UUID
	for _, task := range tasks {
		if strings.HasPrefix(task.ID.String(), s) {
			matches = append(matches, task.ID)
		}
	}
	switch len(matches) {
	case 0:
		return uuid.Nil, tasksDomain.ErrTaskNotFound
	case 1:
		return matches[0], nil
	default:
		return uuid.Nil, fmt.Errorf("task id prefix %q is ambiguous (%d matches)", s, len(matches))
	}
}
