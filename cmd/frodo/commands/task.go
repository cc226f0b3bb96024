package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/frodo/internal/errors"
	tasksDomain "github.com/allisson/frodo/internal/tasks/domain"
	tasksUseCase "github.com/allisson/frodo/internal/tasks/usecase"
	customValidation "github.com/allisson/frodo/internal/validation"
)

// RunTaskList prints every task in creation order.
func RunTaskList(
	ctx context.Context,
	taskUseCase tasksUseCase.TaskUseCase,
	logger *slog.Logger,
	format string,
	io IOTuple,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	tasks, err := taskUseCase.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	logger.Debug("tasks listed", slog.Int("count", len(tasks)))

	if format == "json" {
		return outputJSON(tasks, io.Writer)
	}
	return outputTaskTable(tasks, io.Writer)
}

// RunTaskAdd creates a task and prints it. tags is a comma separated list.
func RunTaskAdd(
	ctx context.Context,
	taskUseCase tasksUseCase.TaskUseCase,
	logger *slog.Logger,
	title string,
	description string,
	tags string,
	format string,
	io IOTuple,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	tagList, err := parseTags(tags)
	if err != nil {
		return err
	}

	input := &tasksDomain.CreateTaskInput{
		Title: title,
		Tags:  tagList,
	}
	if description != "" {
		input.Description = &description
	}

	task, err := taskUseCase.Create(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	logger.Info("task created", slog.String("task_id", task.ID.String()))

	if format == "json" {
		return outputJSON(task, io.Writer)
	}
	_, _ = fmt.Fprintf(io.Writer, "Created task %s: %s\n", task.ID, task.Title)
	return nil
}

// RunTaskSetStatus moves a task to status. idOrPrefix may be a unique id
// prefix.
func RunTaskSetStatus(
	ctx context.Context,
	taskUseCase tasksUseCase.TaskUseCase,
	logger *slog.Logger,
	idOrPrefix string,
	status string,
	format string,
	io IOTuple,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	parsed, err := tasksDomain.ParseTaskStatus(status)
	if err != nil {
		return err
	}

	id, err := resolveTaskID(ctx, taskUseCase, idOrPrefix)
	if err != nil {
		return err
	}

	task, err := taskUseCase.SetStatus(ctx, id, parsed)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	logger.Info("task status updated",
		slog.String("task_id", task.ID.String()),
		slog.String("status", task.Status.String()),
	)

	if format == "json" {
		return outputJSON(task, io.Writer)
	}
	_, _ = fmt.Fprintf(io.Writer, "Task %s is now %s\n", task.ID, task.Status.Label())
	return nil
}

// parseTags splits a comma separated tag list. Each tag must be a single
// word since commas and spaces are the separators on the command line.
func parseTags(s string) ([]string, error) {
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if err := validation.Validate(tag, customValidation.Tag); err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "tag %q %v", tag, err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func outputTaskTable(tasks []*tasksDomain.Task, writer io.Writer) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(writer, "No tasks.")
		return err
	}

	tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tTITLE\tTAGS\tUPDATED")
	for _, task := range tasks {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			task.ID,
			task.Status.Label(),
			task.Title,
			strings.Join(task.Tags, ","),
			task.UpdatedAt.Local().Format(time.DateTime),
		)
	}
	return tw.Flush()
}
