package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/frodo/cmd/frodo/commands"
	tasksDomain "github.com/allisson/frodo/internal/tasks/domain"
)

func getTaskCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "task",
			Usage: "Manage the encrypted task list",
			Commands: []*cli.Command{
				{
					Name:    "list",
					Aliases: []string{"ls"},
					Usage:   "List tasks in creation order",
					Flags:   []cli.Flag{newFormatFlag()},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						container, err := newContainer(cmd)
						if err != nil {
							return err
						}
						defer commands.CloseContainer(container)

						taskUseCase, err := container.TaskUseCase()
						if err != nil {
							return err
						}

						return commands.RunTaskList(
							ctx,
							taskUseCase,
							container.Logger(),
							cmd.String("format"),
							commands.DefaultIO(),
						)
					},
				},
				{
					Name:      "add",
					Usage:     "Create a task",
					ArgsUsage: "TITLE",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:    "description",
							Aliases: []string{"d"},
							Usage:   "Optional longer description",
						},
						&cli.StringFlag{
							Name:    "tags",
							Aliases: []string{"t"},
							Usage:   "Comma separated tags",
						},
						newFormatFlag(),
					},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						if cmd.Args().Len() != 1 {
							return fmt.Errorf("expected exactly one TITLE argument")
						}

						container, err := newContainer(cmd)
						if err != nil {
							return err
						}
						defer commands.CloseContainer(container)

						taskUseCase, err := container.TaskUseCase()
						if err != nil {
							return err
						}

						return commands.RunTaskAdd(
							ctx,
							taskUseCase,
							container.Logger(),
							cmd.Args().First(),
							cmd.String("description"),
							cmd.String("tags"),
							cmd.String("format"),
							commands.DefaultIO(),
						)
					},
				},
				statusCommand("start", "Mark a task as in progress", tasksDomain.StatusInProgress),
				statusCommand("done", "Mark a task as done", tasksDomain.StatusDone),
				statusCommand("reopen", "Move a task back to todo", tasksDomain.StatusTodo),
			},
		},
	}
}

func statusCommand(name, usage string, status tasksDomain.TaskStatus) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "ID",
		Flags:     []cli.Flag{newFormatFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one ID argument")
			}

			container, err := newContainer(cmd)
			if err != nil {
				return err
			}
			defer commands.CloseContainer(container)

			taskUseCase, err := container.TaskUseCase()
			if err != nil {
				return err
			}

			return commands.RunTaskSetStatus(
				ctx,
				taskUseCase,
				container.Logger(),
				cmd.Args().First(),
				status.Label(),
				cmd.String("format"),
				commands.DefaultIO(),
			)
		},
	}
}
