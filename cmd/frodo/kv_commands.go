package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/frodo/cmd/frodo/commands"
	"github.com/allisson/frodo/internal/app"
	storageDomain "github.com/allisson/frodo/internal/storage/domain"
)

// withStore runs fn with the container's secure store. want is the exact
// number of positional arguments.
func withStore(
	want int,
	fn func(ctx context.Context, cmd *cli.Command, container *app.Container, store storageDomain.SecureStore) error,
) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() != want {
			return fmt.Errorf("expected %d argument(s), got %d", want, cmd.Args().Len())
		}

		container, err := newContainer(cmd)
		if err != nil {
			return err
		}
		defer commands.CloseContainer(container)

		store, err := container.SecureStore()
		if err != nil {
			return err
		}
		return fn(ctx, cmd, container, store)
	}
}

func getKVCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "kv",
			Usage: "Read and write encrypted values",
			Commands: []*cli.Command{
				{
					Name:      "put",
					Usage:     "Store VALUE under KEY (use - to read VALUE from stdin)",
					ArgsUsage: "KEY VALUE",
					Action: withStore(2, func(
						ctx context.Context, cmd *cli.Command, container *app.Container, store storageDomain.SecureStore,
					) error {
						return commands.RunKVPut(
							ctx,
							store,
							container.Logger(),
							cmd.Args().Get(0),
							cmd.Args().Get(1),
							commands.DefaultIO(),
						)
					}),
				},
				{
					Name:      "get",
					Usage:     "Print the value stored under KEY",
					ArgsUsage: "KEY",
					Action: withStore(1, func(
						ctx context.Context, cmd *cli.Command, _ *app.Container, store storageDomain.SecureStore,
					) error {
						return commands.RunKVGet(ctx, store, cmd.Args().First(), commands.DefaultIO())
					}),
				},
				{
					Name:      "delete",
					Aliases:   []string{"rm"},
					Usage:     "Remove KEY; removing a missing key succeeds",
					ArgsUsage: "KEY",
					Action: withStore(1, func(
						ctx context.Context, cmd *cli.Command, container *app.Container, store storageDomain.SecureStore,
					) error {
						return commands.RunKVDelete(ctx, store, container.Logger(), cmd.Args().First())
					}),
				},
				{
					Name:    "list",
					Aliases: []string{"ls"},
					Usage:   "List stored keys",
					Flags:   []cli.Flag{newFormatFlag()},
					Action: withStore(0, func(
						ctx context.Context, cmd *cli.Command, _ *app.Container, store storageDomain.SecureStore,
					) error {
						return commands.RunKVList(ctx, store, cmd.String("format"), commands.DefaultIO())
					}),
				},
			},
		},
	}
}
