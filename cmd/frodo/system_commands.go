package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/frodo/cmd/frodo/commands"
	"github.com/allisson/frodo/internal/app"
	"github.com/allisson/frodo/internal/config"
)

func getSystemCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "health",
			Usage: "Round-trip a probe value through the encrypted store",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "metrics",
					Usage: "Print collected metrics in Prometheus text format (implies METRICS_ENABLED)",
				},
				newFormatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				if cmd.Bool("metrics") {
					cfg.MetricsEnabled = true
				}

				container := app.NewContainer(cfg)
				defer commands.CloseContainer(container)

				store, err := container.SecureStore()
				if err != nil {
					return err
				}

				var metricsWriter commands.MetricsWriter
				if cmd.Bool("metrics") {
					provider, err := container.MetricsProvider()
					if err != nil {
						return err
					}
					metricsWriter = provider
				}

				return commands.RunHealth(
					ctx,
					store,
					container.Logger(),
					cfg.DataDir,
					metricsWriter,
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "config",
			Usage: "Inspect or create the configuration file",
			Commands: []*cli.Command{
				{
					Name:  "init",
					Usage: "Write a starter config file if none exists",
					Action: func(ctx context.Context, cmd *cli.Command) error {
						path := cmd.String("config")
						if path == "" {
							path = config.DefaultFilePath()
						}

						container := app.NewContainer(&config.Config{LogLevel: cmd.String("log-level")})
						defer commands.CloseContainer(container)

						return commands.RunConfigInit(container.Logger(), path, commands.DefaultIO())
					},
				},
				{
					Name:  "show",
					Usage: "Print the effective configuration with secrets redacted",
					Action: func(ctx context.Context, cmd *cli.Command) error {
						cfg, err := loadConfig(cmd)
						if err != nil {
							return err
						}
						return commands.RunConfigShow(cfg, commands.DefaultIO())
					},
				},
			},
		},
		{
			Name:  "version",
			Usage: "Print build information",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				_, err := fmt.Fprintf(commands.DefaultIO().Writer,
					"frodo %s (commit %s, built %s)\n", version, commitSHA, buildDate)
				return err
			},
		},
	}
}
