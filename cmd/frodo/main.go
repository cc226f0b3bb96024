// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// Build information. Populated at build-time via ldflags.
var (
	version   = "dev"
	buildDate = "unknown"
	commitSHA = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().Run(ctx, os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:    "frodo",
		Usage:   "Encrypted local task list and key/value store",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config.toml (default $XDG_CONFIG_HOME/frodo/config.toml)",
				Sources: cli.EnvVars("FRODO_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "Directory holding the encrypted store",
			},
			&cli.StringFlag{
				Name:  "key-backend",
				Usage: "Data key backend: keyring, keeper or memory",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn or error",
			},
		},
		Commands: getCommands(),
	}
}
