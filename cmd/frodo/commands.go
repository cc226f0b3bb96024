package main

import (
	"github.com/urfave/cli/v3"

	"github.com/allisson/frodo/internal/app"
	"github.com/allisson/frodo/internal/config"
)

func getCommands() []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getTaskCommands()...)
	cmds = append(cmds, getKVCommands()...)
	cmds = append(cmds, getSystemCommands()...)
	return cmds
}

func newFormatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

// loadConfig loads the layered configuration and applies the global flags
// on top.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String("config")
	if path == "" {
		path = config.DefaultFilePath()
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}

	if dir := cmd.String("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	if backend := cmd.String("key-backend"); backend != "" {
		cfg.KeyBackend = backend
	}
	if level := cmd.String("log-level"); level != "" {
		cfg.LogLevel = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newContainer loads the configuration and builds a container for it.
func newContainer(cmd *cli.Command) (*app.Container, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return app.NewContainer(cfg), nil
}
