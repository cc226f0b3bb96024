package commands

import (
	"fmt"
	"log/slog"

	"github.com/allisson/frodo/internal/config"
)

// RunConfigInit writes a starter config file at path unless one exists.
func RunConfigInit(logger *slog.Logger, path string, io IOTuple) error {
	created, err := config.WriteDefault(path)
	if err != nil {
		return err
	}

	if created {
		logger.Info("config file created", slog.String("path", path))
		_, _ = fmt.Fprintf(io.Writer, "Wrote %s\n", path)
		return nil
	}
	_, _ = fmt.Fprintf(io.Writer, "%s already exists, left unchanged\n", path)
	return nil
}

// RunConfigShow prints the effective configuration with secrets redacted.
func RunConfigShow(cfg *config.Config, io IOTuple) error {
	_, _ = fmt.Fprintf(io.Writer, "# source: %s\n", cfg.ConfigFile)
	return cfg.Encode(io.Writer)
}
