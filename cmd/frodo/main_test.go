package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/allisson/frodo/internal/config"
	apperrors "github.com/allisson/frodo/internal/errors"
	"github.com/allisson/frodo/internal/storage/repository"
	"github.com/allisson/frodo/internal/testutil"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	return newRootCommand().Run(context.Background(), append([]string{"frodo"}, args...))
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir = \"/from/file\"\nlog_level = \"warn\"\n"), 0o600))

	var loaded *config.Config
	root := newRootCommand()
	root.Commands = nil
	root.Action = func(ctx context.Context, cmd *cli.Command) error {
		var err error
		loaded, err = loadConfig(cmd)
		return err
	}

	err := root.Run(context.Background(), []string{
		"frodo", "--config", path, "--data-dir", dir, "--key-backend", "memory", "--log-level", "debug",
	})
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, path, loaded.ConfigFile)
	assert.Equal(t, dir, loaded.DataDir)
	assert.Equal(t, config.KeyBackendMemory, loaded.KeyBackend)
	assert.Equal(t, "debug", loaded.LogLevel)
}

func TestLoadConfig_Invalid(t *testing.T) {
	err := run(t, "--config", filepath.Join(t.TempDir(), "none.toml"), "--key-backend", "vault", "task", "list")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCLI_KeeperBackendEndToEnd(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("KMS_KEY_URI", testutil.LocalKeeperURI(t))
	t.Setenv("LOG_LEVEL", "error")

	base := []string{
		"--config", filepath.Join(dataDir, "none.toml"),
		"--data-dir", dataDir,
		"--key-backend", config.KeyBackendKeeper,
	}

	require.NoError(t, run(t, append(base, "kv", "put", "greeting", "hello")...))
	require.NoError(t, run(t, append(base, "task", "add", "--tags", "docs", "Write docs")...))
	require.NoError(t, run(t, append(base, "task", "list", "--format", "json")...))
	require.NoError(t, run(t, append(base, "health")...))

	assert.Equal(t, []string{
		repository.EncodeFileName("greeting"),
		repository.EncodeFileName("tasks"),
	}, testutil.DataFiles(t, dataDir))

	_, err := os.Stat(filepath.Join(dataDir, ".data.key"))
	assert.NoError(t, err)

	require.NoError(t, run(t, append(base, "kv", "delete", "greeting")...))
	assert.Equal(t, []string{repository.EncodeFileName("tasks")}, testutil.DataFiles(t, dataDir))
}

func TestCLI_ArgumentErrors(t *testing.T) {
	base := []string{
		"--config", filepath.Join(t.TempDir(), "none.toml"),
		"--data-dir", t.TempDir(),
		"--key-backend", config.KeyBackendMemory,
	}

	err := run(t, append(base, "kv", "put", "only-key")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 argument(s)")

	err = run(t, append(base, "task", "done")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected exactly one ID argument")
}

func TestCLI_ConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frodo", "config.toml")
	require.NoError(t, run(t, "--config", path, "config", "init"))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}
