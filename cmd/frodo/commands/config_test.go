package commands

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/frodo/internal/config"
)

func TestRunConfigInit(t *testing.T) {
	logger := slog.Default()
	path := filepath.Join(t.TempDir(), "frodo", "config.toml")

	var out bytes.Buffer
	require.NoError(t, RunConfigInit(logger, path, IOTuple{Writer: &out}))
	assert.Equal(t, "Wrote "+path+"\n", out.String())

	_, err := os.Stat(path)
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, RunConfigInit(logger, path, IOTuple{Writer: &out}))
	assert.Contains(t, out.String(), "already exists")
}

func TestRunConfigShow(t *testing.T) {
	cfg := &config.Config{
		ConfigFile:     "/etc/frodo.toml",
		DataDir:        "/data",
		KeyBackend:     config.KeyBackendKeyring,
		KeyringService: "frodo-cli",
		OpenAI:         config.OpenAIConfig{APIKey: "sk-secret"},
	}

	var out bytes.Buffer
	require.NoError(t, RunConfigShow(cfg, IOTuple{Writer: &out}))
	assert.Contains(t, out.String(), "# source: /etc/frodo.toml")
	assert.Contains(t, out.String(), `data_dir = "/data"`)
	assert.NotContains(t, out.String(), "sk-secret")
}
