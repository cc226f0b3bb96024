package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/frodo/internal/errors"
	"github.com/allisson/frodo/internal/metrics"
	storageDomain "github.com/allisson/frodo/internal/storage/domain"
	"github.com/allisson/frodo/internal/storage/repository"
	"github.com/allisson/frodo/internal/testutil"
)

// brokenStore fails every write.
type brokenStore struct {
	storageDomain.SecureStore
}

func (brokenStore) Put(context.Context, string, []byte) error {
	return storageDomain.NewStorageError(storageDomain.ReasonIO, errors.New("disk full"))
}

type failingMetricsWriter struct{}

func (failingMetricsWriter) WriteText(io.Writer) error { return errors.New("gather failed") }

func TestRunHealth(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("ok", func(t *testing.T) {
		store, root := testutil.NewFileStore(t)

		var out bytes.Buffer
		require.NoError(t, RunHealth(ctx, store, logger, root, nil, "text", IOTuple{Writer: &out}))
		assert.Contains(t, out.String(), "status: ok")
		assert.Contains(t, out.String(), "data dir: "+root)

		// The probe cleans up after itself.
		assert.Empty(t, testutil.DataFiles(t, root))
	})

	t.Run("json", func(t *testing.T) {
		store := repository.NewMaskedMemoryStore()

		var out bytes.Buffer
		require.NoError(t, RunHealth(ctx, store, logger, "/data", nil, "json", IOTuple{Writer: &out}))

		var report HealthReport
		require.NoError(t, json.Unmarshal(out.Bytes(), &report))
		assert.Equal(t, "ok", report.Status)
		assert.Equal(t, "/data", report.DataDir)
		assert.Empty(t, report.Error)
	})

	t.Run("failure", func(t *testing.T) {
		store := brokenStore{SecureStore: repository.NewMaskedMemoryStore()}

		var out bytes.Buffer
		err := RunHealth(ctx, store, logger, "/data", nil, "text", IOTuple{Writer: &out})
		assert.ErrorIs(t, err, apperrors.ErrStorage)
		assert.Contains(t, out.String(), "status: failed")
		assert.Contains(t, out.String(), "disk full")
	})

	t.Run("with metrics", func(t *testing.T) {
		provider, err := metrics.NewProvider("frodo")
		require.NoError(t, err)
		defer func() { _ = provider.Shutdown(ctx) }()

		m, err := metrics.NewBusinessMetrics(provider.MeterProvider(), "frodo")
		require.NoError(t, err)
		store := repository.NewSecureStoreWithMetrics(repository.NewMaskedMemoryStore(), m)

		var out bytes.Buffer
		require.NoError(t, RunHealth(ctx, store, logger, "/data", provider, "text", IOTuple{Writer: &out}))
		assert.Contains(t, out.String(), "frodo_operations_total")
		assert.Contains(t, out.String(), `operation="put"`)
	})

	t.Run("metrics failure", func(t *testing.T) {
		err := RunHealth(ctx, repository.NewMaskedMemoryStore(), logger, "/data", failingMetricsWriter{}, "text",
			IOTuple{Writer: &bytes.Buffer{}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gather failed")
	})
}
