package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	storageDomain "github.com/allisson/frodo/internal/storage/domain"
)

// HealthProbeKey is the logical key written and removed by the health check.
const HealthProbeKey = "health/probe"

// MetricsWriter renders collected metrics. *metrics.Provider satisfies it.
type MetricsWriter interface {
	WriteText(w io.Writer) error
}

// HealthReport is the outcome of a store round trip.
type HealthReport struct {
	Status   string        `json:"status"`
	DataDir  string        `json:"data_dir"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
}

// RunHealth writes, reads back and deletes a probe value, proving the key
// backend and the data dir work end to end. With metricsWriter set the
// collected metrics follow the report.
func RunHealth(
	ctx context.Context,
	store storageDomain.SecureStore,
	logger *slog.Logger,
	dataDir string,
	metricsWriter MetricsWriter,
	format string,
	io IOTuple,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	start := time.Now()
	probeErr := probe(ctx, store)
	report := HealthReport{
		Status:   "ok",
		DataDir:  dataDir,
		Duration: time.Since(start),
	}
	if probeErr != nil {
		report.Status = "failed"
		report.Error = probeErr.Error()
		logger.Error("health check failed", slog.Any("error", probeErr))
	}

	if format == "json" {
		if err := outputJSON(report, io.Writer); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(io.Writer, "status: %s\ndata dir: %s\nround trip: %s\n",
			report.Status, report.DataDir, report.Duration.Round(time.Microsecond))
		if report.Error != "" {
			_, _ = fmt.Fprintf(io.Writer, "error: %s\n", report.Error)
		}
	}

	if metricsWriter != nil {
		if err := metricsWriter.WriteText(io.Writer); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	if probeErr != nil {
		return fmt.Errorf("health check failed: %w", probeErr)
	}
	return nil
}

func probe(ctx context.Context, store storageDomain.SecureStore) error {
	want := []byte(time.Now().UTC().Format(time.RFC3339Nano))

	if err := store.Put(ctx, HealthProbeKey, want); err != nil {
		return fmt.Errorf("put: %w", err)
	}
	got, err := store.Get(ctx, HealthProbeKey)
	if err != nil {
		return fmt.Errorf("get: %w", err)
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("probe value mismatch")
	}
	if err := store.Delete(ctx, HealthProbeKey); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}
