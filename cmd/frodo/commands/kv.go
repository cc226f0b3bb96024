package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	validation "github.com/jellydator/validation"

	storageDomain "github.com/allisson/frodo/internal/storage/domain"
	customValidation "github.com/allisson/frodo/internal/validation"
)

// stdinValue is the value argument that makes kv put read from the reader.
const stdinValue = "-"

func validateKey(key string) error {
	err := validation.Validate(key, validation.Required, customValidation.LogicalKey)
	if err != nil {
		return customValidation.WrapValidationError(fmt.Errorf("key: %w", err))
	}
	return nil
}

// RunKVPut stores value under key. A value of "-" reads it from io.Reader.
func RunKVPut(
	ctx context.Context,
	store storageDomain.SecureStore,
	logger *slog.Logger,
	key string,
	value string,
	io IOTuple,
) error {
	if err := validateKey(key); err != nil {
		return err
	}

	data := []byte(value)
	if value == stdinValue {
		var err error
		if data, err = readAll(io); err != nil {
			return err
		}
	}

	if err := store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("failed to put %q: %w", key, err)
	}

	logger.Info("value stored", slog.String("key", key), slog.Int("bytes", len(data)))
	return nil
}

// RunKVGet writes the raw value stored under key.
func RunKVGet(
	ctx context.Context,
	store storageDomain.SecureStore,
	key string,
	io IOTuple,
) error {
	if err := validateKey(key); err != nil {
		return err
	}

	data, err := store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to get %q: %w", key, err)
	}

	_, err = io.Writer.Write(data)
	return err
}

// RunKVDelete removes key. Deleting a missing key succeeds.
func RunKVDelete(
	ctx context.Context,
	store storageDomain.SecureStore,
	logger *slog.Logger,
	key string,
) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if err := store.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}

	logger.Info("value deleted", slog.String("key", key))
	return nil
}

// RunKVList prints every stored key, one per line or as a JSON array.
func RunKVList(
	ctx context.Context,
	store storageDomain.SecureStore,
	format string,
	io IOTuple,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	lister, ok := store.(storageDomain.KeyLister)
	if !ok {
		return fmt.Errorf("store %T cannot list keys", store)
	}

	keys, err := lister.Keys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	if format == "json" {
		return outputJSON(keys, io.Writer)
	}
	for _, key := range keys {
		_, _ = fmt.Fprintln(io.Writer, key)
	}
	return nil
}

func readAll(tuple IOTuple) ([]byte, error) {
	if tuple.Reader == nil {
		return nil, fmt.Errorf("no input to read the value from")
	}
	data, err := io.ReadAll(tuple.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read value: %w", err)
	}
	return data, nil
}
