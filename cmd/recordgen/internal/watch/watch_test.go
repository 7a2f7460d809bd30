package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "entities.yaml")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0o600))

	var (
		runs = make(chan struct{}, 10)
		errs = make(chan error, 10)
	)
	w, err := New(file, func(context.Context) error {
		runs <- struct{}{}
		return errors.New("generation failed")
	}, WithDebounce(20*time.Millisecond), WithErrorHandler(func(err error) { errs <- err }))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(file, []byte("b"), 0o600))
	require.NoError(t, os.WriteFile(file, []byte("c"), 0o600))

	select {
	case <-runs:
	case <-time.After(5 * time.Second):
		t.Fatal("callback did not run")
	}
	select {
	case err := <-errs:
		require.EqualError(t, err, "generation failed")
	case <-time.After(5 * time.Second):
		t.Fatal("error was not reported")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestNewMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "entities.yaml"), func(context.Context) error { return nil })
	require.Error(t, err)
}
