package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/aneks/internal/common"
)

func startWatch(t *testing.T, root string, rescan func(context.Context) error) (cancel func(), done <-chan error) {
	t.Helper()
	ctx, cancelFn := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- Watch(ctx, WatchOptions{Root: root, Debounce: 50 * time.Millisecond, Rescan: rescan})
	}()
	// Give the watcher time to register its paths.
	time.Sleep(100 * time.Millisecond)
	return cancelFn, errCh
}

func TestWatch_DebouncesBursts(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "Alfa"), 0o750))

	var calls atomic.Int32
	cancel, done := startWatch(t, root, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	for i := range 5 {
		name := filepath.Join(root, "Alfa", "Aneks "+string(rune('A'+i))+".docx")
		require.NoError(t, os.WriteFile(name, []byte("x"), 0o600))
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	cancel()
	require.NoError(t, <-done)
}

func TestWatch_NewFolderIsWatched(t *testing.T) {
	root := t.TempDir()

	var calls atomic.Int32
	cancel, done := startWatch(t, root, func(context.Context) error {
		calls.Add(1)
		return nil
	})
	defer func() {
		cancel()
		<-done
	}()

	require.NoError(t, os.Mkdir(filepath.Join(root, "Beta"), 0o750))
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "Beta", "Ugovor.docx"), []byte("x"), 0o600))
	require.Eventually(t, func() bool { return calls.Load() == 2 }, 3*time.Second, 20*time.Millisecond)
}

func TestWatch_IgnoresJunkAndSurvivesRescanErrors(t *testing.T) {
	root := t.TempDir()

	var calls atomic.Int32
	cancel, done := startWatch(t, root, func(context.Context) error {
		calls.Add(1)
		return errors.New("locked")
	})
	defer func() {
		cancel()
		<-done
	}()

	require.NoError(t, os.WriteFile(filepath.Join(root, ".DS_Store"), []byte("x"), 0o600))
	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, calls.Load())

	require.NoError(t, os.WriteFile(filepath.Join(root, "Ugovor.docx"), []byte("x"), 0o600))
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "Aneks.docx"), []byte("x"), 0o600))
	require.Eventually(t, func() bool { return calls.Load() == 2 }, 3*time.Second, 20*time.Millisecond)
}

func TestWatch_Preconditions(t *testing.T) {
	err := Watch(context.Background(), WatchOptions{Root: t.TempDir()})
	require.ErrorIs(t, err, common.ErrMissingConfig)

	err = Watch(context.Background(), WatchOptions{
		Root:   filepath.Join(t.TempDir(), "missing"),
		Rescan: func(context.Context) error { return nil },
	})
	require.Error(t, err)
}
