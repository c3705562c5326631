package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Veraticus/aneks/internal/common"
	"github.com/Veraticus/aneks/internal/inventory"
)

// DefaultDebounce is how long Watch waits for the tree to settle.
const DefaultDebounce = 2 * time.Second

// WatchOptions configures Watch.
type WatchOptions struct {
	Logger   *slog.Logger
	Rescan   func(context.Context) error
	Root     string
	Debounce time.Duration
}

// Watch calls Rescan once changes under Root have been quiet for Debounce.
// A failed rescan is logged and watching continues. Watch returns when ctx
// is done.
func Watch(ctx context.Context, opts WatchOptions) error {
	if opts.Rescan == nil {
		return fmt.Errorf("%w: watch requires a rescan function", common.ErrMissingConfig)
	}
	logger := common.LoggerOrDefault(opts.Logger)
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	if err := addRecursive(watcher, opts.Root); err != nil {
		return err
	}
	logger.Info("Watching working copy", "root", opts.Root, "debounce", debounce)

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if inventory.IsJunk(filepath.Base(ev.Name)) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				// New folders need their own watch.
				if err := addRecursive(watcher, ev.Name); err != nil {
					logger.Debug("Not watching new path", "path", ev.Name, "error", err)
				}
			}
			logger.Debug("Change detected", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error", "error", err)

		case <-timer.C:
			logger.Info("Working copy changed, rescanning")
			if err := opts.Rescan(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Error("Rescan failed", "error", err)
			}
		}
	}
}

func addRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("failed to watch %s: %w", root, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && inventory.IsJunk(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
