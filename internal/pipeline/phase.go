// Package pipeline orchestrates the setup phase: copy the source archive,
// discover clients and persist the inventory, under run-state bookkeeping.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/Veraticus/aneks/internal/common"
	"github.com/Veraticus/aneks/internal/storage"
)

// RunPhase records phase as started, runs fn, and records the outcome. The
// error from fn is returned unchanged; failing to record it is only logged.
func RunPhase(ctx context.Context, store storage.RunStateStore, runID, phase string, logger *slog.Logger, fn func(context.Context) error) error {
	logger = common.LoggerOrDefault(logger)

	if err := store.MarkStarted(ctx, runID, phase); err != nil {
		return err
	}

	if err := fn(ctx); err != nil {
		// Cancellation must still be recorded.
		if markErr := store.MarkFailed(context.WithoutCancel(ctx), runID, phase, err); markErr != nil {
			logger.Warn("Failed to record phase failure",
				"run_id", runID,
				"phase", phase,
				"error", markErr)
		}
		return err
	}

	return store.MarkCompleted(ctx, runID, phase)
}
