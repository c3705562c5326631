package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/aneks/internal/common"
	"github.com/Veraticus/aneks/internal/config"
	"github.com/Veraticus/aneks/internal/inventory"
	"github.com/Veraticus/aneks/internal/lock"
	"github.com/Veraticus/aneks/internal/model"
	"github.com/Veraticus/aneks/internal/storage"
)

// initStorage opens the run-state database and applies migrations.
func initStorage(ctx context.Context, cfg *config.Pipeline) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newScorer returns the fuzzy scorer, or nil when fuzzy deduplication is off.
func newScorer(cfg *config.Pipeline) inventory.Scorer {
	if !cfg.FuzzyEnabled {
		return nil
	}
	return inventory.IndelScorer{}
}

// loadInventory reads the inventory written by the last setup.
func loadInventory(cfg *config.Pipeline) (*model.Inventory, error) {
	inv, err := inventory.LoadInventory(cfg.InventoryPath())
	if err != nil {
		return nil, explainError(err)
	}
	return inv, nil
}

// explainError turns known failures into messages that tell the user what
// to do next. Other errors pass through unchanged.
func explainError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrSourceNotFound):
		return common.NewUserError("❌ Source folder not found. Set paths.source or pass --source.", err)
	case errors.Is(err, common.ErrSourceNotDirectory):
		return common.NewUserError("❌ Source path is not a folder.", err)
	case errors.Is(err, common.ErrDestinationExists):
		return common.NewUserError("❌ A working copy already exists. Use --force to replace it or --scan-only to rescan it.", err)
	case errors.Is(err, common.ErrInterruptedCopy):
		return common.NewUserError("❌ A previous copy was interrupted. Run 'aneks setup --force' to restore and replace it.", err)
	case errors.Is(err, common.ErrWorkingCopyMissing):
		return common.NewUserError("❌ No working copy to rescan. Run 'aneks setup' without --scan-only first.", err)
	case errors.Is(err, lock.ErrAlreadyRunning):
		return common.NewUserError("❌ Another aneks run is using this working directory.", err)
	case errors.Is(err, common.ErrInventoryNotFound):
		return common.NewUserError("❌ No inventory yet. Run 'aneks setup' first.", err)
	case errors.Is(err, common.ErrInventoryCorrupted):
		return common.NewUserError("❌ The inventory file is unreadable. Run 'aneks setup --scan-only' to rebuild it.", err)
	case errors.Is(err, common.ErrInvalidConfig), errors.Is(err, common.ErrMissingConfig):
		return common.NewUserError("❌ Configuration problem: "+err.Error(), err)
	}
	return err
}
