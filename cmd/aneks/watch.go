package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/aneks/internal/classification"
	"github.com/Veraticus/aneks/internal/config"
	"github.com/Veraticus/aneks/internal/lock"
	"github.com/Veraticus/aneks/internal/pipeline"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the inventory whenever the working copy changes",
		Long: `Watch the working copy and rerun 'aneks setup --scan-only' once changes
have settled. Useful while fixing misnamed files by hand.

A rescan that finds another run holding the lock is skipped.`,
		RunE: runWatch,
	}

	cmd.Flags().Duration("debounce", pipeline.DefaultDebounce, "quiet period before rescanning")

	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return explainError(err)
	}
	debounce, _ := cmd.Flags().GetDuration("debounce")

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	logger := slog.Default()
	rescan := func(ctx context.Context) error {
		result, err := pipeline.Setup(ctx, pipeline.SetupOptions{
			Store:         store,
			Scorer:        newScorer(cfg),
			Classifier:    classification.Default(),
			Logger:        logger,
			Source:        cfg.SourcePath,
			WorkingCopy:   cfg.WorkingCopyPath(),
			InventoryPath: cfg.InventoryPath(),
			LockPath:      cfg.LockPath(),
			Threshold:     cfg.FuzzyThreshold,
			ScanOnly:      true,
		})
		if errors.Is(err, lock.ErrAlreadyRunning) {
			logger.Warn("Another run holds the lock, skipping rescan")
			return nil
		}
		if err != nil {
			return err
		}
		logger.Info("Inventory rebuilt",
			"clients", result.Summary.TotalClients,
			"flagged", result.Summary.Flagged)
		return nil
	}

	err = pipeline.Watch(ctx, pipeline.WatchOptions{
		Logger:   logger,
		Rescan:   rescan,
		Root:     cfg.WorkingCopyPath(),
		Debounce: debounce,
	})
	return explainError(err)
}
