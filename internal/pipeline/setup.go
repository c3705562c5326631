package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/Veraticus/aneks/internal/classification"
	"github.com/Veraticus/aneks/internal/common"
	"github.com/Veraticus/aneks/internal/inventory"
	"github.com/Veraticus/aneks/internal/lock"
	"github.com/Veraticus/aneks/internal/model"
	"github.com/Veraticus/aneks/internal/storage"
)

// Store is the persistence the setup phase needs.
type Store interface {
	storage.RunStateStore
	SaveInventorySummary(ctx context.Context, summary *model.InventorySummary) error
}

// SetupOptions configures Setup.
type SetupOptions struct {
	Store         Store
	Scorer        inventory.Scorer // nil disables fuzzy deduplication
	Classifier    *classification.Classifier
	Logger        *slog.Logger
	Progress      inventory.ProgressFunc
	Now           func() time.Time
	Source        string
	WorkingCopy   string
	InventoryPath string
	LockPath      string // empty skips locking
	RunID         string // empty derives the monthly run ID from Now
	Threshold     int
	Force         bool
	ScanOnly      bool // rescan the existing working copy without copying
	DryRun        bool
}

// SetupResult describes a finished setup phase.
type SetupResult struct {
	Inventory *model.Inventory // nil on a dry run
	Copy      *inventory.CopyResult
	Summary   *model.InventorySummary
	RunID     string
	DryRun    bool
}

// Setup validates the source, refreshes the working copy, discovers clients
// and writes the inventory. The phase is recorded under opts.RunID. The
// inventory file is only written when every step succeeded. A dry run
// writes nothing, not even run state, and needs no store.
func Setup(ctx context.Context, opts SetupOptions) (*SetupResult, error) {
	logger := common.LoggerOrDefault(opts.Logger)
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	runID := opts.RunID
	if runID == "" {
		runID = model.RunIDFor(now())
	}

	if opts.DryRun {
		if err := checkSetup(opts); err != nil {
			return nil, err
		}
		logger.Info("Dry run: setup would succeed",
			"run_id", runID,
			"source", opts.Source,
			"working_copy", opts.WorkingCopy,
			"scan_only", opts.ScanOnly)
		return &SetupResult{RunID: runID, DryRun: true}, nil
	}

	if opts.Store == nil {
		return nil, fmt.Errorf("%w: setup requires a run-state store", common.ErrMissingConfig)
	}
	if err := checkSource(opts.Source); err != nil {
		return nil, err
	}

	if opts.LockPath != "" {
		l, err := lock.Acquire(opts.LockPath)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := l.Release(); err != nil {
				logger.Warn("Failed to release lock", "path", l.Path(), "error", err)
			}
		}()
	}

	logger.Info("Starting setup",
		"run_id", runID,
		"source", opts.Source,
		"working_copy", opts.WorkingCopy,
		"scan_only", opts.ScanOnly)

	result := &SetupResult{RunID: runID}
	err := RunPhase(ctx, opts.Store, runID, model.PhaseSetup, logger, func(ctx context.Context) error {
		return runSetup(ctx, opts, logger, now, result)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func runSetup(ctx context.Context, opts SetupOptions, logger *slog.Logger, now func() time.Time, result *SetupResult) error {
	if opts.ScanOnly {
		if err := checkWorkingCopy(opts.WorkingCopy); err != nil {
			return err
		}
		logger.Info("Skipping copy, rescanning existing working copy")
	} else {
		res, err := inventory.CopyTree(opts.Source, opts.WorkingCopy, inventory.CopyOptions{
			Logger:   logger,
			Progress: opts.Progress,
			Force:    opts.Force,
		})
		if err != nil {
			return err
		}
		result.Copy = &res
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	clients, err := inventory.NewDiscoverer(inventory.DiscoverOptions{
		Classifier: opts.Classifier,
		Logger:     logger,
		Scorer:     opts.Scorer,
		Progress:   opts.Progress,
		Threshold:  opts.Threshold,
	}).DiscoverClients(ctx, opts.WorkingCopy)
	if err != nil {
		return err
	}

	inv := &model.Inventory{
		CreatedAt:   now(),
		SourcePath:  opts.Source,
		WorkingPath: opts.WorkingCopy,
		Clients:     clients,
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	if err := inventory.SaveInventory(opts.InventoryPath, inv); err != nil {
		return err
	}

	summary := model.Summarize(result.RunID, opts.InventoryPath, inv)
	if err := opts.Store.SaveInventorySummary(ctx, &summary); err != nil {
		logger.Warn("Failed to record inventory summary", "error", err)
	}

	logger.Info("Inventory saved",
		"path", opts.InventoryPath,
		"clients", summary.TotalClients,
		"with_contracts", summary.WithContracts,
		"flagged", summary.Flagged)

	result.Inventory = inv
	result.Summary = &summary
	return nil
}

// checkSetup runs the checks a real setup would fail on before it writes
// anything.
func checkSetup(opts SetupOptions) error {
	if opts.ScanOnly {
		if err := checkSource(opts.Source); err != nil {
			return err
		}
		return checkWorkingCopy(opts.WorkingCopy)
	}
	_, err := inventory.CheckCopy(opts.Source, opts.WorkingCopy, opts.Force)
	return err
}

func checkWorkingCopy(path string) error {
	exists, err := dirExists(path)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", common.ErrWorkingCopyMissing, path)
	}
	return nil
}

func checkSource(source string) error {
	info, err := os.Stat(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", common.ErrSourceNotFound, source)
		}
		return fmt.Errorf("failed to stat source %s: %w", source, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", common.ErrSourceNotDirectory, source)
	}
	return nil
}

func dirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return info.IsDir(), nil
}
