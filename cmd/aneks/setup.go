package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/aneks/internal/classification"
	"github.com/Veraticus/aneks/internal/cli"
	"github.com/Veraticus/aneks/internal/config"
	"github.com/Veraticus/aneks/internal/pipeline"
)

func setupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Copy the contract tree and build the inventory",
		Long: `Copy the source contract tree into the working directory, classify every
file, remove duplicates and record each client's document chain.

The source tree is never modified. An existing working copy is only replaced
with --force; --scan-only rebuilds the inventory from the copy already there.`,
		Example: `  # First run of the month
  aneks setup --source /mnt/share/Ugovori

  # Rebuild the inventory after renaming files in the working copy
  aneks setup --scan-only

  # See what would happen
  aneks setup --dry-run`,
		RunE: runSetup,
	}

	cmd.Flags().String("source", "", "source contract tree (overrides paths.source)")
	cmd.Flags().Bool("force", false, "replace an existing working copy")
	cmd.Flags().Bool("scan-only", false, "rescan the existing working copy without copying")
	cmd.Flags().Bool("dry-run", false, "validate and report without writing anything")
	cmd.Flags().Bool("no-progress", false, "disable progress bars")
	cmd.Flags().BoolP("yes", "y", false, "do not ask before replacing the working copy")

	return cmd
}

func runSetup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return explainError(err)
	}
	if source, _ := cmd.Flags().GetString("source"); source != "" {
		cfg.SourcePath = config.ExpandPath(source)
	}
	force, _ := cmd.Flags().GetBool("force")
	scanOnly, _ := cmd.Flags().GetBool("scan-only")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noProgress, _ := cmd.Flags().GetBool("no-progress")
	yes, _ := cmd.Flags().GetBool("yes")

	if force && scanOnly {
		return fmt.Errorf("--force and --scan-only cannot be combined")
	}

	out := cmd.OutOrStdout()
	handler := cli.NewInterruptHandler(out, "aneks setup")
	ctx := handler.HandleInterrupts(cmd.Context())

	if force && !dryRun && !yes {
		ok, err := cli.Confirm(ctx, cmd.InOrStdin(), out,
			fmt.Sprintf("Replace the working copy at %s with a fresh copy of %s?", cfg.WorkingCopyPath(), cfg.SourcePath))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, cli.FormatInfo("Aborted, working copy left as it was"))
			return nil
		}
	}

	opts := pipeline.SetupOptions{
		Scorer:        newScorer(cfg),
		Classifier:    classification.Default(),
		Logger:        slog.Default(),
		Source:        cfg.SourcePath,
		WorkingCopy:   cfg.WorkingCopyPath(),
		InventoryPath: cfg.InventoryPath(),
		LockPath:      cfg.LockPath(),
		Threshold:     cfg.FuzzyThreshold,
		Force:         force,
		ScanOnly:      scanOnly,
		DryRun:        dryRun,
	}

	// A dry run must not create the database.
	if !dryRun {
		store, err := initStorage(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Store = store
	}

	var reporter *cli.ProgressReporter
	if !noProgress {
		reporter = cli.NewProgressReporter(os.Stderr)
		opts.Progress = reporter.Func()
	}

	result, err := pipeline.Setup(ctx, opts)
	if reporter != nil {
		reporter.Finish()
	}
	if err != nil {
		if handler.WasInterrupted() {
			return nil
		}
		return explainError(err)
	}

	if result.DryRun {
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Dry run: setup from %s would succeed, nothing was written", cfg.SourcePath)))
		return nil
	}

	if result.Copy != nil {
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Copied %d files into %s", result.Copy.Copied, cfg.WorkingCopyPath())))
		for _, name := range result.Copy.VirtualFolders {
			fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Loose file moved into client folder %q", name)))
		}
	}

	if err := cli.RenderInventorySummary(out, result.Inventory); err != nil {
		return err
	}
	if err := cli.RenderFlaggedClients(out, result.Inventory); err != nil {
		return err
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Inventory written to %s (run %s)", cfg.InventoryPath(), result.RunID)))
	return nil
}
