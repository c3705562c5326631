package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/aneks/internal/cli"
	"github.com/Veraticus/aneks/internal/common"
	"github.com/Veraticus/aneks/internal/config"
	"github.com/Veraticus/aneks/internal/model"
)

func statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of the latest pipeline run",
		Long: `Show the phases of the latest run with their start and finish times and
the headline numbers of the last saved inventory.`,
		RunE: runStatus,
	}

	cmd.Flags().Int("history", 0, "also list this many previous runs")

	return cmd
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		return explainError(err)
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Latest(ctx)
	if errors.Is(err, common.ErrNoRunsRecorded) {
		fmt.Fprintln(out, cli.FormatInfo("No runs recorded yet. Start with 'aneks setup'."))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load run state: %w", err)
	}

	var summary *model.InventorySummary
	summaries, err := store.ListInventorySummaries(ctx, 1)
	if err != nil {
		return fmt.Errorf("failed to load inventory summary: %w", err)
	}
	if len(summaries) > 0 {
		summary = &summaries[0]
	}

	if err := cli.RenderRunStatus(out, run, summary); err != nil {
		return err
	}

	history, _ := cmd.Flags().GetInt("history")
	if history <= 0 {
		return nil
	}

	runs, err := store.ListRuns(ctx, history+1)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	for _, r := range runs {
		if r.ID == run.ID {
			continue
		}
		fmt.Fprintln(out)
		if err := cli.RenderRunStatus(out, r, nil); err != nil {
			return err
		}
	}
	return nil
}
