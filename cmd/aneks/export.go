package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/aneks/internal/cli"
	"github.com/Veraticus/aneks/internal/common"
	"github.com/Veraticus/aneks/internal/config"
	"github.com/Veraticus/aneks/internal/sheets"
)

func exportSheetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-sheet",
		Short: "Publish the inventory file listing to Google Sheets",
		Long: `Write one row per file of the current inventory to a Google Sheets tab,
with its client, type, status and role in the client's document chain.

The tab is cleared and rewritten on every export. Authenticate first with
'aneks auth sheets' or configure sheets.service_account_path.`,
		RunE: runExportSheet,
	}

	cmd.Flags().String("spreadsheet-id", "", "existing spreadsheet to write into (overrides sheets.spreadsheet_id)")

	return cmd
}

func runExportSheet(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		return explainError(err)
	}

	sheetsCfg, err := config.LoadSheetsConfig()
	if err != nil {
		return common.NewUserError("❌ Google Sheets is not configured. Run 'aneks auth sheets' first.",
			fmt.Errorf("%w: %w", common.ErrSpreadsheetNotReady, err))
	}
	if id, _ := cmd.Flags().GetString("spreadsheet-id"); id != "" {
		sheetsCfg.SpreadsheetID = id
	}

	inv, err := loadInventory(cfg)
	if err != nil {
		return err
	}

	writer, err := sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create sheets writer: %w", err)
	}

	result, err := writer.Write(ctx, inv)
	if err != nil {
		return fmt.Errorf("failed to export inventory: %w", err)
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Exported %d rows to %s", result.Rows, result.URL)))
	return nil
}
