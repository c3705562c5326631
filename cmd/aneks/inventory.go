package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/aneks/internal/cli"
	"github.com/Veraticus/aneks/internal/config"
	"github.com/Veraticus/aneks/internal/model"
	"github.com/Veraticus/aneks/internal/tui"
	"github.com/Veraticus/aneks/internal/tui/themes"
)

func inventoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Show the client inventory",
		Long: `Show the inventory written by the last setup, as a table, JSON or YAML,
or browse it interactively.`,
		Example: `  # Clients needing attention
  aneks inventory --flagged-only

  # Clients that have an annex, as JSON
  aneks inventory --type annex --format json

  # Browse clients and their files
  aneks inventory --interactive`,
		RunE: runInventory,
	}

	cmd.Flags().StringP("format", "f", cli.FormatTable, "output format (table, json, yaml)")
	cmd.Flags().Bool("flagged-only", false, "only show clients with flags or a non-ok status")
	cmd.Flags().String("type", "", "only show clients with a selected document of this type")
	cmd.Flags().BoolP("interactive", "i", false, "browse the inventory interactively")

	return cmd
}

func runInventory(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return explainError(err)
	}

	format, _ := cmd.Flags().GetString("format")
	flaggedOnly, _ := cmd.Flags().GetBool("flagged-only")
	docTypeFlag, _ := cmd.Flags().GetString("type")
	interactive, _ := cmd.Flags().GetBool("interactive")

	var docType model.DocType
	if docTypeFlag != "" {
		if docType, err = model.ParseDocType(docTypeFlag); err != nil {
			return fmt.Errorf("--type: %w", err)
		}
	}

	inv, err := loadInventory(cfg)
	if err != nil {
		return err
	}

	if interactive {
		return tui.Run(cmd.Context(), inv,
			tui.WithTheme(themes.GetTheme(viper.GetString("tui.theme"))),
			tui.WithFlaggedOnly(flaggedOnly))
	}

	filtered := *inv
	filtered.Clients = cli.FilterClients(inv, flaggedOnly, docType)

	out := cmd.OutOrStdout()
	if format != cli.FormatTable {
		return cli.Encode(out, &filtered, format)
	}

	if err := cli.RenderInventorySummary(out, inv); err != nil {
		return err
	}
	title := "Clients"
	if flaggedOnly {
		title = "Flagged Clients"
	}
	if docType != "" {
		title += " with " + string(docType)
	}
	return cli.RenderClientTable(out, title, filtered.Clients)
}
