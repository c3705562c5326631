package cli

import (
	"fmt"
	"io"
	"path"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/aneks/internal/model"
)

const (
	maxContractWidth = 40
	maxFlagsWidth    = 50
	placeholder      = "—"
)

// RenderInventorySummary writes the headline counts of inv in a box.
func RenderInventorySummary(w io.Writer, inv *model.Inventory) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Total clients:              %d\n", inv.TotalClients())
	fmt.Fprintf(&b, "With maintenance contracts: %d\n", inv.ClientsWithContracts())
	fmt.Fprintf(&b, "With annexes:               %d\n", inv.ClientsWithAnnexes())
	fmt.Fprintf(&b, "Flagged:                    %d", len(inv.FlaggedClients()))

	counts := inv.StatusCounts()
	for _, status := range model.AllClientStatuses {
		if n := counts[status]; n > 0 {
			fmt.Fprintf(&b, "\n  %s %d", StatusStyle(string(status)).Render(fmt.Sprintf("%-12s", string(status)+":")), n)
		}
	}

	_, err := fmt.Fprintln(w, RenderBox(ChartIcon+" Inventory Summary", b.String()))
	return err
}

// RenderClientTable writes one row per client.
func RenderClientTable(w io.Writer, title string, clients []model.ClientEntry) error {
	if _, err := fmt.Fprintln(w, FormatTitle(fmt.Sprintf("%s (%d)", title, len(clients)))); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCLIENT\tSTATUS\tFILES\tSELECTED\tCONTRACT\tANNEXES\tFLAGS")
	for i, c := range clients {
		contract := placeholder
		if c.DocumentChain.MainContract != "" {
			contract = truncate(path.Base(c.DocumentChain.MainContract), maxContractWidth)
		}
		flags := placeholder
		if len(c.Flags) > 0 {
			flags = truncate(strings.Join(c.Flags, ", "), maxFlagsWidth)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\t%d\t%s\n",
			i+1,
			c.ClientName,
			c.Status,
			len(c.Files),
			len(c.SelectedFiles()),
			contract,
			len(c.DocumentChain.Annexes),
			flags)
	}
	return tw.Flush()
}

// RenderFlaggedClients writes the flagged clients of inv, or a note that
// there are none.
func RenderFlaggedClients(w io.Writer, inv *model.Inventory) error {
	flagged := inv.FlaggedClients()
	if len(flagged) == 0 {
		_, err := fmt.Fprintln(w, FormatSuccess("No flagged clients."))
		return err
	}
	return RenderClientTable(w, "Flagged Clients", flagged)
}

// RenderRunStatus writes the phases of run and, when known, the summary of
// the last saved inventory.
func RenderRunStatus(w io.Writer, run *model.RunState, summary *model.InventorySummary) error {
	if _, err := fmt.Fprintln(w, FormatTitle("Pipeline Status (run: "+run.ID+")")); err != nil {
		return err
	}
	fmt.Fprintf(w, "  Created: %s\n", run.CreatedAt.Format("2006-01-02 15:04"))

	for _, p := range run.Phases {
		line := fmt.Sprintf("  %s: %s", p.Name, StatusStyle(string(p.Status)).Render(string(p.Status)))
		if p.StartedAt != nil {
			line += " (started " + p.StartedAt.Format("15:04") + ")"
		}
		if p.CompletedAt != nil {
			line += " → " + p.CompletedAt.Format("15:04")
		}
		if p.Error != "" {
			line += " " + ErrorStyle.Render("Error: "+p.Error)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if summary != nil {
		_, err := fmt.Fprintf(w, "\n  Inventory: %d clients, %d with contracts, %d with annexes, %d flagged\n",
			summary.TotalClients, summary.WithContracts, summary.WithAnnexes, summary.Flagged)
		return err
	}
	return nil
}

// FilterClients selects clients for display. flaggedOnly keeps clients with
// flags or a non-ok status; a non-empty docType keeps clients with a
// selected file of that type.
func FilterClients(inv *model.Inventory, flaggedOnly bool, docType model.DocType) []model.ClientEntry {
	clients := inv.Clients
	if flaggedOnly {
		clients = inv.FlaggedClients()
	}
	if docType == "" {
		return clients
	}

	out := make([]model.ClientEntry, 0, len(clients))
	for _, c := range clients {
		if c.HasSelected(docType) {
			out = append(out, c)
		}
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
