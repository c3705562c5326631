package sheets

import (
	"strings"

	"github.com/Veraticus/aneks/internal/model"
)

// ListingHeader is the header row of the file listing sheet.
var ListingHeader = []any{
	"Klijent",
	"Status klijenta",
	"Datoteka",
	"Putanja",
	"Vrsta dokumenta",
	"Status datoteke",
	"Broj ugovora",
	"Duplikat od",
	"Uloga u lancu",
	"Veličina (B)",
	"Izmijenjeno",
	"Oznake klijenta",
}

// Chain roles shown in the listing.
const (
	RoleMain   = "glavni ugovor"
	RoleAnnex  = "aneks"
	RoleLatest = "zadnji važeći"
)

var roleLabels = map[string]string{
	model.RoleMainContract: RoleMain,
	model.RoleAnnex:        RoleAnnex,
	model.RoleLatestValid:  RoleLatest,
}

// BuildListing turns an inventory into sheet rows, header first. Rows follow
// the inventory's client order and each client's file order.
func BuildListing(inv *model.Inventory) [][]any {
	rows := 1
	for _, c := range inv.Clients {
		rows += max(len(c.Files), 1)
	}

	values := make([][]any, 0, rows)
	values = append(values, ListingHeader)

	for _, c := range inv.Clients {
		flags := strings.Join(c.Flags, ", ")
		if len(c.Files) == 0 {
			values = append(values, []any{
				c.ClientName, string(c.Status), "", "", "", "", "", "", "", "", "", flags,
			})
			continue
		}

		for _, f := range c.Files {
			modified := ""
			if f.ModifiedAt != nil {
				modified = f.ModifiedAt.Format("2006-01-02 15:04")
			}
			values = append(values, []any{
				c.ClientName,
				string(c.Status),
				f.Filename,
				f.RelativePath,
				string(f.DocType),
				string(f.Status),
				f.ContractNumber,
				f.DuplicateOf,
				chainRole(c.DocumentChain, f.RelativePath),
				f.SizeBytes,
				modified,
				flags,
			})
		}
	}

	return values
}

func chainRole(chain model.DocumentChain, path string) string {
	roles := chain.Roles(path)
	labels := make([]string, 0, len(roles))
	for _, r := range roles {
		labels = append(labels, roleLabels[r])
	}
	return strings.Join(labels, ", ")
}
