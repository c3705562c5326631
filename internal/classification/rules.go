package classification

import "github.com/Veraticus/aneks/internal/model"

// DefaultRules returns the filename classification rules. Priority encodes
// business precedence: a terminated annex is still a termination, an annex
// beats a maintenance contract, and the generic contract keyword comes last.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "Termination",
			DocType:  model.DocTermination,
			Regex:    `raskid`,
			Priority: 100,
		},
		{
			Name:     "Annex",
			DocType:  model.DocAnnex,
			Regex:    `anex|aneks|dodatak`,
			Priority: 90,
		},
		{
			Name:     "Maintenance Contract",
			DocType:  model.DocMaintenanceContract,
			Regex:    `ugovor\s+o\s+(?:održavanj|odrzavanj|servisiranj|pružanj|pruzanj)`,
			Priority: 80,
		},
		{
			Name:     "Confidentiality",
			DocType:  model.DocNDA,
			Regex:    `povjerljivost|\bnda\b`,
			Priority: 70,
		},
		{
			Name:     "Data Processing",
			DocType:  model.DocGDPR,
			Regex:    `gdpr|obradi?\s+podataka`,
			Priority: 65,
		},
		{
			Name:     "Microsoft 365",
			DocType:  model.DocM365Contract,
			Regex:    `m365|office\s*365.*ugovor`,
			Priority: 60,
		},
		{
			Name:     "Offer",
			DocType:  model.DocOffer,
			Regex:    `ponuda`,
			Priority: 50,
		},
		{
			Name:     "Price List",
			DocType:  model.DocPriceList,
			Regex:    `cjenik|cijena`,
			Priority: 40,
		},
		{
			Name:     "Attachment",
			DocType:  model.DocAttachment,
			Regex:    `prilog`,
			Priority: 30,
		},
		{
			Name:     "Contract",
			DocType:  model.DocOtherContract,
			Regex:    `ugovor|cooperation\s+agreement`,
			Priority: 10,
		},
	}
}
