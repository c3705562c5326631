package inventory

import (
	"slices"
	"strings"

	"github.com/Veraticus/aneks/internal/model"
)

// BuildChain derives the contract lineage from a client's files. Only
// selected files take part. The result does not depend on input order.
func BuildChain(files []model.FileEntry) model.DocumentChain {
	var contracts, unnumbered, others, annexes, priceLists []model.FileEntry

	for _, f := range files {
		if !f.IsSelected() {
			continue
		}
		switch f.DocType {
		case model.DocMaintenanceContract:
			contracts = append(contracts, f)
			if f.ContractNumber == "" {
				unnumbered = append(unnumbered, f)
			}
		case model.DocOtherContract:
			others = append(others, f)
		case model.DocAnnex:
			annexes = append(annexes, f)
		case model.DocPriceList:
			priceLists = append(priceLists, f)
		}
	}

	chain := model.DocumentChain{Annexes: []string{}}

	// An unnumbered maintenance contract is the original base agreement.
	switch {
	case len(unnumbered) > 0:
		chain.MainContract = slices.MinFunc(unnumbered, byPath).RelativePath
	case len(contracts) > 0:
		chain.MainContract = slices.MinFunc(contracts, compareChainOrder).RelativePath
	case len(others) > 0:
		chain.MainContract = slices.MinFunc(others, byPath).RelativePath
	}

	slices.SortFunc(annexes, compareChainOrder)
	slices.SortFunc(priceLists, compareChainOrder)
	for _, f := range annexes {
		chain.Annexes = append(chain.Annexes, f.RelativePath)
	}
	for _, f := range priceLists {
		chain.Annexes = append(chain.Annexes, f.RelativePath)
	}

	if n := len(chain.Annexes); n > 0 {
		chain.LatestValidDocument = chain.Annexes[n-1]
	} else {
		chain.LatestValidDocument = chain.MainContract
	}

	return chain
}

func byPath(a, b model.FileEntry) int {
	return strings.Compare(a.RelativePath, b.RelativePath)
}
