package inventory

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Veraticus/aneks/internal/classification"
	"github.com/Veraticus/aneks/internal/model"
)

// formatPriority ranks document formats for deduplication; lower is better.
func formatPriority(ext string) int {
	switch strings.ToLower(ext) {
	case classification.ExtDOCX:
		return 0
	case classification.ExtDOC:
		return 1
	case classification.ExtPDF:
		return 2
	default:
		return 99
	}
}

// compareFormat orders files best-first for exact deduplication: preferred
// format, then the shorter name (fewer copy markers), then path.
func compareFormat(a, b model.FileEntry) int {
	if pa, pb := formatPriority(a.Extension), formatPriority(b.Extension); pa != pb {
		return pa - pb
	}
	if la, lb := utf8.RuneCountInString(a.Filename), utf8.RuneCountInString(b.Filename); la != lb {
		return la - lb
	}
	return strings.Compare(a.RelativePath, b.RelativePath)
}

// compareChainOrder orders documents oldest-first within a chain: contract
// number (year, sequence), then modification time, then path. Files without
// a number sort before numbered ones.
func compareChainOrder(a, b model.FileEntry) int {
	ay, as, _ := classification.ParseContractNumber(a.ContractNumber)
	by, bs, _ := classification.ParseContractNumber(b.ContractNumber)
	if ay != by {
		return ay - by
	}
	if as != bs {
		return as - bs
	}
	if c := compareTimeNilFirst(a.ModifiedAt, b.ModifiedAt); c != 0 {
		return c
	}
	return strings.Compare(a.RelativePath, b.RelativePath)
}

func compareTimeNilFirst(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}
