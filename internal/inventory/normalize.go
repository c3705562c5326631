// Package inventory scans a contract archive and decides, per client, which
// documents are canonical.
package inventory

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Veraticus/aneks/internal/common"
)

// copySuffixRe matches one trailing copy or version marker. Word markers
// must stand alone; a parenthesised counter may be glued to the stem.
var copySuffixRe = regexp.MustCompile(
	`(?:\s*\(\d+\)|(?:^|\s)(?:copy|kopija|v\d+|final|konačn[aoi]|konacn[aoi]))$`,
)

// separatorRe collapses the separators people use in place of spaces. Dots
// are included so that a normalized stem never looks like it has an extension.
var separatorRe = regexp.MustCompile(`[_\-.]+`)

// NormalizeStem reduces a filename to the form used for duplicate detection:
// extension removed, lower case, NFC, separators collapsed to single spaces,
// trailing copy markers stripped. It is idempotent.
func NormalizeStem(filename string) string {
	stem := filename
	if ext := filepath.Ext(stem); ext != stem {
		stem = strings.TrimSuffix(stem, ext)
	}

	stem = common.NFC(strings.ToLower(common.NFC(stem)))
	stem = separatorRe.ReplaceAllString(stem, " ")
	stem = strings.Join(strings.Fields(stem), " ")

	for {
		stripped := strings.TrimSpace(copySuffixRe.ReplaceAllString(stem, ""))
		if stripped == stem {
			return stem
		}
		stem = stripped
	}
}
