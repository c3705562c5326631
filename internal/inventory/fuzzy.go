package inventory

import (
	"math"
	"path"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"

	"github.com/Veraticus/aneks/internal/model"
)

// DefaultFuzzyThreshold is the similarity score (0-100) at or above which two
// stems are treated as the same document.
const DefaultFuzzyThreshold = 90

// Scorer rates the similarity of two normalized stems from 0 to 100.
type Scorer interface {
	Score(a, b string) int
}

// ScorerFunc adapts a function to the Scorer interface.
type ScorerFunc func(a, b string) int

// Score calls f(a, b).
func (f ScorerFunc) Score(a, b string) int {
	return f(a, b)
}

// IndelScorer scores by insertion/deletion distance, the measure used by
// the common "ratio" similarity: 100 * (len(a)+len(b)-d) / (len(a)+len(b)).
type IndelScorer struct{}

// Score implements Scorer.
func (IndelScorer) Score(a, b string) int {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 100
	}
	d := edlib.LCSEditDistance(a, b)
	return int(math.Round(100 * float64(total-d) / float64(total)))
}

// DedupFuzzy marks near-duplicates among files still selected after the
// exact pass. Candidates must share a directory and a document type, and a
// pair carrying two different contract numbers is never merged. Of a
// matching pair the worse format becomes the duplicate; on equal formats
// the file earlier in path order is kept. A nil scorer disables the pass.
// The input slice is not modified.
func DedupFuzzy(files []model.FileEntry, scorer Scorer, threshold int) []model.FileEntry {
	out := slices.Clone(files)
	if scorer == nil {
		return out
	}

	type groupKey struct {
		dir     string
		docType model.DocType
	}
	groups := make(map[groupKey][]int)
	var order []groupKey

	for i, f := range out {
		if !f.IsSelected() {
			continue
		}
		key := groupKey{dir: path.Dir(f.RelativePath), docType: f.DocType}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	for _, key := range order {
		members := groups[key]
		if len(members) < 2 {
			continue
		}
		slices.SortFunc(members, func(a, b int) int {
			return strings.Compare(out[a].RelativePath, out[b].RelativePath)
		})

		stems := make(map[int]string, len(members))
		for _, idx := range members {
			stems[idx] = NormalizeStem(out[idx].Filename)
		}

		for i, ai := range members {
			for _, bi := range members[i+1:] {
				a, b := &out[ai], &out[bi]
				if !a.IsSelected() || !b.IsSelected() {
					continue
				}
				if a.ContractNumber != "" && b.ContractNumber != "" && a.ContractNumber != b.ContractNumber {
					continue
				}
				if scorer.Score(stems[ai], stems[bi]) < threshold {
					continue
				}
				if formatPriority(b.Extension) < formatPriority(a.Extension) {
					markDuplicate(a, b.RelativePath)
				} else {
					markDuplicate(b, a.RelativePath)
				}
			}
		}
	}

	resolveDuplicateTargets(out)
	return out
}
