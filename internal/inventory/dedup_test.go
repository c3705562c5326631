package inventory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Veraticus/aneks/internal/model"
)

func TestDedupExact_PrefersDocx(t *testing.T) {
	files := []model.FileEntry{
		entry("K/a.pdf", model.DocOtherContract, "", baseTime),
		entry("K/a.doc", model.DocOtherContract, "", baseTime),
		entry("K/a.docx", model.DocOtherContract, "", baseTime),
	}

	out := DedupExact(files)
	got := byRelativePath(out)

	assert.Equal(t, model.FileSelected, got["K/a.docx"].Status)
	assert.Empty(t, got["K/a.docx"].DuplicateOf)
	for _, p := range []string{"K/a.doc", "K/a.pdf"} {
		assert.Equal(t, model.FileDuplicateSkipped, got[p].Status, p)
		assert.Equal(t, "K/a.docx", got[p].DuplicateOf, p)
	}
}

func TestDedupExact_CopyMarkers(t *testing.T) {
	files := []model.FileEntry{
		entry("K/Ugovor (1).docx", model.DocOtherContract, "", baseTime),
		entry("K/Ugovor.docx", model.DocOtherContract, "", baseTime),
		entry("K/Ugovor_v2.pdf", model.DocOtherContract, "", baseTime),
	}

	out := DedupExact(files)
	got := byRelativePath(out)

	assert.Equal(t, model.FileSelected, got["K/Ugovor.docx"].Status)
	assert.Equal(t, "K/Ugovor.docx", got["K/Ugovor (1).docx"].DuplicateOf)
	assert.Equal(t, "K/Ugovor.docx", got["K/Ugovor_v2.pdf"].DuplicateOf)
}

func TestDedupExact_NeverCrossesDirectories(t *testing.T) {
	files := []model.FileEntry{
		entry("K/2023/Ugovor.docx", model.DocOtherContract, "", baseTime),
		entry("K/2024/Ugovor.pdf", model.DocOtherContract, "", baseTime),
		entry("K/Ugovor.doc", model.DocOtherContract, "", baseTime),
	}

	for _, f := range DedupExact(files) {
		assert.Equal(t, model.FileSelected, f.Status, f.RelativePath)
	}
}

func TestDedupExact_IgnoresUnselected(t *testing.T) {
	empty := entry("K/a.docx", model.DocOtherContract, "", baseTime)
	empty.Status = model.FileEmpty
	files := []model.FileEntry{empty, entry("K/a.pdf", model.DocOtherContract, "", baseTime)}

	got := byRelativePath(DedupExact(files))
	assert.Equal(t, model.FileEmpty, got["K/a.docx"].Status)
	assert.Equal(t, model.FileSelected, got["K/a.pdf"].Status)
}

func TestDedupExact_DoesNotMutateInput(t *testing.T) {
	files := []model.FileEntry{
		entry("K/a.docx", model.DocOtherContract, "", baseTime),
		entry("K/a.pdf", model.DocOtherContract, "", baseTime),
	}

	_ = DedupExact(files)
	_ = DedupFuzzy(files, ScorerFunc(func(string, string) int { return 100 }), DefaultFuzzyThreshold)

	for _, f := range files {
		assert.Equal(t, model.FileSelected, f.Status)
		assert.Empty(t, f.DuplicateOf)
	}
}

func TestDedupFuzzy(t *testing.T) {
	always := func(score int) Scorer {
		return ScorerFunc(func(string, string) int { return score })
	}

	t.Run("contract numbers guard the merge", func(t *testing.T) {
		files := []model.FileEntry{
			entry("K/Aneks_U-24-01.docx", model.DocAnnex, "U-24-01", baseTime),
			entry("K/Aneks_U-24-02.pdf", model.DocAnnex, "U-24-02", baseTime),
		}
		for _, f := range DedupFuzzy(files, always(95), DefaultFuzzyThreshold) {
			assert.Equal(t, model.FileSelected, f.Status, f.RelativePath)
		}
	})

	t.Run("worse format becomes the duplicate", func(t *testing.T) {
		files := []model.FileEntry{
			entry("K/Aneks cijene 2024.pdf", model.DocAnnex, "", baseTime),
			entry("K/Aneks cijene 2024 potpisan.docx", model.DocAnnex, "", baseTime),
		}
		got := byRelativePath(DedupFuzzy(files, always(95), DefaultFuzzyThreshold))
		assert.Equal(t, model.FileSelected, got["K/Aneks cijene 2024 potpisan.docx"].Status)
		assert.Equal(t, model.FileDuplicateSkipped, got["K/Aneks cijene 2024.pdf"].Status)
		assert.Equal(t, "K/Aneks cijene 2024 potpisan.docx", got["K/Aneks cijene 2024.pdf"].DuplicateOf)
	})

	t.Run("equal formats keep the first in path order", func(t *testing.T) {
		files := []model.FileEntry{
			entry("K/b.docx", model.DocAnnex, "", baseTime),
			entry("K/a.docx", model.DocAnnex, "", baseTime),
		}
		got := byRelativePath(DedupFuzzy(files, always(100), DefaultFuzzyThreshold))
		assert.Equal(t, model.FileSelected, got["K/a.docx"].Status)
		assert.Equal(t, "K/a.docx", got["K/b.docx"].DuplicateOf)
	})

	t.Run("below threshold", func(t *testing.T) {
		files := []model.FileEntry{
			entry("K/a.docx", model.DocAnnex, "", baseTime),
			entry("K/b.pdf", model.DocAnnex, "", baseTime),
		}
		for _, f := range DedupFuzzy(files, always(89), DefaultFuzzyThreshold) {
			assert.Equal(t, model.FileSelected, f.Status)
		}
	})

	t.Run("different types are not compared", func(t *testing.T) {
		files := []model.FileEntry{
			entry("K/a.docx", model.DocAnnex, "", baseTime),
			entry("K/a2.pdf", model.DocOffer, "", baseTime),
		}
		for _, f := range DedupFuzzy(files, always(100), DefaultFuzzyThreshold) {
			assert.Equal(t, model.FileSelected, f.Status)
		}
	})

	t.Run("nil scorer disables the pass", func(t *testing.T) {
		files := []model.FileEntry{
			entry("K/a.docx", model.DocAnnex, "", baseTime),
			entry("K/a (kopija).pdf", model.DocAnnex, "", baseTime),
		}
		out := DedupFuzzy(files, nil, DefaultFuzzyThreshold)
		assert.Equal(t, files, out)
	})
}

func TestIndelScorer(t *testing.T) {
	s := IndelScorer{}
	assert.Equal(t, 100, s.Score("ugovor", "ugovor"))
	assert.Equal(t, 100, s.Score("", ""))
	assert.Equal(t, 0, s.Score("abc", "xyz"))
	// "aneks cijene" vs "aneks cijena": one substitution = two indels over 24 runes.
	assert.Equal(t, 92, s.Score("aneks cijene", "aneks cijena"))
	assert.Less(t, s.Score("ugovor o održavanju", "ponuda"), DefaultFuzzyThreshold)
}

// Whatever the scores, a duplicate always points at a file that was kept.
func TestDedup_DuplicateTargetsAreKept(t *testing.T) {
	exts := []string{".docx", ".doc", ".pdf"}
	stems := []string{"aneks", "aneks 2", "aneks cijene", "ugovor", "ugovor v2"}

	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(rt, "n")
		files := make([]model.FileEntry, 0, n)
		seen := map[string]bool{}
		for i := 0; i < n; i++ {
			name := rapid.SampledFrom(stems).Draw(rt, "stem") + rapid.SampledFrom(exts).Draw(rt, "ext")
			rel := fmt.Sprintf("K/%s", name)
			if seen[rel] {
				continue
			}
			seen[rel] = true
			files = append(files, entry(rel, model.DocAnnex, "", baseTime))
		}
		threshold := rapid.IntRange(0, 100).Draw(rt, "threshold")
		scores := rapid.SliceOfN(rapid.IntRange(0, 100), 64, 64).Draw(rt, "scores")
		call := 0
		scorer := ScorerFunc(func(string, string) int {
			s := scores[call%len(scores)]
			call++
			return s
		})

		out := DedupFuzzy(DedupExact(files), scorer, threshold)
		got := byRelativePath(out)
		require.Len(rt, out, len(files))

		for _, f := range out {
			if f.Status != model.FileDuplicateSkipped {
				if f.DuplicateOf != "" {
					rt.Fatalf("%s is %s but has duplicate_of", f.RelativePath, f.Status)
				}
				continue
			}
			target, ok := got[f.DuplicateOf]
			if !ok {
				rt.Fatalf("%s points at unknown %q", f.RelativePath, f.DuplicateOf)
			}
			if target.Status == model.FileDuplicateSkipped {
				rt.Fatalf("%s points at duplicate %s", f.RelativePath, target.RelativePath)
			}
		}
	})
}
