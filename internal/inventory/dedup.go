package inventory

import (
	"path"
	"slices"

	"github.com/Veraticus/aneks/internal/model"
)

// DedupExact marks byte-format duplicates: selected files in the same
// directory whose normalized stems are equal. The best format in each group
// stays selected; the rest point to it. Files in different directories are
// never merged. The input slice is not modified.
func DedupExact(files []model.FileEntry) []model.FileEntry {
	out := slices.Clone(files)

	type groupKey struct {
		dir  string
		stem string
	}
	groups := make(map[groupKey][]int)
	var order []groupKey

	for i, f := range out {
		if !f.IsSelected() {
			continue
		}
		key := groupKey{dir: path.Dir(f.RelativePath), stem: NormalizeStem(f.Filename)}
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
		slices.SortStableFunc(members, func(a, b int) int {
			return compareFormat(out[a], out[b])
		})
		keep := out[members[0]].RelativePath
		for _, idx := range members[1:] {
			markDuplicate(&out[idx], keep)
		}
	}

	return out
}

func markDuplicate(f *model.FileEntry, of string) {
	f.Status = model.FileDuplicateSkipped
	f.DuplicateOf = of
}

// resolveDuplicateTargets rewrites duplicate_of so that it always names a
// file that is not itself a duplicate.
func resolveDuplicateTargets(files []model.FileEntry) {
	byPath := make(map[string]int, len(files))
	for i, f := range files {
		byPath[f.RelativePath] = i
	}

	for i := range files {
		if files[i].Status != model.FileDuplicateSkipped {
			continue
		}
		target := files[i].DuplicateOf
		for hops := 0; hops < len(files); hops++ {
			idx, ok := byPath[target]
			if !ok || files[idx].Status != model.FileDuplicateSkipped {
				break
			}
			target = files[idx].DuplicateOf
		}
		files[i].DuplicateOf = target
	}
}
