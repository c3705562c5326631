package inventory

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Veraticus/aneks/internal/model"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// writeFile creates path (and parents) under root with content.
func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

// entry builds a selected FileEntry the way the scanner would.
func entry(rel string, doc model.DocType, number string, mtime time.Time) model.FileEntry {
	name := filepath.Base(rel)
	return model.FileEntry{
		Filename:       name,
		RelativePath:   rel,
		Extension:      filepath.Ext(name),
		DocType:        doc,
		Status:         model.FileSelected,
		ContractNumber: number,
		SizeBytes:      1024,
		ModifiedAt:     &mtime,
	}
}

func byRelativePath(files []model.FileEntry) map[string]model.FileEntry {
	m := make(map[string]model.FileEntry, len(files))
	for _, f := range files {
		m[f.RelativePath] = f
	}
	return m
}

// readTree returns relative path → content for every file under root.
func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	tree := map[string]string{}
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		tree[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return tree
}
