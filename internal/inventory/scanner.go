package inventory

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Veraticus/aneks/internal/classification"
	"github.com/Veraticus/aneks/internal/common"
	"github.com/Veraticus/aneks/internal/model"
)

// Scanner walks a client folder and produces classified file entries.
type Scanner struct {
	classifier *classification.Classifier
	logger     *slog.Logger
}

// NewScanner creates a scanner. A nil classifier uses the default rules.
func NewScanner(classifier *classification.Classifier, logger *slog.Logger) *Scanner {
	if classifier == nil {
		classifier = classification.Default()
	}
	return &Scanner{
		classifier: classifier,
		logger:     common.LoggerOrDefault(logger),
	}
}

// Scan recursively lists the files under folder. Relative paths are taken
// against base and use forward slashes. Junk files are skipped; unreadable
// subdirectories are logged and skipped. An error is returned only when
// folder itself cannot be walked.
func (s *Scanner) Scan(folder, base string) ([]model.FileEntry, error) {
	var files []model.FileEntry

	err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == folder {
				return walkErr
			}
			s.logger.Warn("Skipping unreadable path", "path", path, "error", walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != folder && IsJunk(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsJunk(d.Name()) {
			return nil
		}
		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}

		rel, err := filepath.Rel(base, path)
		if err != nil {
			return fmt.Errorf("failed to relativise %s: %w", path, err)
		}

		files = append(files, s.entry(d, filepath.ToSlash(rel)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", folder, err)
	}

	slices.SortFunc(files, func(a, b model.FileEntry) int {
		return strings.Compare(a.RelativePath, b.RelativePath)
	})
	return files, nil
}

func (s *Scanner) entry(d fs.DirEntry, rel string) model.FileEntry {
	name := d.Name()
	ext := strings.ToLower(filepath.Ext(name))

	entry := model.FileEntry{
		Filename:       name,
		RelativePath:   rel,
		Extension:      ext,
		DocType:        s.classifier.Classify(name, ext),
		ContractNumber: classification.ExtractContractNumber(name),
	}

	info, err := d.Info()
	if err != nil {
		s.logger.Warn("Failed to stat file", "path", rel, "error", err)
	} else {
		entry.SizeBytes = info.Size()
		mtime := info.ModTime()
		entry.ModifiedAt = &mtime
	}

	entry.Status = initialStatus(entry)
	return entry
}

// initialStatus assigns the pre-deduplication status. Emptiness wins over
// classification.
func initialStatus(f model.FileEntry) model.FileStatus {
	switch {
	case f.SizeBytes == 0:
		return model.FileEmpty
	case f.DocType == model.DocIrrelevant || !classification.IsSupportedExtension(f.Extension):
		return model.FileIrrelevant
	default:
		return model.FileSelected
	}
}
