package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Veraticus/aneks/internal/classification"
	"github.com/Veraticus/aneks/internal/common"
)

// VirtualManifestName lists the client folders CopyTree created from loose
// files at the source root.
const VirtualManifestName = ".aneks-virtual.json"

// virtualPrefixes are stripped from a loose file's stem to get the client
// name. Longer prefixes come first.
var virtualPrefixes = []string{
	"ugovor o održavanju ",
	"ugovor o servisiranju ",
	"ugovor o pružanju usluga ",
	"ugovor ",
}

// copyFileFunc copies a single file; tests replace it to inject failures.
var copyFileFunc = copyFile

// CopyOptions configures CopyTree.
type CopyOptions struct {
	Logger   *slog.Logger
	Progress ProgressFunc
	Force    bool // replace an existing destination
}

// CopyResult summarises a CopyTree run.
type CopyResult struct {
	VirtualFolders []string
	Copied         int
	Skipped        int
}

type virtualManifest struct {
	CreatedAt time.Time `json:"created_at"`
	Folders   []string  `json:"virtual_folders"`
}

// CheckCopy reports whether CopyTree could run without changing anything:
// source must be a directory, and an existing dest or a leftover backup
// needs force. It returns whether dest exists.
func CheckCopy(source, dest string, force bool) (bool, error) {
	info, err := os.Stat(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("%w: %s", common.ErrSourceNotFound, source)
		}
		return false, fmt.Errorf("failed to stat source %s: %w", source, err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("%w: %s", common.ErrSourceNotDirectory, source)
	}

	if !force {
		backup := backupPath(dest)
		leftover, err := pathExists(backup)
		if err != nil {
			return false, err
		}
		if leftover {
			return false, fmt.Errorf("%w: %s", common.ErrInterruptedCopy, backup)
		}
	}

	destExists, err := pathExists(dest)
	if err != nil {
		return false, err
	}
	if destExists && !force {
		return true, fmt.Errorf("%w: %s", common.ErrDestinationExists, dest)
	}
	return destExists, nil
}

// CopyTree copies the source archive into dest, never touching source.
// Loose documents at the source root get a folder of their own. With Force
// an existing dest is moved aside first and restored if the copy fails, so
// dest is either the old tree or the complete new one.
//
// A leftover backup from a killed forced copy is only restored with Force;
// without it CopyTree fails with ErrInterruptedCopy before changing anything.
func CopyTree(source, dest string, opts CopyOptions) (result CopyResult, err error) {
	logger := common.LoggerOrDefault(opts.Logger)

	if _, err = CheckCopy(source, dest, opts.Force); err != nil {
		return result, err
	}
	backup := backupPath(dest)

	if _, err := RecoverInterruptedCopy(dest, logger); err != nil {
		return result, err
	}
	removeTrash(dest, logger)
	destExists, err := pathExists(dest)
	if err != nil {
		return result, err
	}

	backedUp := false
	created := false

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("copy panicked: %v", r)
		}
		if err == nil {
			if backedUp {
				// Once renamed, a leftover backup always means an unfinished copy.
				if mvErr := os.Rename(backup, trashPath(dest)); mvErr != nil {
					logger.Warn("Failed to retire backup", "path", backup, "error", mvErr)
					return
				}
				removeTrash(dest, logger)
			}
			return
		}

		logger.Error("Copy failed, rolling back", "dest", dest, "error", err)
		if created {
			if rmErr := os.RemoveAll(dest); rmErr != nil {
				err = errors.Join(err, fmt.Errorf("failed to remove partial copy: %w", rmErr))
				return
			}
		}
		if backedUp {
			if mvErr := os.Rename(backup, dest); mvErr != nil {
				err = errors.Join(err, fmt.Errorf("failed to restore backup: %w", mvErr))
			}
		}
		result = CopyResult{}
	}()

	if destExists {
		if err = os.Rename(dest, backup); err != nil {
			return result, fmt.Errorf("failed to move %s aside: %w", dest, err)
		}
		backedUp = true
		logger.Info("Moved existing working copy aside", "backup", backup)
	}

	if err = os.MkdirAll(dest, 0o750); err != nil {
		return result, fmt.Errorf("failed to create %s: %w", dest, err)
	}
	created = true

	entries, err := os.ReadDir(source)
	if err != nil {
		return result, fmt.Errorf("failed to read source %s: %w", source, err)
	}

	for i, e := range entries {
		opts.Progress.report(Progress{Stage: StageCopy, Item: e.Name(), Current: i + 1, Total: len(entries)})

		srcPath := filepath.Join(source, e.Name())
		switch {
		case IsJunk(e.Name()):
			result.Skipped++
		case e.IsDir():
			copied, skipped, cerr := copyDir(srcPath, filepath.Join(dest, e.Name()), logger)
			result.Copied += copied
			result.Skipped += skipped
			if cerr != nil {
				err = cerr
				return result, err
			}
		case e.Type().IsRegular() && classification.IsSupportedExtension(filepath.Ext(e.Name())):
			folder := VirtualFolderName(e.Name())
			if folder == "" {
				logger.Warn("Skipping loose file without a usable client name", "file", e.Name())
				result.Skipped++
				continue
			}
			if err = os.MkdirAll(filepath.Join(dest, folder), 0o750); err != nil {
				return result, fmt.Errorf("failed to create virtual folder %s: %w", folder, err)
			}
			if err = copyFileFunc(srcPath, filepath.Join(dest, folder, e.Name())); err != nil {
				return result, fmt.Errorf("failed to copy %s: %w", srcPath, err)
			}
			result.Copied++
			if !slices.Contains(result.VirtualFolders, folder) {
				result.VirtualFolders = append(result.VirtualFolders, folder)
			}
			logger.Debug("Created virtual folder", "file", e.Name(), "folder", folder)
		default:
			result.Skipped++
		}
	}

	if err = writeVirtualManifest(dest, result.VirtualFolders); err != nil {
		return result, err
	}

	logger.Info("Copied source tree",
		"source", source,
		"dest", dest,
		"copied", result.Copied,
		"skipped", result.Skipped,
		"virtual_folders", len(result.VirtualFolders))
	return result, nil
}

// RecoverInterruptedCopy restores dest from a backup left behind by a copy
// that was killed before it could roll back. It reports whether a backup was
// restored.
func RecoverInterruptedCopy(dest string, logger *slog.Logger) (bool, error) {
	backup := backupPath(dest)
	exists, err := pathExists(backup)
	if err != nil || !exists {
		return false, err
	}

	common.LoggerOrDefault(logger).Warn("Restoring working copy from interrupted run", "backup", backup, "dest", dest)
	if err := os.RemoveAll(dest); err != nil {
		return false, fmt.Errorf("failed to remove interrupted copy %s: %w", dest, err)
	}
	if err := os.Rename(backup, dest); err != nil {
		return false, fmt.Errorf("failed to restore backup %s: %w", backup, err)
	}
	return true, nil
}

// VirtualFolderName derives a client folder name from a loose document
// filename by removing the extension and a leading contract phrase. It
// returns "" when the result cannot name a folder inside the working copy.
func VirtualFolderName(filename string) string {
	name := virtualFolderName(filename)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return ""
	}
	return name
}

func virtualFolderName(filename string) string {
	stem := common.NFC(strings.TrimSuffix(filename, filepath.Ext(filename)))
	lower := strings.ToLower(stem)

	for _, prefix := range virtualPrefixes {
		if !strings.HasPrefix(lower, prefix) {
			continue
		}
		runes := []rune(stem)
		n := len([]rune(prefix))
		if n > len(runes) {
			break
		}
		if name := strings.TrimSpace(string(runes[n:])); name != "" {
			return name
		}
		break
	}
	return strings.TrimSpace(stem)
}

func backupPath(dest string) string {
	clean := filepath.Clean(dest)
	return filepath.Join(filepath.Dir(clean), filepath.Base(clean)+"_backup")
}

// trashPath is where a superseded backup goes before it is deleted.
func trashPath(dest string) string {
	return backupPath(dest) + ".deleting"
}

// removeTrash deletes a retired backup. Failures only leave disk garbage.
func removeTrash(dest string, logger *slog.Logger) {
	trash := trashPath(dest)
	if err := os.RemoveAll(trash); err != nil {
		logger.Warn("Failed to remove old working copy", "path", trash, "error", err)
	}
}

func pathExists(p string) (bool, error) {
	_, err := os.Stat(p)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", p, err)
}

func copyDir(src, dst string, logger *slog.Logger) (copied, skipped int, err error) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to stat %s: %w", src, err)
	}
	if err := os.MkdirAll(dst, info.Mode().Perm()|0o700); err != nil {
		return 0, 0, fmt.Errorf("failed to create %s: %w", dst, err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read %s: %w", src, err)
	}

	for _, e := range entries {
		if IsJunk(e.Name()) {
			skipped++
			continue
		}
		s := filepath.Join(src, e.Name())
		d := filepath.Join(dst, e.Name())

		if e.IsDir() {
			c, k, err := copyDir(s, d, logger)
			copied += c
			skipped += k
			if err != nil {
				return copied, skipped, err
			}
			continue
		}
		if !e.Type().IsRegular() {
			skipped++
			continue
		}
		if err := copyFileFunc(s, d); err != nil {
			return copied, skipped, fmt.Errorf("failed to copy %s: %w", s, err)
		}
		copied++
	}

	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		logger.Debug("Failed to preserve directory time", "path", dst, "error", err)
	}
	return copied, skipped, nil
}

// copyFile copies content, permissions and modification time.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm()|0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

func writeVirtualManifest(dest string, folders []string) error {
	manifest := virtualManifest{
		CreatedAt: time.Now().UTC(),
		Folders:   folders,
	}
	if manifest.Folders == nil {
		manifest.Folders = []string{}
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode virtual folder manifest: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(dest, VirtualManifestName), data); err != nil {
		return fmt.Errorf("failed to write virtual folder manifest: %w", err)
	}
	return nil
}

func readVirtualManifest(root string) (map[string]bool, error) {
	data, err := os.ReadFile(filepath.Join(root, VirtualManifestName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]bool{}, nil
		}
		return map[string]bool{}, err
	}

	var manifest virtualManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return map[string]bool{}, err
	}

	set := make(map[string]bool, len(manifest.Folders))
	for _, f := range manifest.Folders {
		set[f] = true
	}
	return set, nil
}
