package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Veraticus/aneks/internal/classification"
	"github.com/Veraticus/aneks/internal/common"
	"github.com/Veraticus/aneks/internal/model"
)

// DiscoverOptions configures a Discoverer.
type DiscoverOptions struct {
	Classifier *classification.Classifier
	Logger     *slog.Logger
	Scorer     Scorer // nil disables fuzzy deduplication
	Progress   ProgressFunc
	Threshold  int // fuzzy threshold; 0 means DefaultFuzzyThreshold
}

// Discoverer turns a working copy into client entries.
type Discoverer struct {
	scan      func(folder, base string) ([]model.FileEntry, error)
	logger    *slog.Logger
	scorer    Scorer
	progress  ProgressFunc
	threshold int
}

// NewDiscoverer creates a discoverer.
func NewDiscoverer(opts DiscoverOptions) *Discoverer {
	logger := common.LoggerOrDefault(opts.Logger)
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	return &Discoverer{
		scan:      NewScanner(opts.Classifier, logger).Scan,
		logger:    logger,
		scorer:    opts.Scorer,
		progress:  opts.Progress,
		threshold: threshold,
	}
}

// DiscoverClients builds one entry per immediate subdirectory of root, in
// case-insensitive name order. A failure inside one client is recorded on
// that client and does not stop discovery. Cancellation is honoured between
// clients.
func (d *Discoverer) DiscoverClients(ctx context.Context, root string) ([]model.ClientEntry, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read working copy %s: %w", root, err)
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() && !IsJunk(e.Name()) {
			dirs = append(dirs, e.Name())
		}
	}
	slices.SortFunc(dirs, func(a, b string) int {
		if c := strings.Compare(common.FoldCase(a), common.FoldCase(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	virtual, err := readVirtualManifest(root)
	if err != nil {
		d.logger.Warn("Ignoring unreadable virtual folder manifest", "error", err)
	}

	clients := make([]model.ClientEntry, 0, len(dirs))
	for i, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}
		d.progress.report(Progress{Stage: StageDiscover, Item: dir, Current: i + 1, Total: len(dirs)})

		client := d.discoverClient(root, dir, virtual)
		d.logger.Debug("Discovered client",
			"client", client.ClientName,
			"status", client.Status,
			"files", len(client.Files),
			"flags", client.Flags)
		clients = append(clients, client)
	}

	return clients, nil
}

func (d *Discoverer) discoverClient(root, dir string, virtual map[string]bool) (client model.ClientEntry) {
	name := common.NFC(dir)
	client = model.ClientEntry{
		ClientName:    name,
		FolderName:    name,
		FolderPath:    dir,
		Status:        model.ClientOK,
		Files:         []model.FileEntry{},
		Flags:         []string{},
		DocumentChain: model.DocumentChain{Annexes: []string{}},
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Client processing panicked", "client", name, "panic", r)
			client = scanFailed(client)
		}
	}()

	files, err := d.scan(filepath.Join(root, dir), root)
	if err != nil {
		d.logger.Error("Failed to scan client", "client", name, "error", err)
		return scanFailed(client)
	}

	files = DedupExact(files)
	files = DedupFuzzy(files, d.scorer, d.threshold)
	if files == nil {
		files = []model.FileEntry{}
	}
	client.Files = files

	client.Status, client.Flags = deriveStatus(files, isVirtualFolder(root, dir, virtual))
	client.DocumentChain = BuildChain(files)
	return client
}

func scanFailed(client model.ClientEntry) model.ClientEntry {
	client.Status = model.ClientFlagged
	client.Flags = []string{model.FlagScanError}
	client.DocumentChain = model.DocumentChain{Annexes: []string{}}
	if client.Files == nil {
		client.Files = []model.FileEntry{}
	}
	return client
}

// deriveStatus applies the client status and flag rules to a deduplicated
// file list.
func deriveStatus(files []model.FileEntry, virtual bool) (model.ClientStatus, []string) {
	status := model.ClientOK
	flags := []string{}

	var selected []model.FileEntry
	hasSupported := false
	for _, f := range files {
		if f.IsSelected() {
			selected = append(selected, f)
		}
		if classification.IsSupportedExtension(f.Extension) {
			hasSupported = true
		}
	}

	switch {
	case len(files) == 0:
		status = model.ClientEmpty
	case len(selected) == 0:
		status = model.ClientNoContract
		if !hasSupported {
			flags = append(flags, model.FlagNoParseableFiles)
		}
	}

	hasTermination := false
	hasMaintenance := false
	nested := false
	for _, f := range selected {
		switch f.DocType {
		case model.DocTermination:
			hasTermination = true
		case model.DocMaintenanceContract:
			hasMaintenance = true
		}
		// "Client/file.docx" lives directly in the client folder.
		if strings.Count(path.Clean(f.RelativePath), "/") > 1 {
			nested = true
		}
	}

	if hasTermination {
		status = model.ClientTerminated
		flags = append(flags, model.FlagHasTermination)
	}
	if nested {
		flags = append(flags, model.FlagFilesInSubdirectories)
	}
	if virtual {
		flags = append(flags, model.FlagVirtualFolder)
	}
	if len(selected) > 0 && !hasMaintenance && status == model.ClientOK {
		flags = append(flags, model.FlagNoMaintenanceContract)
	}

	if len(flags) > 0 && status == model.ClientOK {
		status = model.ClientFlagged
	}
	return status, flags
}

// isVirtualFolder reports whether dir stands for a loose document at the
// root, either still present next to it or recorded by CopyTree.
func isVirtualFolder(root, dir string, manifest map[string]bool) bool {
	if manifest[dir] || manifest[common.NFC(dir)] {
		return true
	}
	for _, ext := range []string{classification.ExtDOCX, classification.ExtDOC, classification.ExtPDF} {
		info, err := os.Stat(filepath.Join(root, dir+ext))
		if err == nil && info.Mode().IsRegular() {
			return true
		}
	}
	return false
}
