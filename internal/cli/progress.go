package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"

	"github.com/Veraticus/aneks/internal/inventory"
)

var stageDescriptions = map[string]string{
	inventory.StageCopy:     "[cyan][bold]Copying source tree...[reset]",
	inventory.StageDiscover: "[cyan][bold]Scanning clients...[reset]",
}

// ProgressReporter draws one progress bar per pipeline stage.
type ProgressReporter struct {
	writer io.Writer
	bar    *progressbar.ProgressBar
	stage  string
}

// NewProgressReporter creates a reporter writing to w.
func NewProgressReporter(w io.Writer) *ProgressReporter {
	return &ProgressReporter{writer: w}
}

// Func adapts the reporter to inventory.ProgressFunc.
func (r *ProgressReporter) Func() inventory.ProgressFunc {
	return r.Report
}

// Report advances the bar of p.Stage, starting a new bar when the stage changes.
func (r *ProgressReporter) Report(p inventory.Progress) {
	if r.bar == nil || r.stage != p.Stage {
		r.Finish()
		r.stage = p.Stage
		r.bar = r.newBar(p)
	}
	if err := r.bar.Set(p.Current); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// Finish completes the current bar, if any.
func (r *ProgressReporter) Finish() {
	if r.bar == nil {
		return
	}
	if err := r.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
	r.bar = nil
}

func (r *ProgressReporter) newBar(p inventory.Progress) *progressbar.ProgressBar {
	desc, ok := stageDescriptions[p.Stage]
	if !ok {
		desc = p.Stage
	}
	return progressbar.NewOptions(p.Total,
		progressbar.OptionSetWriter(r.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(r.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
