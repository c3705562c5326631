package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/Veraticus/aneks/internal/model"
)

// TextExtractor reads the plain text of a document.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// PricingRequest is what the pricing extractor receives for one client.
type PricingRequest struct {
	ClientName   string
	FolderName   string
	DocumentPath string // absolute path of the latest valid document
	Text         string
}

// PricingExtractor turns a client's latest document into structured pricing.
// The result is opaque to the inventory builder.
type PricingExtractor interface {
	ExtractPricing(ctx context.Context, req PricingRequest) (json.RawMessage, error)
}

// ClientExtraction is the outcome of extraction for one client.
type ClientExtraction struct {
	ExtractedAt time.Time       `json:"extracted_at"`
	FolderName  string          `json:"folder_name"`
	SourceFile  string          `json:"source_file"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// ExtractionTargets returns the clients extraction applies to: status ok or
// flagged with a latest valid document. A non-empty only restricts the result
// to those folder names; names not found are returned separately.
func ExtractionTargets(inv *model.Inventory, only []string) (targets []model.ClientEntry, missing []string) {
	for _, c := range inv.Clients {
		if c.Status != model.ClientOK && c.Status != model.ClientFlagged {
			continue
		}
		if c.DocumentChain.LatestValidDocument == "" {
			continue
		}
		if len(only) > 0 && !slices.Contains(only, c.FolderName) {
			continue
		}
		targets = append(targets, c)
	}

	for _, name := range only {
		if !slices.ContainsFunc(targets, func(c model.ClientEntry) bool { return c.FolderName == name }) {
			missing = append(missing, name)
		}
	}
	return targets, missing
}

// Extract runs the collaborators over every target client. A failure is
// recorded on that client's extraction and does not stop the others.
func Extract(ctx context.Context, workingCopy string, targets []model.ClientEntry, text TextExtractor, pricing PricingExtractor, now func() time.Time) ([]ClientExtraction, error) {
	if now == nil {
		now = time.Now
	}

	out := make([]ClientExtraction, 0, len(targets))
	for _, c := range targets {
		if err := ctx.Err(); err != nil {
			return out, fmt.Errorf("extraction cancelled: %w", err)
		}

		rel := c.DocumentChain.LatestValidDocument
		ex := ClientExtraction{FolderName: c.FolderName, SourceFile: rel}
		docPath := filepath.Join(workingCopy, filepath.FromSlash(rel))

		body, err := text.ExtractText(ctx, docPath)
		if err == nil {
			ex.Result, err = pricing.ExtractPricing(ctx, PricingRequest{
				ClientName:   c.ClientName,
				FolderName:   c.FolderName,
				DocumentPath: docPath,
				Text:         body,
			})
		}
		if err != nil {
			ex.Error = err.Error()
		}
		ex.ExtractedAt = now()
		out = append(out, ex)
	}
	return out, nil
}
