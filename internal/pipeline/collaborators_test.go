package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/aneks/internal/model"
)

type stubText map[string]string

func (s stubText) ExtractText(_ context.Context, path string) (string, error) {
	text, ok := s[filepath.Base(path)]
	if !ok {
		return "", errors.New("unreadable")
	}
	return text, nil
}

type stubPricing struct {
	requests []PricingRequest
}

func (s *stubPricing) ExtractPricing(_ context.Context, req PricingRequest) (json.RawMessage, error) {
	s.requests = append(s.requests, req)
	return json.RawMessage(`{"items":1}`), nil
}

func extractionInventory() *model.Inventory {
	client := func(folder string, status model.ClientStatus, latest string) model.ClientEntry {
		return model.ClientEntry{
			ClientName:    folder,
			FolderName:    folder,
			Status:        status,
			DocumentChain: model.DocumentChain{LatestValidDocument: latest, Annexes: []string{}},
		}
	}
	return &model.Inventory{Clients: []model.ClientEntry{
		client("Alfa", model.ClientOK, "Alfa/Aneks U-24-01.docx"),
		client("Beta", model.ClientTerminated, "Beta/Ugovor.docx"),
		client("Gama", model.ClientFlagged, "Gama/Ugovor.docx"),
		client("Delta", model.ClientNoContract, ""),
		client("Eta", model.ClientOK, ""),
		client("Zeta", model.ClientOK, "Zeta/Sken.pdf"),
	}}
}

func TestExtractionTargets(t *testing.T) {
	targets, missing := ExtractionTargets(extractionInventory(), nil)
	names := make([]string, 0, len(targets))
	for _, c := range targets {
		names = append(names, c.FolderName)
	}
	assert.Equal(t, []string{"Alfa", "Gama", "Zeta"}, names)
	assert.Empty(t, missing)

	targets, missing = ExtractionTargets(extractionInventory(), []string{"Gama", "Beta", "Nepoznat"})
	require.Len(t, targets, 1)
	assert.Equal(t, "Gama", targets[0].FolderName)
	assert.Equal(t, []string{"Beta", "Nepoznat"}, missing)
}

func TestExtract(t *testing.T) {
	targets, _ := ExtractionTargets(extractionInventory(), nil)
	text := stubText{"Aneks U-24-01.docx": "cijena 100 EUR", "Ugovor.docx": "ugovor"}
	pricing := &stubPricing{}
	at := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	out, err := Extract(context.Background(), "/work/source", targets, text, pricing, func() time.Time { return at })
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "Alfa", out[0].FolderName)
	assert.JSONEq(t, `{"items":1}`, string(out[0].Result))
	assert.Empty(t, out[0].Error)
	assert.True(t, out[0].ExtractedAt.Equal(at))

	assert.Equal(t, "Zeta", out[2].FolderName)
	assert.Equal(t, "unreadable", out[2].Error)
	assert.Nil(t, out[2].Result)

	require.Len(t, pricing.requests, 2)
	assert.Equal(t, filepath.Join("/work/source", "Alfa", "Aneks U-24-01.docx"), pricing.requests[0].DocumentPath)
	assert.Equal(t, "cijena 100 EUR", pricing.requests[0].Text)
}

func TestExtract_Cancelled(t *testing.T) {
	targets, _ := ExtractionTargets(extractionInventory(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := Extract(ctx, "/work/source", targets, stubText{}, &stubPricing{}, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out)
}
