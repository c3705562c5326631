package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInventory() *Inventory {
	return &Inventory{
		CreatedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		Clients: []ClientEntry{
			{
				ClientName: "Alfa",
				FolderName: "Alfa",
				Status:     ClientOK,
				Files: []FileEntry{
					{RelativePath: "Alfa/Ugovor.docx", DocType: DocMaintenanceContract, Status: FileSelected},
					{RelativePath: "Alfa/Aneks.docx", DocType: DocAnnex, Status: FileSelected},
					{RelativePath: "Alfa/Aneks (1).docx", DocType: DocAnnex, Status: FileDuplicateSkipped, DuplicateOf: "Alfa/Aneks.docx"},
				},
				Flags: []string{},
			},
			{
				ClientName: "Beta",
				FolderName: "Beta",
				Status:     ClientOK,
				Files: []FileEntry{
					{RelativePath: "Beta/Ponuda.pdf", DocType: DocOffer, Status: FileSelected},
				},
				Flags: []string{FlagNoMaintenanceContract},
			},
			{
				ClientName: "Gama",
				FolderName: "Gama",
				Status:     ClientEmpty,
				Flags:      []string{},
			},
		},
	}
}

func TestClientEntry_Helpers(t *testing.T) {
	alfa := sampleInventory().Clients[0]

	assert.Len(t, alfa.SelectedFiles(), 2)
	assert.True(t, alfa.HasMaintenanceContract())
	assert.True(t, alfa.HasAnnexes())
	assert.False(t, alfa.HasSelected(DocTermination))
	assert.False(t, alfa.HasFlag(FlagHasTermination))

	beta := sampleInventory().Clients[1]
	assert.False(t, beta.HasMaintenanceContract())
	assert.True(t, beta.HasFlag(FlagNoMaintenanceContract))
}

func TestClientEntry_DuplicateAnnexIsNotCounted(t *testing.T) {
	c := ClientEntry{Files: []FileEntry{
		{DocType: DocAnnex, Status: FileDuplicateSkipped},
	}}
	assert.False(t, c.HasAnnexes())
	assert.Empty(t, c.SelectedFiles())
}

func TestInventory_Counts(t *testing.T) {
	inv := sampleInventory()

	assert.Equal(t, 3, inv.TotalClients())
	assert.Equal(t, 1, inv.ClientsWithContracts())
	assert.Equal(t, 1, inv.ClientsWithAnnexes())

	flagged := inv.FlaggedClients()
	require.Len(t, flagged, 2)
	assert.Equal(t, "Beta", flagged[0].ClientName)
	assert.Equal(t, "Gama", flagged[1].ClientName)

	assert.Equal(t, map[ClientStatus]int{ClientOK: 2, ClientEmpty: 1}, inv.StatusCounts())
}

func TestInventory_FindClient(t *testing.T) {
	inv := sampleInventory()

	c, ok := inv.FindClient("Beta")
	require.True(t, ok)
	assert.Equal(t, "Beta", c.ClientName)

	_, ok = inv.FindClient("Delta")
	assert.False(t, ok)
}

func TestDocumentChain_Roles(t *testing.T) {
	chain := DocumentChain{
		MainContract:        "A/Ugovor.docx",
		Annexes:             []string{"A/Aneks 1.docx", "A/Aneks 2.docx"},
		LatestValidDocument: "A/Aneks 2.docx",
	}

	tests := []struct {
		path string
		want []string
	}{
		{"A/Ugovor.docx", []string{RoleMainContract}},
		{"A/Aneks 1.docx", []string{RoleAnnex}},
		{"A/Aneks 2.docx", []string{RoleAnnex, RoleLatestValid}},
		{"A/Ponuda.pdf", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, chain.Roles(tt.path))
		})
	}

	only := DocumentChain{MainContract: "B/Ugovor.docx", LatestValidDocument: "B/Ugovor.docx"}
	assert.Equal(t, []string{RoleMainContract, RoleLatestValid}, only.Roles("B/Ugovor.docx"))
}

func TestSummarize(t *testing.T) {
	inv := sampleInventory()
	s := Summarize("2025-03", "/data/inventory.json", inv)

	assert.Equal(t, "2025-03", s.RunID)
	assert.Equal(t, "/data/inventory.json", s.InventoryPath)
	assert.Equal(t, inv.CreatedAt, s.CreatedAt)
	assert.Equal(t, 3, s.TotalClients)
	assert.Equal(t, 1, s.WithContracts)
	assert.Equal(t, 1, s.WithAnnexes)
	assert.Equal(t, 2, s.Flagged)
	assert.Equal(t, 2, s.StatusCounts[ClientOK])
}

func TestRunState(t *testing.T) {
	assert.Equal(t, "2025-03", RunIDFor(time.Date(2025, 3, 31, 23, 59, 0, 0, time.UTC)))

	run := &RunState{ID: "2025-03", Phases: []PhaseState{
		{Name: PhaseSetup, Status: PhaseCompleted},
		{Name: PhaseExtraction, Status: PhasePending},
	}}
	p, ok := run.Phase(PhaseSetup)
	require.True(t, ok)
	assert.Equal(t, PhaseCompleted, p.Status)

	_, ok = run.Phase(PhaseGeneration)
	assert.False(t, ok)

	assert.True(t, PhaseFailed.Valid())
	assert.False(t, PhaseStatus("paused").Valid())
}

func TestInventory_JSONShape(t *testing.T) {
	data, err := json.Marshal(sampleInventory().Clients[0])
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"client_name", "folder_name", "folder_path", "status", "files", "flags", "document_chain"} {
		assert.Contains(t, raw, key)
	}

	files, ok := raw["files"].([]any)
	require.True(t, ok)
	dup, ok := files[2].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "duplicate_skipped", dup["status"])
	assert.Equal(t, "Alfa/Aneks.docx", dup["duplicate_of"])
	assert.NotContains(t, dup, "modified_date")
}
