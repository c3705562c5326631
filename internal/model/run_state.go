package model

import "time"

// PhaseStatus is the lifecycle status of a pipeline phase.
type PhaseStatus string

// Phase statuses.
const (
	PhasePending   PhaseStatus = "pending"
	PhaseRunning   PhaseStatus = "running"
	PhaseCompleted PhaseStatus = "completed"
	PhaseFailed    PhaseStatus = "failed"
)

// Pipeline phase names.
const (
	PhaseSetup      = "setup"
	PhaseExtraction = "extraction"
	PhaseGeneration = "generation"
)

// PhaseState is the recorded state of a single phase.
type PhaseState struct {
	StartedAt   *time.Time
	CompletedAt *time.Time
	Name        string
	Status      PhaseStatus
	Error       string
}

// RunState is the state of one pipeline execution cycle.
type RunState struct {
	CreatedAt time.Time
	ID        string
	Phases    []PhaseState
}

// Phase returns the state of the named phase, if recorded.
func (r *RunState) Phase(name string) (PhaseState, bool) {
	for _, p := range r.Phases {
		if p.Name == name {
			return p, true
		}
	}
	return PhaseState{}, false
}

// RunIDFor returns the default run ID for t: the monthly cycle "YYYY-MM".
func RunIDFor(t time.Time) string {
	return t.Format("2006-01")
}

// Valid reports whether s is a known phase status.
func (s PhaseStatus) Valid() bool {
	switch s {
	case PhasePending, PhaseRunning, PhaseCompleted, PhaseFailed:
		return true
	}
	return false
}

// InventorySummary is the headline numbers of one saved inventory.
type InventorySummary struct {
	CreatedAt     time.Time
	StatusCounts  map[ClientStatus]int
	RunID         string
	InventoryPath string
	TotalClients  int
	WithContracts int
	WithAnnexes   int
	Flagged       int
}

// Summarize computes the summary of inv.
func Summarize(runID, path string, inv *Inventory) InventorySummary {
	return InventorySummary{
		CreatedAt:     inv.CreatedAt,
		StatusCounts:  inv.StatusCounts(),
		RunID:         runID,
		InventoryPath: path,
		TotalClients:  inv.TotalClients(),
		WithContracts: inv.ClientsWithContracts(),
		WithAnnexes:   inv.ClientsWithAnnexes(),
		Flagged:       len(inv.FlaggedClients()),
	}
}
