package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/aneks/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidPhase   = errors.New("invalid phase")
	ErrInvalidSummary = errors.New("invalid inventory summary")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validatePhaseName ensures a phase name is usable as a key.
func validatePhaseName(name string) error {
	if err := validateString(name, "phase"); err != nil {
		return err
	}
	if strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("%w: name %q contains whitespace", ErrInvalidPhase, name)
	}
	return nil
}

// validateSummary validates an inventory summary before it is recorded.
func validateSummary(summary *model.InventorySummary) error {
	if summary == nil {
		return fmt.Errorf("%w: summary", ErrNilParameter)
	}
	if err := validateString(summary.RunID, "runID"); err != nil {
		return err
	}
	if summary.TotalClients < 0 || summary.Flagged < 0 ||
		summary.WithContracts < 0 || summary.WithAnnexes < 0 {
		return fmt.Errorf("%w: negative count", ErrInvalidSummary)
	}
	if summary.Flagged > summary.TotalClients {
		return fmt.Errorf("%w: %d flagged of %d clients", ErrInvalidSummary, summary.Flagged, summary.TotalClients)
	}
	return nil
}
