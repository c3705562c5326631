package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/aneks/internal/model"
)

// New creates the browser model for inv.
func New(inv *model.Inventory, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newModel(inv, cfg)
}

// Run shows the browser until the user quits or ctx is canceled. A canceled
// ctx is not an error.
func Run(ctx context.Context, inv *model.Inventory, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	_, err := tea.NewProgram(newModel(inv, cfg), programOpts...).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("inventory browser: %w", err)
	}
	return nil
}
