package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/aneks/internal/common"
	"github.com/Veraticus/aneks/internal/model"
)

// RunStateStore records the progress of pipeline phases per run.
type RunStateStore interface {
	LoadOrCreate(ctx context.Context, runID string) (*model.RunState, error)
	MarkStarted(ctx context.Context, runID, phase string) error
	MarkCompleted(ctx context.Context, runID, phase string) error
	MarkFailed(ctx context.Context, runID, phase string, cause error) error
	Latest(ctx context.Context) (*model.RunState, error)
}

var _ RunStateStore = (*SQLiteStorage)(nil)

// LoadOrCreate returns the state of runID, creating an empty run when it
// has not been seen before.
func (s *SQLiteStorage) LoadOrCreate(ctx context.Context, runID string) (*model.RunState, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(runID, "runID"); err != nil {
		return nil, err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, created_at) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`,
		runID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to create run %s: %w", runID, err)
	}

	return s.loadRun(ctx, runID)
}

// MarkStarted records phase as running, replacing any previous attempt.
func (s *SQLiteStorage) MarkStarted(ctx context.Context, runID, phase string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePhaseName(phase); err != nil {
		return err
	}
	if _, err := s.LoadOrCreate(ctx, runID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO phases (run_id, name, status, started_at, completed_at, error)
		VALUES (?, ?, ?, ?, NULL, NULL)
		ON CONFLICT(run_id, name) DO UPDATE SET
			status = excluded.status,
			started_at = excluded.started_at,
			completed_at = NULL,
			error = NULL`,
		runID, phase, string(model.PhaseRunning), s.now())
	if err != nil {
		return fmt.Errorf("failed to mark %s started: %w", phase, err)
	}
	return nil
}

// MarkCompleted records phase as completed. The phase must have been started.
func (s *SQLiteStorage) MarkCompleted(ctx context.Context, runID, phase string) error {
	return s.finish(ctx, runID, phase, model.PhaseCompleted, "")
}

// MarkFailed records phase as failed with the error message of cause.
func (s *SQLiteStorage) MarkFailed(ctx context.Context, runID, phase string, cause error) error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	return s.finish(ctx, runID, phase, model.PhaseFailed, msg)
}

func (s *SQLiteStorage) finish(ctx context.Context, runID, phase string, status model.PhaseStatus, msg string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(runID, "runID"); err != nil {
		return err
	}
	if err := validatePhaseName(phase); err != nil {
		return err
	}

	var errValue sql.NullString
	if msg != "" {
		errValue = sql.NullString{String: msg, Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE phases SET status = ?, completed_at = ?, error = ? WHERE run_id = ? AND name = ?`,
		string(status), s.now(), errValue, runID, phase)
	if err != nil {
		return fmt.Errorf("failed to mark %s %s: %w", phase, status, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s/%s", common.ErrPhaseNotRecorded, runID, phase)
	}
	return nil
}

// Latest returns the most recently created run.
func (s *SQLiteStorage) Latest(ctx context.Context) (*model.RunState, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var runID string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNoRunsRecorded
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find latest run: %w", err)
	}

	return s.loadRun(ctx, runID)
}

// ListRuns returns up to limit runs, newest first.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]*model.RunState, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 12
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	runs := make([]*model.RunState, 0, len(ids))
	for _, id := range ids {
		run, err := s.loadRun(ctx, id)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func (s *SQLiteStorage) loadRun(ctx context.Context, runID string) (*model.RunState, error) {
	run := &model.RunState{ID: runID, Phases: []model.PhaseState{}}

	err := s.db.QueryRowContext(ctx, `SELECT created_at FROM runs WHERE id = ?`, runID).Scan(&run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", runID, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, status, started_at, completed_at, error
		FROM phases WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load phases of %s: %w", runID, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			p         model.PhaseState
			status    string
			started   sql.NullTime
			completed sql.NullTime
			errMsg    sql.NullString
		)
		if err := rows.Scan(&p.Name, &status, &started, &completed, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan phase: %w", err)
		}
		p.Status = model.PhaseStatus(status)
		p.StartedAt = timePtr(started)
		p.CompletedAt = timePtr(completed)
		p.Error = errMsg.String
		run.Phases = append(run.Phases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate phases: %w", err)
	}

	return run, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
