package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Veraticus/aneks/internal/model"
)

// SaveInventorySummary records the headline numbers of a saved inventory
// against its run.
func (s *SQLiteStorage) SaveInventorySummary(ctx context.Context, summary *model.InventorySummary) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSummary(summary); err != nil {
		return err
	}
	if _, err := s.LoadOrCreate(ctx, summary.RunID); err != nil {
		return err
	}

	counts, err := json.Marshal(summary.StatusCounts)
	if err != nil {
		return fmt.Errorf("failed to encode status counts: %w", err)
	}

	createdAt := summary.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO inventory_summaries
			(run_id, created_at, inventory_path, total_clients, with_contracts, with_annexes, flagged, status_counts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID, createdAt.UTC(), summary.InventoryPath,
		summary.TotalClients, summary.WithContracts, summary.WithAnnexes, summary.Flagged,
		string(counts))
	if err != nil {
		return fmt.Errorf("failed to save inventory summary: %w", err)
	}
	return nil
}

// ListInventorySummaries returns up to limit summaries, newest first.
func (s *SQLiteStorage) ListInventorySummaries(ctx context.Context, limit int) ([]model.InventorySummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, created_at, inventory_path, total_clients, with_contracts, with_annexes, flagged, status_counts
		FROM inventory_summaries
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory summaries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []model.InventorySummary
	for rows.Next() {
		var (
			sum    model.InventorySummary
			counts string
		)
		if err := rows.Scan(&sum.RunID, &sum.CreatedAt, &sum.InventoryPath,
			&sum.TotalClients, &sum.WithContracts, &sum.WithAnnexes, &sum.Flagged, &counts); err != nil {
			return nil, fmt.Errorf("failed to scan inventory summary: %w", err)
		}
		if err := json.Unmarshal([]byte(counts), &sum.StatusCounts); err != nil {
			return nil, fmt.Errorf("failed to decode status counts: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventory summaries: %w", err)
	}
	return summaries, nil
}
