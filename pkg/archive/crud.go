package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kpellard/heronet/pkg/analysis"
)

// SaveRun stores a completed run.
func (s *Store) SaveRun(ctx context.Context, run *Run) error {
	if run == nil || run.Summary == nil {
		return errors.New("run has no summary")
	}

	summaryJSON, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	query := `
		INSERT INTO analysis_runs (id, source, node_count, edge_count, communities, modularity, diameter, clustering, elapsed_ms, created_at, summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = s.pool.Exec(ctx, query,
		run.ID,
		run.Source,
		run.NodeCount,
		run.EdgeCount,
		run.Communities,
		run.Modularity,
		run.Diameter,
		run.Clustering,
		run.Elapsed.Milliseconds(),
		run.CreatedAt,
		summaryJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// GetRun retrieves a run with its full summary.
func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	query := `
		SELECT id, source, node_count, edge_count, communities, modularity, diameter, clustering, elapsed_ms, created_at, summary
		FROM analysis_runs
		WHERE id = $1
	`
	return s.scanRun(s.pool.QueryRow(ctx, query, id))
}

// LatestRun retrieves the most recent run with its full summary.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	query := `
		SELECT id, source, node_count, edge_count, communities, modularity, diameter, clustering, elapsed_ms, created_at, summary
		FROM analysis_runs
		ORDER BY created_at DESC
		LIMIT 1
	`
	return s.scanRun(s.pool.QueryRow(ctx, query))
}

// ListRuns returns the newest runs, headline columns only.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, source, node_count, edge_count, communities, modularity, diameter, clustering, elapsed_ms, created_at
		FROM analysis_runs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*Run, 0, limit)
	for rows.Next() {
		run := &Run{}
		var elapsedMS int64
		err := rows.Scan(
			&run.ID,
			&run.Source,
			&run.NodeCount,
			&run.EdgeCount,
			&run.Communities,
			&run.Modularity,
			&run.Diameter,
			&run.Clustering,
			&elapsedMS,
			&run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// DeleteRun removes a run.
func (s *Store) DeleteRun(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM analysis_runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

func (s *Store) scanRun(row pgx.Row) (*Run, error) {
	run := &Run{}
	var elapsedMS int64
	var summaryJSON []byte

	err := row.Scan(
		&run.ID,
		&run.Source,
		&run.NodeCount,
		&run.EdgeCount,
		&run.Communities,
		&run.Modularity,
		&run.Diameter,
		&run.Clustering,
		&elapsedMS,
		&run.CreatedAt,
		&summaryJSON,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	run.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	if len(summaryJSON) > 0 {
		run.Summary = &analysis.Summary{}
		if err := json.Unmarshal(summaryJSON, run.Summary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
		}
	}
	return run, nil
}
