package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Run statuses
const (
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// DefaultListLimit and MaxListLimit bound ListRuns.
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// ErrRunNotFound is returned by GetRun for an unknown id.
var ErrRunNotFound = errors.New("run not found")

// Run is one processed upload. The structured résumé itself is never stored.
type Run struct {
	ID               uuid.UUID `json:"id"`
	OriginalFilename string    `json:"original_filename"`
	ArtifactName     *string   `json:"artifact_name,omitempty"`
	Status           string    `json:"status"`
	ErrorKind        *string   `json:"error_kind,omitempty"`
	ErrorDetail      *string   `json:"error_detail,omitempty"`
	DurationMS       int64     `json:"duration_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

const runColumns = `id, original_filename, artifact_name, status, error_kind, error_detail, duration_ms, created_at`

// RecordRun inserts run and fills in its creation time.
func (db *DB) RecordRun(ctx context.Context, run *Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO enhancement_runs (id, original_filename, artifact_name, status, error_kind, error_detail, duration_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		run.ID, run.OriginalFilename, run.ArtifactName, run.Status, run.ErrorKind, run.ErrorDetail, run.DurationMS,
	).Scan(&run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by id
func (db *DB) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	row := db.pool.QueryRow(ctx, `SELECT `+runColumns+` FROM enhancement_runs WHERE id = $1`, id)
	run, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns retrieves the most recent runs, newest first
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+runColumns+` FROM enhancement_runs ORDER BY created_at DESC LIMIT $1`,
		ClampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// ClampLimit maps a requested page size into [1, MaxListLimit], using DefaultListLimit for non-positive values.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

func scanRun(row pgx.Row) (*Run, error) {
	var run Run
	if err := row.Scan(&run.ID, &run.OriginalFilename, &run.ArtifactName, &run.Status,
		&run.ErrorKind, &run.ErrorDetail, &run.DurationMS, &run.CreatedAt); err != nil {
		return nil, err
	}
	return &run, nil
}
