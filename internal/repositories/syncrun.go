package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/cryptd777/linuxcloudsync/internal/models"
	"github.com/cryptd777/linuxcloudsync/internal/shared"
)

// SyncRunRepository implements models.Repository[*models.SyncRun] for run history.
//
// Handles run CRUD operations with soft delete support and per-profile lookups.
type SyncRunRepository struct {
	db *sql.DB
}

// NewSyncRunRepository creates a new SyncRunRepository with the given database connection
func NewSyncRunRepository(db *sql.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

// Create inserts a new run into the database with generated ID and sequence
func (r *SyncRunRepository) Create(run *models.SyncRun) error {
	sequence, err := NextSequence(r.db, "sync_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	run.SetID(id)
	run.SetSequence(sequence)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO sync_runs (id, sequence, profile, remote, local_path, mode, status, exit_code, dry_run, bytes_transferred, files_transferred, started_at, duration_ms, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		run.Profile(),
		run.Remote(),
		run.LocalPath(),
		run.Mode(),
		string(run.Status()),
		run.ExitCode(),
		run.DryRun(),
		run.BytesTransferred(),
		run.FilesTransferred(),
		run.StartedAt(),
		run.Duration().Milliseconds(),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert sync run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID, excluding soft-deleted runs
func (r *SyncRunRepository) Get(id string) (*models.SyncRun, error) {
	query := `
		SELECT id, sequence, profile, remote, local_path, mode, status, exit_code, dry_run, bytes_transferred, files_transferred, started_at, duration_ms, created_at, updated_at, deleted_at
		FROM sync_runs
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// Update modifies an existing run in the database
func (r *SyncRunRepository) Update(run *models.SyncRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	query := `
		UPDATE sync_runs
		SET status = ?, exit_code = ?, bytes_transferred = ?, files_transferred = ?, duration_ms = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		string(run.Status()),
		run.ExitCode(),
		run.BytesTransferred(),
		run.FilesTransferred(),
		run.Duration().Milliseconds(),
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update sync run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("sync run not found or already deleted: %s", run.ID())
	}

	return nil
}

// Delete soft-deletes a run by ID
func (r *SyncRunRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE sync_runs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete sync run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("sync run not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves runs matching the given criteria, excluding soft-deleted runs.
//
// Supported criteria: "profile" (string), "status" (string), "limit" (int).
// Runs are returned newest first.
func (r *SyncRunRepository) List(criteria map[string]any) ([]*models.SyncRun, error) {
	query := `
		SELECT id, sequence, profile, remote, local_path, mode, status, exit_code, dry_run, bytes_transferred, files_transferred, started_at, duration_ms, created_at, updated_at, deleted_at
		FROM sync_runs
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if profile, ok := criteria["profile"].(string); ok && profile != "" {
		query += " AND profile = ?"
		args = append(args, profile)
	}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	query += " ORDER BY started_at DESC, sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// scanOne scans a single row into a [models.SyncRun]
func (r *SyncRunRepository) scanOne(row *sql.Row) (*models.SyncRun, error) {
	var (
		id         string
		sequence   int
		profile    string
		remote     string
		localPath  string
		mode       string
		status     string
		exitCode   int
		dryRun     bool
		bytes      int64
		files      int64
		startedAt  time.Time
		durationMs int64
		createdAt  time.Time
		updatedAt  time.Time
		deletedAt  sql.NullTime
	)

	err := row.Scan(&id, &sequence, &profile, &remote, &localPath, &mode, &status, &exitCode, &dryRun, &bytes, &files, &startedAt, &durationMs, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sync run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan sync run: %w", err)
	}

	run := &models.SyncRun{}
	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}
	run.Restore(id, sequence, profile, remote, localPath, mode, models.RunStatus(status), exitCode, dryRun, bytes, files, startedAt, time.Duration(durationMs)*time.Millisecond, createdAt, updatedAt, deleted)

	return run, nil
}

// scanRow scans a row from [sql.Rows] into a [models.SyncRun]
func (r *SyncRunRepository) scanRow(rows *sql.Rows) (*models.SyncRun, error) {
	var (
		id         string
		sequence   int
		profile    string
		remote     string
		localPath  string
		mode       string
		status     string
		exitCode   int
		dryRun     bool
		bytes      int64
		files      int64
		startedAt  time.Time
		durationMs int64
		createdAt  time.Time
		updatedAt  time.Time
		deletedAt  sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &profile, &remote, &localPath, &mode, &status, &exitCode, &dryRun, &bytes, &files, &startedAt, &durationMs, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan sync run: %w", err)
	}

	run := &models.SyncRun{}
	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}
	run.Restore(id, sequence, profile, remote, localPath, mode, models.RunStatus(status), exitCode, dryRun, bytes, files, startedAt, time.Duration(durationMs)*time.Millisecond, createdAt, updatedAt, deleted)

	return run, nil
}
