package staging

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"consolidador/domain/core"
	"consolidador/ports"
)

// jobRepository implements ports.JobRepository over the staging database.
type jobRepository struct {
	db      *sqlx.DB
	dialect Dialect
}

// NewJobRepository creates the job history repository and ensures its table
// exists.
func NewJobRepository(ctx context.Context, db *sqlx.DB, dialect Dialect) (ports.JobRepository, error) {
	r := &jobRepository{db: db, dialect: dialect}
	if err := r.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *jobRepository) ensureSchema(ctx context.Context) error {
	// created_at is stored as RFC3339 text so both dialects behave the same.
	query := `CREATE TABLE IF NOT EXISTS consolidation_jobs (
		id TEXT PRIMARY KEY,
		file_names TEXT NOT NULL,
		table_count INTEGER NOT NULL,
		row_count INTEGER NOT NULL,
		column_count INTEGER NOT NULL,
		valid BOOLEAN NOT NULL,
		anomaly_report TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create consolidation_jobs table: %w", err)
	}
	return nil
}

// Create inserts one job record.
func (r *jobRepository) Create(ctx context.Context, job *ports.JobRecord) error {
	fileNamesJSON, err := json.Marshal(job.FileNames)
	if err != nil {
		return fmt.Errorf("failed to marshal file names: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO consolidation_jobs (
		id, file_names, table_count, row_count, column_count, valid, anomaly_report, created_at
	) VALUES (%s)`, r.dialect.placeholders(1, 8))

	_, err = r.db.ExecContext(ctx, query,
		job.ID.String(), string(fileNamesJSON), job.TableCount, job.RowCount,
		job.ColumnCount, job.Valid, job.AnomalyReport, job.CreatedAt.Time().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to create job record: %w", err)
	}
	return nil
}

// GetByID retrieves a job record by its ID.
func (r *jobRepository) GetByID(ctx context.Context, id core.JobID) (*ports.JobRecord, error) {
	query := fmt.Sprintf(`SELECT id, file_names, table_count, row_count, column_count, valid, anomaly_report, created_at
		FROM consolidation_jobs WHERE id = %s`, r.dialect.placeholders(1, 1))

	row := r.db.QueryRowContext(ctx, query, id.String())
	job, err := scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.NewNotFoundError("job", id.String())
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// ListRecent returns the newest job records, most recent first.
func (r *jobRepository) ListRecent(ctx context.Context, limit int) ([]*ports.JobRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := fmt.Sprintf(`SELECT id, file_names, table_count, row_count, column_count, valid, anomaly_report, created_at
		FROM consolidation_jobs ORDER BY created_at DESC LIMIT %s`, r.dialect.placeholders(1, 1))

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*ports.JobRecord
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return jobs, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*ports.JobRecord, error) {
	var (
		job           ports.JobRecord
		id            string
		fileNamesJSON string
		createdAt     string
	)
	err := row.Scan(&id, &fileNamesJSON, &job.TableCount, &job.RowCount,
		&job.ColumnCount, &job.Valid, &job.AnomalyReport, &createdAt)
	if err != nil {
		return nil, err
	}

	job.ID = core.JobID(id)
	if err := json.Unmarshal([]byte(fileNamesJSON), &job.FileNames); err != nil {
		return nil, fmt.Errorf("failed to unmarshal file names: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		job.CreatedAt = core.NewTimestamp(t)
	}
	return &job, nil
}
