package ports

import (
	"context"

	"consolidador/domain/core"
)

// JobRecord is the persisted summary of one consolidation run.
type JobRecord struct {
	ID            core.JobID     `json:"id"`
	FileNames     []string       `json:"file_names"`
	TableCount    int            `json:"table_count"`
	RowCount      int            `json:"row_count"`
	ColumnCount   int            `json:"column_count"`
	Valid         bool           `json:"valid"`
	AnomalyReport string         `json:"anomaly_report"`
	CreatedAt     core.Timestamp `json:"created_at"`
}

// JobRepository stores consolidation run history.
type JobRepository interface {
	Create(ctx context.Context, job *JobRecord) error
	GetByID(ctx context.Context, id core.JobID) (*JobRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*JobRecord, error)
}
