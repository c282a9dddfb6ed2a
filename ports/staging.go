package ports

import (
	"context"

	"consolidador/domain/table"
)

// StagingStore merges source tables through a SQL staging table: every master
// column is created as TEXT, each table's rows are inserted aligned to the
// master columns (missing ones as NULL), and the merged rows come back in
// insertion order.
type StagingStore interface {
	Stage(ctx context.Context, masterColumns []string, tables []*table.Table) (*table.Consolidated, error)
}
