package ports

import (
	"context"
	"io"

	"consolidador/domain/table"
)

// Source is one spreadsheet to be consolidated. Open returns a fresh reader
// over the file content; callers close it.
type Source struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// WorkbookReader extracts every table from every sheet of one workbook,
// with traceability columns attached and a manifest entry per table.
type WorkbookReader interface {
	ReadTables(ctx context.Context, src Source) ([]*table.Table, table.Manifest, error)
}
