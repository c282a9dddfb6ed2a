// Package table defines the tabular structures flowing through the
// consolidation pipeline: individual tables extracted from workbook sheets,
// the source manifest used for integrity validation, and the consolidated
// output table.
package table

import "strconv"

// Traceability column names. These are prepended to every extracted table and
// are part of the consolidated file's observable layout, so they keep the
// original application's Portuguese labels.
const (
	ColSourceFile  = "Nome do Arquivo de Origem"
	ColSourceSheet = "Nome da Planilha de Origem"
	ColTableIndex  = "Índice da Tabela na Planilha"
)

// TraceabilityColumns returns the traceability column names in their fixed order.
func TraceabilityColumns() []string {
	return []string{ColSourceFile, ColSourceSheet, ColTableIndex}
}

// IsTraceabilityColumn reports whether name is one of the traceability columns.
func IsTraceabilityColumn(name string) bool {
	return name == ColSourceFile || name == ColSourceSheet || name == ColTableIndex
}

// SourceRef identifies where within the uploaded files a table came from.
// TableIndex is 1-based and restarts for each sheet.
type SourceRef struct {
	FileName   string `json:"file_name"`
	SheetName  string `json:"sheet_name"`
	TableIndex int    `json:"table_index"`
}

// Table is one table extracted from a sheet: an ordered set of named columns
// and the data rows aligned to them. All cell values are strings; the
// consolidation stages everything as TEXT.
type Table struct {
	Columns []string
	Rows    [][]string
	Source  SourceRef
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// IsEmpty reports whether the table has no columns or no data rows.
func (t *Table) IsEmpty() bool {
	return len(t.Columns) == 0 || len(t.Rows) == 0
}

// Cell returns the value at (row, col name), or "" when the column is absent.
func (t *Table) Cell(row int, column string) string {
	for i, c := range t.Columns {
		if c == column {
			if row < len(t.Rows) && i < len(t.Rows[row]) {
				return t.Rows[row][i]
			}
			return ""
		}
	}
	return ""
}

// ManifestEntry records the expected row count for one extracted table.
type ManifestEntry struct {
	FileName   string `json:"file_name"`
	SheetName  string `json:"sheet_name"`
	TableIndex int    `json:"table_index"`
	RowCount   int    `json:"row_count"`
}

// Manifest is the ordered list of manifest entries for a consolidation run.
type Manifest []ManifestEntry

// TotalRows sums the row counts of all entries.
func (m Manifest) TotalRows() int {
	total := 0
	for _, e := range m {
		total += e.RowCount
	}
	return total
}

// Consolidated is the merged output table. Rows are aligned to Columns;
// cells for columns a source table did not have are empty strings.
type Consolidated struct {
	Columns []string
	Rows    [][]string
}

// RowCount returns the number of consolidated rows.
func (c *Consolidated) RowCount() int {
	return len(c.Rows)
}

// IsEmpty reports whether the consolidated table holds no rows.
func (c *Consolidated) IsEmpty() bool {
	return len(c.Rows) == 0
}

// columnIndex returns the position of a column, or -1.
func (c *Consolidated) columnIndex(name string) int {
	for i, col := range c.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// CountMatching counts rows whose traceability columns match the given source.
// The table index is staged as text, so it is compared against its decimal
// representation.
func (c *Consolidated) CountMatching(fileName, sheetName string, tableIndex int) int {
	fi := c.columnIndex(ColSourceFile)
	si := c.columnIndex(ColSourceSheet)
	ti := c.columnIndex(ColTableIndex)
	if fi < 0 || si < 0 || ti < 0 {
		return 0
	}

	want := strconv.Itoa(tableIndex)
	count := 0
	for _, row := range c.Rows {
		if fi >= len(row) || si >= len(row) || ti >= len(row) {
			continue
		}
		if row[fi] == fileName && row[si] == sheetName && row[ti] == want {
			count++
		}
	}
	return count
}
