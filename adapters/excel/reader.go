// Package excel reads and writes xlsx workbooks through excelize. The reader
// splits every sheet into stacked tables at completely empty rows, promotes
// header rows, and tags each table with traceability columns; the writer
// serializes the consolidated table back to a downloadable workbook.
package excel

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"consolidador/domain/table"
	"consolidador/ports"
)

// Reader extracts tables from uploaded workbooks.
type Reader struct {
	config ReaderConfig
}

// NewReader creates a workbook reader with default configuration.
func NewReader() *Reader {
	return NewReaderWithConfig(DefaultReaderConfig())
}

// NewReaderWithConfig creates a workbook reader with explicit configuration.
func NewReaderWithConfig(config ReaderConfig) *Reader {
	return &Reader{config: config}
}

var _ ports.WorkbookReader = (*Reader)(nil)

// ReadTables opens one workbook and extracts every table from every sheet, in
// sheet order. Table indices are 1-based and restart per sheet. Empty sheets
// and header-only blocks are skipped.
func (r *Reader) ReadTables(ctx context.Context, src ports.Source) ([]*table.Table, table.Manifest, error) {
	if !IsSupportedFilename(src.Name) {
		return nil, nil, fmt.Errorf("unsupported file: %s", src.Name)
	}

	rc, err := src.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", src.Name, err)
	}
	defer rc.Close()

	startTime := time.Now()
	f, err := excelize.OpenReader(rc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook %s: %w", src.Name, err)
	}
	defer f.Close()
	log.Printf("[Reader] Workbook %s opened in %.2fms", src.Name, float64(time.Since(startTime).Nanoseconds())/1e6)

	var tables []*table.Table
	var manifest table.Manifest

	sheets := f.GetSheetList()
	if r.config.MaxSheets > 0 && len(sheets) > r.config.MaxSheets {
		sheets = sheets[:r.config.MaxSheets]
	}

	for _, sheetName := range sheets {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		rows, err := f.GetRows(sheetName)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read sheet %s of %s: %w", sheetName, src.Name, err)
		}
		if len(rows) == 0 {
			continue
		}

		grid := squareGrid(rows)
		sheetTables := extractSheetTables(grid, src.Name, sheetName)
		for _, t := range sheetTables {
			manifest = append(manifest, table.ManifestEntry{
				FileName:   t.Source.FileName,
				SheetName:  t.Source.SheetName,
				TableIndex: t.Source.TableIndex,
				RowCount:   t.RowCount(),
			})
		}
		tables = append(tables, sheetTables...)
	}

	log.Printf("[Reader] %s processed (%d sheets, %d tables)", src.Name, len(sheets), len(tables))
	return tables, manifest, nil
}

// squareGrid pads the ragged rows excelize returns to a uniform width.
func squareGrid(rows [][]string) [][]string {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	grid := make([][]string, len(rows))
	for i, row := range rows {
		padded := make([]string, width)
		copy(padded, row)
		grid[i] = padded
	}
	return grid
}

// extractSheetTables splits a sheet grid into tables at completely empty rows
// and finalizes each block.
func extractSheetTables(grid [][]string, fileName, sheetName string) []*table.Table {
	emptyRows := make(map[int]bool)
	var boundaries []int
	boundaries = append(boundaries, 0)
	for i, row := range grid {
		if isEmptyRow(row) {
			emptyRows[i] = true
			boundaries = append(boundaries, i)
		}
	}
	boundaries = append(boundaries, len(grid))

	var tables []*table.Table
	tableIndex := 1

	for i := 0; i < len(boundaries)-1; i++ {
		start, end := boundaries[i], boundaries[i+1]
		if emptyRows[start] {
			start++
		}
		if start >= end {
			continue
		}

		t := buildTable(grid[start:end], table.SourceRef{
			FileName:   fileName,
			SheetName:  sheetName,
			TableIndex: tableIndex,
		})
		if t == nil {
			continue
		}
		tables = append(tables, t)
		tableIndex++
	}
	return tables
}

// buildTable cleans one block (drops empty rows and columns), promotes the
// header row, and prepends the traceability columns. Returns nil when the
// block holds no data rows.
func buildTable(block [][]string, src table.SourceRef) *table.Table {
	var rows [][]string
	for _, row := range block {
		if !isEmptyRow(row) {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil
	}

	keep := nonEmptyColumns(rows)
	if len(keep) == 0 {
		return nil
	}
	for i, row := range rows {
		compact := make([]string, 0, len(keep))
		for _, c := range keep {
			compact = append(compact, row[c])
		}
		rows[i] = compact
	}

	headers := make([]string, len(keep))
	if isEmptyRow(rows[0]) {
		// No usable header row: fall back to positional names.
		for i := range headers {
			headers[i] = "Column_" + strconv.Itoa(i)
		}
	} else {
		for i, cell := range rows[0] {
			if cell == "" {
				headers[i] = "Column_" + strconv.Itoa(i)
			} else {
				headers[i] = cell
			}
		}
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil
	}

	columns := append(table.TraceabilityColumns(), headers...)
	data := make([][]string, len(rows))
	for i, row := range rows {
		out := make([]string, 0, len(columns))
		out = append(out, src.FileName, src.SheetName, strconv.Itoa(src.TableIndex))
		out = append(out, row...)
		data[i] = out
	}

	return &table.Table{
		Columns: columns,
		Rows:    data,
		Source:  src,
	}
}

// isEmptyRow reports whether every cell of the row is the empty string.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// nonEmptyColumns returns the indices of columns holding at least one value.
func nonEmptyColumns(rows [][]string) []int {
	if len(rows) == 0 {
		return nil
	}
	width := len(rows[0])
	var keep []int
	for c := 0; c < width; c++ {
		for _, row := range rows {
			if c < len(row) && row[c] != "" {
				keep = append(keep, c)
				break
			}
		}
	}
	return keep
}
