package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"consolidador/domain/table"
)

// OutputSheetName is the single sheet of the downloadable workbook.
const OutputSheetName = "Consolidated_Data"

// OutputFileName is the suggested name for the downloaded workbook.
const OutputFileName = "dados_consolidados.xlsx"

// ContentTypeXLSX is the MIME type of the downloadable workbook.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteWorkbook serializes the consolidated table into an in-memory xlsx
// workbook: one sheet, header row first, then the data rows. An empty table
// still yields a valid workbook with just the (possibly empty) header row.
func WriteWorkbook(c *table.Consolidated) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", OutputSheetName); err != nil {
		return nil, fmt.Errorf("failed to name output sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(OutputSheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream writer: %w", err)
	}

	if len(c.Columns) > 0 {
		header := make([]interface{}, len(c.Columns))
		for i, col := range c.Columns {
			header[i] = col
		}
		cell, _ := excelize.CoordinatesToCellName(1, 1)
		if err := sw.SetRow(cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header row: %w", err)
		}
	}

	for i, row := range c.Rows {
		values := make([]interface{}, len(c.Columns))
		for j := range c.Columns {
			if j < len(row) {
				values[j] = row[j]
			} else {
				values[j] = ""
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush stream writer: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
