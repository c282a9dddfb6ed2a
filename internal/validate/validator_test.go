package validate

import (
	"strings"
	"testing"

	"consolidador/domain/table"
)

func consolidatedFor(entries []table.ManifestEntry) *table.Consolidated {
	c := &table.Consolidated{
		Columns: []string{table.ColSourceFile, table.ColSourceSheet, table.ColTableIndex, "Nome"},
	}
	for _, e := range entries {
		for i := 0; i < e.RowCount; i++ {
			c.Rows = append(c.Rows, []string{e.FileName, e.SheetName, "1", "x"})
		}
	}
	return c
}

func TestValidate_AllCountsMatch(t *testing.T) {
	manifest := table.Manifest{
		{FileName: "a.xlsx", SheetName: "Sheet1", TableIndex: 1, RowCount: 2},
		{FileName: "b.xlsx", SheetName: "Plan1", TableIndex: 1, RowCount: 3},
	}
	result := Validate(consolidatedFor(manifest), manifest)

	if !result.Summary.IsValid {
		t.Errorf("expected valid summary, got %+v", result.Summary)
	}
	if result.Summary.TotalSourceRows != 5 || result.Summary.TotalConsolidatedRows != 5 {
		t.Errorf("unexpected totals: %+v", result.Summary)
	}
	if result.Summary.Difference != 0 || result.Summary.ValidationErrors != 0 {
		t.Errorf("unexpected drift: %+v", result.Summary)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected table errors: %v", result.Errors)
	}

	if !strings.Contains(result.Report, "RELATÓRIO DE VALIDAÇÃO DE INTEGRIDADE") {
		t.Errorf("report missing header:\n%s", result.Report)
	}
	if !strings.Contains(result.Report, "✅ RESULTADO: SUCESSO") {
		t.Errorf("report missing success line:\n%s", result.Report)
	}
	if !strings.Contains(result.Report, "✅ OK a.xlsx → Sheet1 → Tabela 1: 2/2 linhas") {
		t.Errorf("report missing per-table line:\n%s", result.Report)
	}
	if !strings.Contains(result.Report, "Todos os dados foram preservados") {
		t.Errorf("report missing closing line:\n%s", result.Report)
	}
}

func TestValidate_MissingRows(t *testing.T) {
	manifest := table.Manifest{
		{FileName: "a.xlsx", SheetName: "Sheet1", TableIndex: 1, RowCount: 3},
	}
	// Only two rows actually made it through.
	c := &table.Consolidated{
		Columns: []string{table.ColSourceFile, table.ColSourceSheet, table.ColTableIndex},
		Rows: [][]string{
			{"a.xlsx", "Sheet1", "1"},
			{"a.xlsx", "Sheet1", "1"},
		},
	}

	result := Validate(c, manifest)

	if result.Summary.IsValid {
		t.Errorf("expected invalid summary, got %+v", result.Summary)
	}
	if result.Summary.Difference != 1 {
		t.Errorf("Difference = %d, want 1", result.Summary.Difference)
	}
	if result.Summary.ValidationErrors != 1 {
		t.Errorf("ValidationErrors = %d, want 1", result.Summary.ValidationErrors)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one table error, got %v", result.Errors)
	}
	e := result.Errors[0]
	if e.Expected != 3 || e.Actual != 2 || e.Difference != 1 {
		t.Errorf("unexpected table error: %+v", e)
	}

	if !strings.Contains(result.Report, "❌ RESULTADO: FALHA") {
		t.Errorf("report missing failure line:\n%s", result.Report)
	}
	if !strings.Contains(result.Report, "❌ ERRO a.xlsx → Sheet1 → Tabela 1: 2/3 linhas") {
		t.Errorf("report missing per-table error line:\n%s", result.Report)
	}
	if !strings.Contains(result.Report, "DETALHES DOS ERROS ENCONTRADOS") {
		t.Errorf("report missing error details section:\n%s", result.Report)
	}
	if !strings.Contains(result.Report, "Esperado: 3 linhas | Encontrado: 2 linhas | Diferença: 1 linhas") {
		t.Errorf("report missing error detail line:\n%s", result.Report)
	}
}

func TestValidate_RowsFromWrongTable(t *testing.T) {
	manifest := table.Manifest{
		{FileName: "a.xlsx", SheetName: "Sheet1", TableIndex: 1, RowCount: 1},
		{FileName: "a.xlsx", SheetName: "Sheet1", TableIndex: 2, RowCount: 1},
	}
	// Totals match but both rows claim table 1.
	c := &table.Consolidated{
		Columns: []string{table.ColSourceFile, table.ColSourceSheet, table.ColTableIndex},
		Rows: [][]string{
			{"a.xlsx", "Sheet1", "1"},
			{"a.xlsx", "Sheet1", "1"},
		},
	}

	result := Validate(c, manifest)

	if result.Summary.IsValid {
		t.Errorf("expected invalid summary, got %+v", result.Summary)
	}
	if !result.Summary.TotalsMatch {
		t.Errorf("totals should match: %+v", result.Summary)
	}
	if result.Summary.ValidationErrors != 2 {
		t.Errorf("ValidationErrors = %d, want 2", result.Summary.ValidationErrors)
	}
}

func TestValidate_EmptyManifest(t *testing.T) {
	result := Validate(&table.Consolidated{}, nil)
	if !result.Summary.IsValid {
		t.Errorf("empty run should validate, got %+v", result.Summary)
	}
	if result.Summary.TotalTables != 0 {
		t.Errorf("TotalTables = %d, want 0", result.Summary.TotalTables)
	}
}

func TestFormatCount(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
	}
	for _, tc := range cases {
		if got := formatCount(tc.n); got != tc.want {
			t.Errorf("formatCount(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}
