// Package validate checks the integrity of a consolidation run by comparing
// source manifest row counts against the consolidated table.
package validate

import (
	"fmt"
	"strings"

	"consolidador/domain/table"
)

// TableError describes one table whose consolidated row count does not match
// the manifest.
type TableError struct {
	FileName   string `json:"file"`
	SheetName  string `json:"sheet"`
	TableIndex int    `json:"table"`
	Expected   int    `json:"expected"`
	Actual     int    `json:"actual"`
	Difference int    `json:"difference"`
}

// Summary holds the programmatic validation result.
type Summary struct {
	IsValid               bool `json:"is_valid"`
	TotalSourceRows       int  `json:"total_source_rows"`
	TotalConsolidatedRows int  `json:"total_consolidated_rows"`
	Difference            int  `json:"difference"`
	TotalTables           int  `json:"total_tables"`
	ValidationErrors      int  `json:"validation_errors"`
	TotalsMatch           bool `json:"totals_match"`
}

// Result bundles the human-readable report with the summary and per-table
// errors.
type Result struct {
	Report  string
	Summary Summary
	Errors  []TableError
}

// Validate compares every manifest entry against the consolidated table and
// renders the integrity report.
func Validate(consolidated *table.Consolidated, manifest table.Manifest) *Result {
	totalSource := manifest.TotalRows()
	totalConsolidated := consolidated.RowCount()
	totalsMatch := totalSource == totalConsolidated

	var tableErrors []TableError
	var detailLines []string
	for _, entry := range manifest {
		actual := consolidated.CountMatching(entry.FileName, entry.SheetName, entry.TableIndex)
		status := "✅ OK"
		if actual != entry.RowCount {
			status = "❌ ERRO"
			tableErrors = append(tableErrors, TableError{
				FileName:   entry.FileName,
				SheetName:  entry.SheetName,
				TableIndex: entry.TableIndex,
				Expected:   entry.RowCount,
				Actual:     actual,
				Difference: abs(entry.RowCount - actual),
			})
		}
		detailLines = append(detailLines, fmt.Sprintf(
			"%s %s → %s → Tabela %d: %d/%d linhas",
			status, entry.FileName, entry.SheetName, entry.TableIndex, actual, entry.RowCount,
		))
	}

	isValid := totalsMatch && len(tableErrors) == 0

	summary := Summary{
		IsValid:               isValid,
		TotalSourceRows:       totalSource,
		TotalConsolidatedRows: totalConsolidated,
		Difference:            abs(totalSource - totalConsolidated),
		TotalTables:           len(manifest),
		ValidationErrors:      len(tableErrors),
		TotalsMatch:           totalsMatch,
	}

	return &Result{
		Report:  renderReport(summary, detailLines, tableErrors),
		Summary: summary,
		Errors:  tableErrors,
	}
}

func renderReport(s Summary, detailLines []string, tableErrors []TableError) string {
	separator := strings.Repeat("=", 60)
	dashes := strings.Repeat("-", 60)

	var b strings.Builder
	writeLine := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	writeLine("%s", separator)
	writeLine("🔍 RELATÓRIO DE VALIDAÇÃO DE INTEGRIDADE")
	writeLine("%s", separator)

	if s.IsValid {
		writeLine("✅ RESULTADO: SUCESSO - Integridade validada com sucesso!")
	} else {
		writeLine("❌ RESULTADO: FALHA - Discrepância encontrada na consolidação!")
	}

	writeLine("")
	writeLine("📊 CONTAGENS TOTAIS:")
	writeLine("   • Linhas nas tabelas de origem: %s", formatCount(s.TotalSourceRows))
	writeLine("   • Linhas no arquivo consolidado: %s", formatCount(s.TotalConsolidatedRows))
	writeLine("   • Diferença: %s", formatCount(s.Difference))
	writeLine("")

	writeLine("📋 VALIDAÇÃO DETALHADA POR TABELA:")
	writeLine("%s", dashes)
	for _, line := range detailLines {
		writeLine("%s", line)
	}

	if len(tableErrors) > 0 {
		writeLine("")
		writeLine("🚨 DETALHES DOS ERROS ENCONTRADOS:")
		writeLine("%s", dashes)
		for _, e := range tableErrors {
			writeLine("❌ %s → %s → Tabela %d:", e.FileName, e.SheetName, e.TableIndex)
			writeLine("   Esperado: %d linhas | Encontrado: %d linhas | Diferença: %d linhas",
				e.Expected, e.Actual, e.Difference)
			writeLine("")
		}
	}

	writeLine("%s", separator)
	if s.IsValid {
		writeLine("🎉 VALIDAÇÃO CONCLUÍDA: Todos os dados foram preservados!")
		writeLine("   A consolidação manteve 100%% da integridade dos dados.")
	} else {
		writeLine("⚠️  ATENÇÃO: Foram encontradas discrepâncias!")
		if !s.TotalsMatch {
			writeLine("   • Totais de linhas não coincidem.")
		}
		if s.ValidationErrors > 0 {
			writeLine("   • %d tabela(s) com contagem incorreta.", s.ValidationErrors)
		}
		writeLine("   Recomenda-se revisar os dados antes de prosseguir.")
	}
	writeLine("%s", separator)

	return strings.TrimRight(b.String(), "\n")
}

// formatCount renders n with a comma as the thousands separator.
func formatCount(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
