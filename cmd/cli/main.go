package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"consolidador/adapters/excel"
	"consolidador/adapters/staging"
	"consolidador/app"
	"consolidador/internal"
	"consolidador/internal/config"
	"consolidador/ports"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "consolidador",
		Short: "Consolidates tables from Excel workbooks into one xlsx file",
	}

	rootCmd.AddCommand(
		newConsolidateCmd(),
		newInspectCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newConsolidateCmd() *cobra.Command {
	var output string
	var showReport bool

	cmd := &cobra.Command{
		Use:   "consolidate [files...]",
		Short: "Consolidate one or more workbooks into a single xlsx",
		Long: `Extract every table from every sheet of the given workbooks and merge
them into a single consolidated xlsx with traceability columns.

Example: consolidador consolidate survey_a.xlsx survey_b.xlsx -o dados_consolidados.xlsx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsolidate(cmd.Context(), args, output, showReport)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", excel.OutputFileName, "Output xlsx path")
	cmd.Flags().BoolVar(&showReport, "report", true, "Print the anomaly and validation reports")

	return cmd
}

func runConsolidate(ctx context.Context, paths []string, output string, showReport bool) error {
	godotenv.Load()
	logger := internal.NewDefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, dialect, err := staging.Open(cfg.Database.URL, cfg.Database.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open staging database: %w", err)
	}
	defer db.Close()

	service := app.NewConsolidationService(
		excel.NewReader(),
		staging.NewStore(db, dialect),
		nil,
		logger,
	)

	sources := make([]ports.Source, 0, len(paths))
	for _, path := range paths {
		sources = append(sources, fileSource(path))
	}

	result, err := service.Consolidate(ctx, sources)
	if err != nil {
		return err
	}

	data, err := excel.WriteWorkbook(result.Consolidated)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	fmt.Printf("Consolidated %d tables (%d rows, %d columns) into %s\n",
		len(result.Manifest), result.Consolidated.RowCount(),
		len(result.Consolidated.Columns), output)
	for _, skipped := range result.SkippedFiles {
		fmt.Printf("Skipped (read error): %s\n", skipped)
	}

	if showReport {
		fmt.Println()
		fmt.Println(result.AnomalyReport)
		fmt.Println()
		fmt.Println(result.Validation.Report)
	}

	if !result.Validation.Summary.IsValid {
		return fmt.Errorf("integrity validation failed: %d table(s) with row count errors",
			result.Validation.Summary.ValidationErrors)
	}
	return nil
}

func newInspectCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "List the tables found in one workbook without consolidating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the manifest as JSON")

	return cmd
}

func runInspect(ctx context.Context, path string, asJSON bool) error {
	reader := excel.NewReader()
	tables, manifest, err := reader.ReadTables(ctx, fileSource(path))
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(manifest)
	}

	fmt.Printf("%s: %d table(s)\n", filepath.Base(path), len(tables))
	for i, t := range tables {
		fmt.Printf("  %d. sheet %q, table %d: %d rows, %d columns\n",
			i+1, t.Source.SheetName, t.Source.TableIndex, t.RowCount(), len(t.Columns))
	}
	return nil
}

func fileSource(path string) ports.Source {
	return ports.Source{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}
