// Package app orchestrates the consolidation pipeline: parse uploaded
// workbooks, build the master column order, stage and merge the data, then
// validate and profile the result.
package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"consolidador/domain/core"
	"consolidador/domain/schema"
	"consolidador/domain/table"
	"consolidador/internal"
	"consolidador/internal/profile"
	"consolidador/internal/validate"
	"consolidador/ports"
)

// NoAnomaliesMessage is the anomaly report when every table carries all
// master columns.
const NoAnomaliesMessage = "Nenhuma anomalia detectada."

// maxParseConcurrency bounds how many workbooks are parsed at once.
const maxParseConcurrency = 4

// Result is the full outcome of one consolidation run.
type Result struct {
	JobID         core.JobID
	FileNames     []string
	SkippedFiles  []string
	Consolidated  *table.Consolidated
	Manifest      table.Manifest
	AnomalyReport string
	Validation    *validate.Result
	Profiles      []profile.ColumnProfile
	CreatedAt     core.Timestamp
}

// ConsolidationService runs the pipeline end to end.
type ConsolidationService struct {
	reader  ports.WorkbookReader
	staging ports.StagingStore
	jobs    ports.JobRepository
	logger  *internal.Logger
}

// NewConsolidationService wires the pipeline. jobs may be nil when run
// history is not wanted (the CLI does this).
func NewConsolidationService(reader ports.WorkbookReader, staging ports.StagingStore, jobs ports.JobRepository, logger *internal.Logger) *ConsolidationService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ConsolidationService{
		reader:  reader,
		staging: staging,
		jobs:    jobs,
		logger:  logger,
	}
}

// Consolidate parses every source, merges all extracted tables into one
// consolidated table and validates the result. Sources that fail to parse
// are skipped with a warning; the run only fails when nothing at all could
// be consolidated.
func (s *ConsolidationService) Consolidate(ctx context.Context, sources []ports.Source) (*Result, error) {
	if len(sources) == 0 {
		return nil, core.ErrNoFiles
	}

	tables, manifest, skipped, err := s.parseSources(ctx, sources)
	if err != nil {
		return nil, err
	}

	s.logger.Info("[Consolidation] Parsed %d files: %d tables, %d rows",
		len(sources)-len(skipped), len(tables), manifest.TotalRows())

	// Column names are trimmed before discovery so that " P1" and "P1"
	// merge into one master column.
	trimColumns(tables)
	allColumns := discoverColumns(tables)
	if len(allColumns) == 0 {
		return nil, core.ErrNoData
	}

	masterColumns := schema.MasterOrder(allColumns)
	s.logger.Info("[Consolidation] Master order built: %d columns", len(masterColumns))

	anomalyReport := buildAnomalyReport(masterColumns, tables)

	consolidated, err := s.staging.Stage(ctx, masterColumns, tables)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrStagingFailed, err)
	}

	validation := validate.Validate(consolidated, manifest)
	if !validation.Summary.IsValid {
		s.logger.Warn("[Consolidation] Integrity check failed: %d table errors, difference %d rows",
			validation.Summary.ValidationErrors, validation.Summary.Difference)
	}

	result := &Result{
		JobID:         core.JobID(core.NewID()),
		FileNames:     sourceNames(sources),
		SkippedFiles:  skipped,
		Consolidated:  consolidated,
		Manifest:      manifest,
		AnomalyReport: anomalyReport,
		Validation:    validation,
		Profiles:      profile.Profile(consolidated),
		CreatedAt:     core.Now(),
	}

	s.recordJob(ctx, result)
	return result, nil
}

// parseSources reads all workbooks concurrently while keeping the output in
// source order. A source that fails to parse is skipped, not fatal.
func (s *ConsolidationService) parseSources(ctx context.Context, sources []ports.Source) ([]*table.Table, table.Manifest, []string, error) {
	type parsed struct {
		tables   []*table.Table
		manifest table.Manifest
		err      error
	}
	results := make([]parsed, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParseConcurrency)
	for i, src := range sources {
		g.Go(func() error {
			tables, manifest, err := s.reader.ReadTables(gctx, src)
			results[i] = parsed{tables: tables, manifest: manifest, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	var tables []*table.Table
	var manifest table.Manifest
	var skipped []string
	for i, r := range results {
		if r.err != nil {
			s.logger.Warn("[Consolidation] Skipping %s: %v", sources[i].Name, r.err)
			skipped = append(skipped, sources[i].Name)
			continue
		}
		tables = append(tables, r.tables...)
		manifest = append(manifest, r.manifest...)
	}

	if len(skipped) == len(sources) {
		return nil, nil, nil, core.ErrNoData
	}
	return tables, manifest, skipped, nil
}

func (s *ConsolidationService) recordJob(ctx context.Context, result *Result) {
	if s.jobs == nil {
		return
	}
	record := &ports.JobRecord{
		ID:            result.JobID,
		FileNames:     result.FileNames,
		TableCount:    len(result.Manifest),
		RowCount:      result.Consolidated.RowCount(),
		ColumnCount:   len(result.Consolidated.Columns),
		Valid:         result.Validation.Summary.IsValid,
		AnomalyReport: result.AnomalyReport,
		CreatedAt:     result.CreatedAt,
	}
	if err := s.jobs.Create(ctx, record); err != nil {
		s.logger.Warn("[Consolidation] Failed to record job %s: %v", result.JobID, err)
	}
}

// GetJob returns one persisted run summary.
func (s *ConsolidationService) GetJob(ctx context.Context, id core.JobID) (*ports.JobRecord, error) {
	if s.jobs == nil {
		return nil, core.ErrJobNotFound
	}
	return s.jobs.GetByID(ctx, id)
}

// ListJobs returns recent run summaries, newest first.
func (s *ConsolidationService) ListJobs(ctx context.Context, limit int) ([]*ports.JobRecord, error) {
	if s.jobs == nil {
		return nil, nil
	}
	return s.jobs.ListRecent(ctx, limit)
}

func trimColumns(tables []*table.Table) {
	for _, t := range tables {
		for i, col := range t.Columns {
			t.Columns[i] = strings.TrimSpace(col)
		}
	}
}

func discoverColumns(tables []*table.Table) map[string]struct{} {
	all := make(map[string]struct{})
	for _, t := range tables {
		if t.IsEmpty() {
			continue
		}
		for _, col := range t.Columns {
			all[col] = struct{}{}
		}
	}
	return all
}

// buildAnomalyReport lists, per table, the master columns the table does not
// carry. Traceability columns are never reported.
func buildAnomalyReport(masterColumns []string, tables []*table.Table) string {
	var lines []string
	for _, t := range tables {
		if t.IsEmpty() {
			continue
		}
		have := make(map[string]struct{}, len(t.Columns))
		for _, col := range t.Columns {
			have[col] = struct{}{}
		}

		var missing []string
		for _, col := range masterColumns {
			if table.IsTraceabilityColumn(col) {
				continue
			}
			if _, ok := have[col]; !ok {
				missing = append(missing, col)
			}
		}
		if len(missing) == 0 {
			continue
		}
		sort.Strings(missing)
		lines = append(lines, fmt.Sprintf("%s -> %s -> Tabela %d: [%s]",
			t.Source.FileName, t.Source.SheetName, t.Source.TableIndex,
			strings.Join(missing, ", ")))
	}

	if len(lines) == 0 {
		return NoAnomaliesMessage
	}
	return strings.Join(lines, "\n")
}

func sourceNames(sources []ports.Source) []string {
	names := make([]string, len(sources))
	for i, src := range sources {
		names[i] = src.Name
	}
	return names
}
