package staging

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"consolidador/domain/table"
	"consolidador/ports"
)

// insertBatchRows caps how many rows one INSERT carries. Kept conservative so
// wide tables stay under both drivers' bind-parameter limits.
const insertBatchRows = 100

// Store implements ports.StagingStore over a sqlx database.
type Store struct {
	db      *sqlx.DB
	dialect Dialect
}

// NewStore creates a staging store over an open database.
func NewStore(db *sqlx.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

var _ ports.StagingStore = (*Store)(nil)

// Stage merges the source tables: a run-scoped staging table is created with
// every master column as TEXT, rows are inserted aligned to the master
// columns (absent columns as NULL), and the merged rows are read back in
// insertion order. The staging table is dropped afterwards.
func (s *Store) Stage(ctx context.Context, masterColumns []string, tables []*table.Table) (*table.Consolidated, error) {
	if len(masterColumns) == 0 {
		return &table.Consolidated{}, nil
	}

	stagingTable := fmt.Sprintf("consolidada_%s", strings.ReplaceAll(uuid.New().String()[:8], "-", ""))
	if err := s.createStagingTable(ctx, stagingTable, masterColumns); err != nil {
		return nil, err
	}
	defer func() {
		if _, err := s.db.ExecContext(context.Background(), "DROP TABLE IF EXISTS "+quoteIdent(stagingTable)); err != nil {
			log.Printf("[Staging] Failed to drop staging table %s: %v", stagingTable, err)
		}
	}()

	if err := s.loadTables(ctx, stagingTable, masterColumns, tables); err != nil {
		return nil, err
	}

	return s.extract(ctx, stagingTable, masterColumns)
}

func (s *Store) createStagingTable(ctx context.Context, name string, columns []string) error {
	defs := make([]string, 0, len(columns)+1)
	if s.dialect == DialectPostgres {
		defs = append(defs, `"seq" BIGSERIAL PRIMARY KEY`)
	} else {
		defs = append(defs, `"seq" INTEGER PRIMARY KEY AUTOINCREMENT`)
	}
	for _, col := range columns {
		defs = append(defs, quoteIdent(col)+" TEXT")
	}

	query := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(defs, ", "))
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create staging table: %w", err)
	}
	return nil
}

// loadTables inserts every table's rows aligned to the master columns.
func (s *Store) loadTables(ctx context.Context, stagingTable string, masterColumns []string, tables []*table.Table) error {
	quoted := make([]string, len(masterColumns))
	for i, col := range masterColumns {
		quoted[i] = quoteIdent(col)
	}
	columnList := strings.Join(quoted, ", ")

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin staging transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range tables {
		if t.IsEmpty() {
			continue
		}

		// Map each master column to its position in this table, -1 when absent.
		positions := make([]int, len(masterColumns))
		for i, col := range masterColumns {
			positions[i] = -1
			for j, tc := range t.Columns {
				if strings.TrimSpace(tc) == col {
					positions[i] = j
					break
				}
			}
		}

		for start := 0; start < len(t.Rows); start += insertBatchRows {
			end := start + insertBatchRows
			if end > len(t.Rows) {
				end = len(t.Rows)
			}
			if err := s.insertBatch(ctx, tx, stagingTable, columnList, len(masterColumns), positions, t.Rows[start:end]); err != nil {
				return fmt.Errorf("failed to load table %s -> %s -> %d: %w",
					t.Source.FileName, t.Source.SheetName, t.Source.TableIndex, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit staging transaction: %w", err)
	}
	return nil
}

func (s *Store) insertBatch(ctx context.Context, tx *sqlx.Tx, stagingTable, columnList string, width int, positions []int, rows [][]string) error {
	valueGroups := make([]string, len(rows))
	args := make([]interface{}, 0, len(rows)*width)
	for i, row := range rows {
		valueGroups[i] = "(" + s.dialect.placeholders(i*width+1, width) + ")"
		for _, pos := range positions {
			if pos >= 0 && pos < len(row) && row[pos] != "" {
				args = append(args, row[pos])
			} else {
				args = append(args, nil)
			}
		}
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		quoteIdent(stagingTable), columnList, strings.Join(valueGroups, ", "))
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// extract reads the merged rows back in explicit master-column order.
func (s *Store) extract(ctx context.Context, stagingTable string, masterColumns []string) (*table.Consolidated, error) {
	quoted := make([]string, len(masterColumns))
	for i, col := range masterColumns {
		quoted[i] = quoteIdent(col)
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(quoted, ", "), quoteIdent(stagingTable), quoteIdent("seq"))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read consolidated rows: %w", err)
	}
	defer rows.Close()

	result := &table.Consolidated{Columns: append([]string(nil), masterColumns...)}
	for rows.Next() {
		scanned := make([]sql.NullString, len(masterColumns))
		targets := make([]interface{}, len(masterColumns))
		for i := range scanned {
			targets[i] = &scanned[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("failed to scan consolidated row: %w", err)
		}

		row := make([]string, len(masterColumns))
		for i, v := range scanned {
			if v.Valid {
				row[i] = v.String
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate consolidated rows: %w", err)
	}
	return result, nil
}
