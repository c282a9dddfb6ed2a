// Package staging merges source tables through a SQL staging table and keeps
// the consolidation job history. It speaks two dialects: a scratch SQLite
// database for the default single-user setup, and Postgres when DATABASE_URL
// points at one.
package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL flavor for DDL and placeholders.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Open connects to the staging database. An empty databaseURL opens (and
// creates) a SQLite database file under dataDir; otherwise databaseURL is
// treated as a Postgres DSN.
func Open(databaseURL, dataDir string) (*sqlx.DB, Dialect, error) {
	if databaseURL == "" {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, "", fmt.Errorf("failed to create data directory: %w", err)
		}
		path := filepath.Join(dataDir, "consolidador.db")
		db, err := sqlx.Connect("sqlite", path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// modernc's driver serializes access through a single connection.
		db.SetMaxOpenConns(1)
		return db, DialectSQLite, nil
	}

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, DialectPostgres, nil
}

// quoteIdent quotes a SQL identifier, doubling embedded quotes. Column names
// come straight from spreadsheet headers and cannot be bound as parameters.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// placeholders renders n bind markers in the dialect's syntax, starting at
// position start (1-based, Postgres only).
func (d Dialect) placeholders(start, n int) string {
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		if d == DialectPostgres {
			parts[i] = fmt.Sprintf("$%d", start+i)
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}
