// Package sqlitedb adapts a SQLite database as an MCP tool server.
package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Config holds the database adapter configuration.
type Config struct {
	// Path is the SQLite database file. Required.
	Path string `yaml:"path" env:"SQLITE_DB_PATH"`
	// ReadOnly disables the execute tool entirely.
	ReadOnly bool `yaml:"read_only" env:"SQLITE_READ_ONLY"`
}

// DB wraps the shared database handle. One handle is opened at
// startup and shared by every tool invocation.
type DB struct {
	db *sql.DB
}

// Open opens the database and verifies the connection. A missing or
// unopenable file is a startup failure.
func Open(cfg Config) (*DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	dsn := cfg.Path
	if cfg.ReadOnly {
		dsn = "file:" + cfg.Path + "?mode=ro"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{db: db}, nil
}

// Close releases the database handle.
func (d *DB) Close() error { return d.db.Close() }

// Query runs a read-only statement and returns rows as ordered maps.
// Statements that could mutate are rejected here so the query tool
// can never write, regardless of configuration.
func (d *DB) Query(ctx context.Context, query string, limit int) ([]map[string]any, error) {
	if !isReadOnlyStatement(query) {
		return nil, fmt.Errorf("query tool only accepts SELECT/WITH/PRAGMA statements")
	}

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	var out []map[string]any
	for rows.Next() {
		if limit > 0 && len(out) >= limit {
			break
		}
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// ExecResult reports the effect of a write statement.
type ExecResult struct {
	RowsAffected int64 `json:"rows_affected"`
	LastInsertID int64 `json:"last_insert_id,omitempty"`
}

// Execute runs a write statement.
func (d *DB) Execute(ctx context.Context, stmt string) (*ExecResult, error) {
	res, err := d.db.ExecContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}
	affected, _ := res.RowsAffected()
	lastID, _ := res.LastInsertId()
	return &ExecResult{RowsAffected: affected, LastInsertID: lastID}, nil
}

// ListTables returns user table names in declaration order.
func (d *DB) ListTables(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// Column describes one table column.
type Column struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	NotNull    bool   `json:"not_null"`
	PrimaryKey bool   `json:"primary_key"`
}

// DescribeTable returns a table's column definitions.
func (d *DB) DescribeTable(ctx context.Context, table string) ([]Column, error) {
	if !isIdentifier(table) {
		return nil, fmt.Errorf("invalid table name: %s", table)
	}

	rows, err := d.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, fmt.Errorf("describe table: %w", err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var (
			cid       int
			name, typ string
			notNull   int
			dflt      any
			pk        int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns = append(columns, Column{Name: name, Type: typ, NotNull: notNull != 0, PrimaryKey: pk != 0})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("no such table: %s", table)
	}
	return columns, nil
}

// isReadOnlyStatement accepts the statement shapes the query tool may
// run. A WITH prologue can front a write statement (WITH t AS (...)
// DELETE ...), so those are additionally scanned for write verbs.
func isReadOnlyStatement(query string) bool {
	head := strings.ToUpper(strings.TrimSpace(query))
	switch {
	case strings.HasPrefix(head, "SELECT"),
		strings.HasPrefix(head, "PRAGMA"),
		strings.HasPrefix(head, "EXPLAIN"):
		return true
	case strings.HasPrefix(head, "WITH"):
		return !containsWriteVerb(head)
	}
	return false
}

var writeVerbs = map[string]bool{
	"INSERT": true, "UPDATE": true, "DELETE": true, "REPLACE": true,
	"CREATE": true, "DROP": true, "ALTER": true, "VACUUM": true, "ATTACH": true,
}

// containsWriteVerb scans bare word tokens, skipping single-quoted
// string literals so text like 'delete me' does not trip the guard.
func containsWriteVerb(stmt string) bool {
	inString := false
	var word strings.Builder
	flush := func() bool {
		defer word.Reset()
		return writeVerbs[word.String()]
	}
	for _, r := range stmt {
		if inString {
			if r == '\'' {
				inString = false
			}
			continue
		}
		switch {
		case r == '\'':
			if flush() {
				return true
			}
			inString = true
		case r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_':
			word.WriteRune(r)
		default:
			if flush() {
				return true
			}
		}
	}
	return flush()
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
