// Package schema builds a compact description of the finance database
// (tables, columns, and a bounded sample of rows) for the SQL generator's
// prompt. The snapshot is plain JSON so it can be cached on disk and
// regenerated whenever the data changes.
package schema

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
)

// DefaultSampleLimit bounds the sample rows captured per table.
const DefaultSampleLimit = 5

// Column describes a single table column.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Table describes one table with example rows.
type Table struct {
	Columns []Column         `json:"columns"`
	Samples []map[string]any `json:"samples"`
}

// Snapshot maps table name to its description.
type Snapshot map[string]Table

// Capture reads table and column metadata plus up to sampleLimit sample
// rows per table from an open database.
func Capture(ctx context.Context, db *sql.DB, sampleLimit int) (Snapshot, error) {
	if sampleLimit <= 0 {
		sampleLimit = DefaultSampleLimit
	}

	names, err := tableNames(ctx, db)
	if err != nil {
		return nil, err
	}

	snap := make(Snapshot, len(names))
	for _, name := range names {
		cols, err := tableColumns(ctx, db, name)
		if err != nil {
			return nil, err
		}
		samples, err := sampleRows(ctx, db, name, sampleLimit)
		if err != nil {
			return nil, err
		}
		snap[name] = Table{Columns: cols, Samples: samples}
	}
	return snap, nil
}

// JSON renders the snapshot as a compact JSON string for prompt embedding.
func (s Snapshot) JSON() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to encode schema snapshot: %w", err)
	}
	return string(b), nil
}

// WriteFile persists the snapshot as indented JSON.
func (s Snapshot) WriteFile(path string) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode schema snapshot: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write schema snapshot: %w", err)
	}
	return nil
}

// LoadFile reads a snapshot previously written with WriteFile.
func LoadFile(path string) (Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse schema snapshot %s: %w", path, err)
	}
	return snap, nil
}

func tableNames(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table'
		AND name NOT LIKE 'sqlite_%'
		AND name NOT LIKE 'goose_%'
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func tableColumns(ctx context.Context, db *sql.DB, table string) ([]Column, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("failed to describe %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var cols []Column
	for rows.Next() {
		var cid, notNull, pk int
		var name, colType string
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, Column{Name: name, Type: colType})
	}
	return cols, rows.Err()
}

func sampleRows(ctx context.Context, db *sql.DB, table string, limit int) ([]map[string]any, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT %d", table, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to sample %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var samples []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			val := values[i]
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			row[col] = val
		}
		samples = append(samples, row)
	}
	return samples, rows.Err()
}
