// Package executor runs finalized read-only SQL against the finance
// database and returns a structured result with timing. It trusts nothing
// about upstream classification and re-derives the query shape itself.
package executor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/finqlabs/finq/internal/sqlguard"

	// sqlite driver for the finance database.
	_ "modernc.org/sqlite"
)

// DefaultPreviewCap bounds the rows kept in memory for detail queries.
const DefaultPreviewCap = 1000

// ErrStoreNotFound is returned when the database file does not exist.
var ErrStoreNotFound = errors.New("database not found")

// ExecError wraps a store-level failure (malformed query, unknown column)
// with the statement that caused it. Execution errors are never retried at
// this layer; a generation retry loop upstream is the right place to react.
type ExecError struct {
	SQL string
	Err error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("sql execution error: %v", e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// Result is the structured outcome of a single query execution.
//
// Rows may be a truncated preview of RowCount when Shape is detail;
// callers must not assume len(Rows) == RowCount.
type Result struct {
	Shape    sqlguard.Shape   `json:"type"`
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
	Elapsed  time.Duration    `json:"elapsed"`
}

// Execute opens the database at dbPath read-only, runs sql, and returns
// the structured result. The connection lives only for the duration of
// the call and is released on every exit path.
func Execute(ctx context.Context, dbPath, sqlText string, previewCap int) (*Result, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w at %s", ErrStoreNotFound, dbPath)
	}

	db, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	return Query(ctx, db, sqlText, previewCap)
}

// Query runs sqlText against an already-open connection. Split out from
// Execute so callers with their own connection (and tests) can reuse it.
func Query(ctx context.Context, db *sql.DB, sqlText string, previewCap int) (*Result, error) {
	if previewCap <= 0 {
		previewCap = DefaultPreviewCap
	}

	start := time.Now()
	rows, err := db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, &ExecError{SQL: sqlText, Err: err}
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &ExecError{SQL: sqlText, Err: err}
	}

	var all []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, &ExecError{SQL: sqlText, Err: err}
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			val := values[i]
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			row[col] = val
		}
		all = append(all, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &ExecError{SQL: sqlText, Err: err}
	}

	elapsed := time.Since(start)

	// Defensive re-derivation: upstream classification is not trusted here.
	shape := sqlguard.Classify(sqlText)
	rowCount := len(all)

	preview := all
	if shape == sqlguard.ShapeDetail && rowCount > previewCap {
		preview = all[:previewCap]
	}

	return &Result{
		Shape:    shape,
		Columns:  cols,
		Rows:     preview,
		RowCount: rowCount,
		Elapsed:  elapsed,
	}, nil
}
