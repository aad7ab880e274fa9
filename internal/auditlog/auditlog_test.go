package auditlog

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/finqlabs/finq/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_CreatesFileWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sql_calls.csv")
	l := New(path, testutil.NewTestLogger(t))

	l.Record("how much did I spend", "SELECT SUM(amount_clp) FROM expenses", 1,
		[]map[string]any{{"total": 1000}})

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, header, records[0])
	row := records[1]
	assert.NotEmpty(t, row[0], "id")
	assert.NotEmpty(t, row[1], "timestamp")
	assert.Equal(t, "how much did I spend", row[2])
	assert.Equal(t, "SELECT SUM(amount_clp) FROM expenses", row[3])
	assert.Equal(t, "1", row[4])
	assert.Contains(t, row[5], "total")
}

func TestRecord_AppendsWithoutDuplicateHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sql_calls.csv")
	l := New(path, testutil.NewTestLogger(t))

	l.Record("q1", "SELECT 1", 1, nil)
	l.Record("q2", "SELECT 2", 2, nil)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "one header plus two entries")
	assert.Equal(t, "q1", records[1][2])
	assert.Equal(t, "q2", records[2][2])
}

func TestRecord_EmptyPathIsNoop(t *testing.T) {
	l := New("", testutil.NewTestLogger(t))
	l.Record("q", "SELECT 1", 0, nil) // must not panic
}

func TestRecord_UnwritablePathDoesNotFail(t *testing.T) {
	// Pointing at a directory makes the open fail; Record must swallow it.
	dir := t.TempDir()
	l := New(dir, testutil.NewTestLogger(t))
	l.Record("q", "SELECT 1", 0, nil)
}
