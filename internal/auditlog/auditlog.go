// Package auditlog appends one record per executed question to a CSV
// file for later review. The pipeline never depends on the log: append
// failures are reported through the logger and otherwise swallowed.
package auditlog

import (
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var header = []string{"id", "timestamp", "question", "sql", "row_count", "sample_rows"}

// Logger appends audit records to a CSV file.
type Logger struct {
	path string
	log  *slog.Logger
}

// New creates an audit logger writing to path.
func New(path string, log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{path: path, log: log}
}

// Record appends an audit entry. The file and header row are created on
// first use. sampleRows (typically the first few result rows) is stored
// as JSON; marshalling failures degrade to an empty sample.
func (l *Logger) Record(question, sqlText string, rowCount int, sampleRows any) {
	if l.path == "" {
		return
	}

	if err := l.append(question, sqlText, rowCount, sampleRows); err != nil {
		l.log.Warn("failed to write audit record", "path", l.path, "error", err)
	}
}

func (l *Logger) append(question, sqlText string, rowCount int, sampleRows any) error {
	if dir := filepath.Dir(l.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}

	_, statErr := os.Stat(l.path)
	newFile := os.IsNotExist(statErr)

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	sample := ""
	if sampleRows != nil {
		if b, err := json.Marshal(sampleRows); err == nil {
			sample = string(b)
		}
	}

	w := csv.NewWriter(f)
	if newFile {
		if err := w.Write(header); err != nil {
			return err
		}
	}
	record := []string{
		uuid.New().String(),
		time.Now().Format(time.RFC3339),
		question,
		sqlText,
		strconv.Itoa(rowCount),
		sample,
	}
	if err := w.Write(record); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
