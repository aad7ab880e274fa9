package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/finqlabs/finq/internal/packager"
	"github.com/finqlabs/finq/internal/pipeline"
	"github.com/finqlabs/finq/internal/sqlguard"
	"github.com/jedib0t/go-pretty/v6/table"
)

// renderRows writes rows in the requested format. Columns keep their
// result-set order across all formats.
func renderRows(w io.Writer, cols []string, rows []map[string]any, format string) error {
	switch format {
	case "json":
		return renderJSON(w, rows)
	case "csv":
		return renderCSV(w, cols, rows)
	case "md", "markdown":
		return renderMarkdown(w, cols, rows)
	default:
		return renderTable(w, cols, rows)
	}
}

func renderTable(w io.Writer, cols []string, rows []map[string]any) error {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(cols))
	for i, col := range cols {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, r := range rows {
		row := make(table.Row, len(cols))
		for i, col := range cols {
			row[i] = formatValue(r[col])
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
	return nil
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderCSV(w io.Writer, cols []string, rows []map[string]any) error {
	_, _ = fmt.Fprintln(w, strings.Join(cols, ","))
	for _, r := range rows {
		values := make([]string, len(cols))
		for i, col := range cols {
			values[i] = escapeCSV(formatValue(r[col]))
		}
		_, _ = fmt.Fprintln(w, strings.Join(values, ","))
	}
	return nil
}

func renderMarkdown(w io.Writer, cols []string, rows []map[string]any) error {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(cols, " | "))
	seps := make([]string, len(cols))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for _, r := range rows {
		values := make([]string, len(cols))
		for i, col := range cols {
			values[i] = formatValue(r[col])
		}
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(values, " | "))
	}
	return nil
}

// renderAnswer writes a full pipeline answer: the summary (when present),
// the executed SQL, and the shaped data.
func renderAnswer(w io.Writer, ans *pipeline.Answer, format string) error {
	if format == "json" {
		return renderJSON(w, map[string]any{
			"question": ans.Question,
			"sql":      ans.SQL,
			"summary":  ans.Summary,
			"result":   ans.Packaged,
		})
	}

	if ans.Summary != "" {
		_, _ = fmt.Fprintln(w, ans.Summary)
		_, _ = fmt.Fprintln(w)
	}
	_, _ = fmt.Fprintf(w, "SQL: %s\n", ans.SQL)

	if err := renderPackaged(w, ans.Packaged, format); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "%d rows in %s\n", ans.Packaged.RowCount, ans.Packaged.Elapsed)
	return nil
}

// renderPackaged writes the shape-dependent data section.
func renderPackaged(w io.Writer, p *packager.Packaged, format string) error {
	switch p.Shape {
	case sqlguard.ShapeScalarAggregate:
		row, _ := p.Data.(map[string]any)
		if len(row) == 0 {
			_, _ = fmt.Fprintln(w, "(no matching records)")
			return nil
		}
		return renderRows(w, p.Columns, []map[string]any{row}, format)

	case sqlguard.ShapeGroupedAggregate:
		rows, _ := p.Data.([]map[string]any)
		return renderRows(w, p.Columns, rows, format)

	default:
		data, _ := p.Data.(*packager.DetailData)
		if data == nil {
			return nil
		}
		if err := renderRows(w, p.Columns, data.Preview, format); err != nil {
			return err
		}
		if len(data.Totals) > 0 {
			names := make([]string, 0, len(data.Totals))
			for name := range data.Totals {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				_, _ = fmt.Fprintf(w, "%s: %s\n", name, data.Totals[name])
			}
		}
		return nil
	}
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
