// Package packager shapes raw execution results into a display-ready
// structure: scalar passthrough, sorted and truncated groups, or a
// preview-plus-totals view for detail rows.
package packager

import (
	"sort"

	"github.com/finqlabs/finq/internal/executor"
	"github.com/finqlabs/finq/internal/sqlguard"
	"github.com/shopspring/decimal"
)

// Defaults for the display transforms.
const (
	DefaultMaxGroups     = 20
	DefaultMaxDetailRows = 20
)

// monetaryColumns are the column names whose values are summed for detail
// results.
var monetaryColumns = []string{"amount_clp", "expense", "income"}

// Packaged is the display-ready form of an execution result. Data depends
// on Shape: a single row map for scalar aggregates, a row slice for
// grouped aggregates, or a *DetailData for detail queries.
type Packaged struct {
	Shape    sqlguard.Shape `json:"type"`
	Columns  []string       `json:"columns"`
	RowCount int            `json:"row_count"`
	Elapsed  string         `json:"elapsed"`
	Data     any            `json:"data"`
}

// DetailData holds the preview rows and monetary totals for a detail
// result. Totals are computed over the rows the executor supplied, which
// for capped detail queries is the preview set, not the true total.
type DetailData struct {
	Preview []map[string]any           `json:"preview"`
	Totals  map[string]decimal.Decimal `json:"totals"`
}

// Package transforms res according to its shape. maxGroups and
// maxDetailRows fall back to the package defaults when non-positive.
func Package(res *executor.Result, maxGroups, maxDetailRows int) *Packaged {
	if maxGroups <= 0 {
		maxGroups = DefaultMaxGroups
	}
	if maxDetailRows <= 0 {
		maxDetailRows = DefaultMaxDetailRows
	}

	p := &Packaged{
		Shape:    res.Shape,
		Columns:  res.Columns,
		RowCount: res.RowCount,
		Elapsed:  res.Elapsed.String(),
	}

	switch res.Shape {
	case sqlguard.ShapeScalarAggregate:
		// Zero rows is a valid empty-result state, not an error.
		if len(res.Rows) > 0 {
			p.Data = res.Rows[0]
		} else {
			p.Data = map[string]any{}
		}

	case sqlguard.ShapeGroupedAggregate:
		p.Data = packageGroups(res, maxGroups)

	default:
		p.Data = packageDetail(res, maxDetailRows)
	}

	return p
}

// packageGroups sorts rows descending by the first numeric column after
// the leading grouping key. The sort is stable so ties keep their original
// relative order, and null values sort as zero. Without a numeric column
// the order is left unchanged.
func packageGroups(res *executor.Result, maxGroups int) []map[string]any {
	sortCol := ""
	if len(res.Columns) > 1 && len(res.Rows) > 0 {
		for _, c := range res.Columns[1:] {
			if _, ok := asNumber(res.Rows[0][c]); ok {
				sortCol = c
				break
			}
		}
	}

	rows := make([]map[string]any, len(res.Rows))
	copy(rows, res.Rows)

	if sortCol != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			a, _ := asNumber(rows[i][sortCol])
			b, _ := asNumber(rows[j][sortCol])
			return a > b
		})
	}

	if len(rows) > maxGroups {
		rows = rows[:maxGroups]
	}
	return rows
}

// packageDetail builds the preview slice and sums known monetary columns
// over all supplied rows. Non-numeric and missing values contribute
// nothing to a sum.
func packageDetail(res *executor.Result, maxDetailRows int) *DetailData {
	preview := res.Rows
	if len(preview) > maxDetailRows {
		preview = preview[:maxDetailRows]
	}

	totals := make(map[string]decimal.Decimal)
	present := make(map[string]bool, len(res.Columns))
	for _, c := range res.Columns {
		present[c] = true
	}

	for _, col := range monetaryColumns {
		if !present[col] {
			continue
		}
		sum := decimal.Zero
		for _, row := range res.Rows {
			if v, ok := asNumber(row[col]); ok {
				sum = sum.Add(decimal.NewFromFloat(v))
			}
		}
		totals["total_"+col] = sum
	}

	return &DetailData{Preview: preview, Totals: totals}
}

// asNumber coerces the numeric types the sqlite driver hands back.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
