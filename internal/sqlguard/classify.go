package sqlguard

import "regexp"

// Shape describes the statistical shape of a query's result set.
type Shape string

const (
	// ShapeScalarAggregate is an aggregate without grouping: one row.
	ShapeScalarAggregate Shape = "scalar_aggregate"
	// ShapeGroupedAggregate has a GROUP BY clause: one row per group.
	ShapeGroupedAggregate Shape = "grouped_aggregate"
	// ShapeDetail is a plain row listing.
	ShapeDetail Shape = "detail"
)

var (
	aggFuncs = regexp.MustCompile(`(?i)\b(SUM|AVG|COUNT|MIN|MAX)\s*\(`)
	groupBy  = regexp.MustCompile(`(?i)\bGROUP\s+BY\b`)
)

// Classify determines the shape of a validated statement from its text
// alone. It never fails: anything that is neither an aggregate nor grouped
// is a detail query.
//
// GROUP BY dominates: an aggregate combined with grouping is grouped, not
// scalar, so the group check must not come last.
func Classify(sql string) Shape {
	hasAgg := aggFuncs.MatchString(sql)
	hasGroup := groupBy.MatchString(sql)

	switch {
	case hasAgg && !hasGroup:
		return ShapeScalarAggregate
	case hasGroup:
		return ShapeGroupedAggregate
	default:
		return ShapeDetail
	}
}
