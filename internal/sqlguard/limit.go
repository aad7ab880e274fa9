package sqlguard

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	limitClause = regexp.MustCompile(`(?i)\bLIMIT\s+\d+\b`)
	topKPattern = regexp.MustCompile(`(?i)\b(top|bottom|first|last)\s+(\d+)\b`)
	allPattern  = regexp.MustCompile(`(?i)\b(all|everything|entire|complete|total|full)\b`)
)

// HasLimit reports whether sql already carries a LIMIT clause with a
// numeric bound.
func HasLimit(sql string) bool {
	return limitClause.MatchString(sql)
}

// RequestedK extracts an explicit row count from phrasings like "top 5" or
// "last 3" in the natural-language question. Returns 0, false when the
// question names no count.
func RequestedK(nlQuestion string) (int, bool) {
	m := topKPattern.FindStringSubmatch(nlQuestion)
	if m == nil {
		return 0, false
	}
	k, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	return k, true
}

// AskedForAll reports whether the question explicitly asks for the full
// result set ("all", "everything", ...).
func AskedForAll(nlQuestion string) bool {
	return allPattern.MatchString(nlQuestion)
}

// ApplyLimitPolicy reconciles the user's intent with a defensive row cap
// and returns the finalized statement. The rules, first match wins:
//
//  1. An explicit LIMIT is never overridden.
//  2. Scalar aggregates return a single row and need no cap.
//  3. Grouped aggregates get a LIMIT only when the question asks for a
//     top/bottom K; capping them otherwise would silently hide categories.
//  4. Detail queries get the default cap unless the question asks for
//     everything. The executor's preview cap still applies either way.
//
// The transform is idempotent: a finalized statement carries a LIMIT (or
// legitimately needs none) and passes through rule 1 or 2 unchanged.
func ApplyLimitPolicy(sql, nlQuestion string, defaultLimit int) string {
	if HasLimit(sql) {
		return sql
	}

	switch Classify(sql) {
	case ShapeScalarAggregate:
		return sql
	case ShapeGroupedAggregate:
		if k, ok := RequestedK(nlQuestion); ok {
			return fmt.Sprintf("%s LIMIT %d", sql, max(1, k))
		}
		return sql
	default:
		if AskedForAll(nlQuestion) {
			return sql
		}
		return fmt.Sprintf("%s LIMIT %d", sql, defaultLimit)
	}
}
