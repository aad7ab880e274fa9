// Package sqlguard validates untrusted SQL before it ever reaches the
// database. Candidate statements come from a language model and are
// treated as hostile input: only a single read-only statement survives.
//
// The checks are deliberately textual. The guard constrains the statement
// surface enough that the downstream classifier and limit policy can get
// away with structural scans instead of a full SQL parser.
package sqlguard

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validation errors returned by Validate. Callers match with errors.Is.
var (
	ErrEmptyQuery         = errors.New("sql query must be a non-empty string")
	ErrMultiStatement     = errors.New("only a single sql statement is allowed")
	ErrNotReadOnly        = errors.New("only SELECT/WITH statements are allowed")
	ErrDestructiveKeyword = errors.New("destructive or unsafe sql keyword detected")
)

var (
	allowedStart = regexp.MustCompile(`(?i)^\s*(SELECT|WITH)\b`)

	// Matched anywhere in the statement, including inside string literals
	// and comments. False positives are acceptable, false negatives are not.
	dangerous = regexp.MustCompile(`(?i)\b(DROP|DELETE|UPDATE|INSERT|ALTER|REPLACE|ATTACH|DETACH|VACUUM|PRAGMA)\b`)
)

// Validate checks that candidate is a single, read-only SQL statement and
// returns it with surrounding whitespace and the trailing terminator
// stripped. The returned string is safe to classify and execute.
func Validate(candidate string) (string, error) {
	s := strings.TrimSpace(candidate)
	if s == "" {
		return "", ErrEmptyQuery
	}

	// A single trailing terminator is tolerated; any other semicolon means
	// statement stacking and is rejected outright.
	s = strings.TrimSpace(strings.TrimSuffix(s, ";"))
	if strings.Contains(s, ";") {
		return "", ErrMultiStatement
	}

	if !allowedStart.MatchString(s) {
		return "", ErrNotReadOnly
	}

	if m := dangerous.FindString(s); m != "" {
		return "", fmt.Errorf("%w: %s", ErrDestructiveKeyword, strings.ToUpper(m))
	}

	return s, nil
}
