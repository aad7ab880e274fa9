package sqlguard

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate_AllowsSelect(t *testing.T) {
	got, err := Validate("SELECT * FROM expenses;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "SELECT * FROM expenses" {
		t.Errorf("expected trailing semicolon stripped, got %q", got)
	}
}

func TestValidate_AllowsCTE(t *testing.T) {
	sql := "WITH monthly AS (SELECT date, amount_clp FROM expenses) SELECT * FROM monthly"
	got, err := Validate(sql)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != sql {
		t.Errorf("expected statement unchanged, got %q", got)
	}
}

func TestValidate_LowercaseKeywords(t *testing.T) {
	if _, err := Validate("select category from expenses"); err != nil {
		t.Errorf("lowercase select should pass: %v", err)
	}
}

func TestValidate_EmptyQuery(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t"} {
		if _, err := Validate(input); !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("Validate(%q) = %v, want ErrEmptyQuery", input, err)
		}
	}
}

func TestValidate_MultiStatement(t *testing.T) {
	cases := []string{
		"SELECT 1; SELECT 2",
		"SELECT 1; DROP TABLE expenses",
		"SELECT 1;;",
		"SELECT 1; --",
	}
	for _, input := range cases {
		if _, err := Validate(input); !errors.Is(err, ErrMultiStatement) {
			t.Errorf("Validate(%q) = %v, want ErrMultiStatement", input, err)
		}
	}
}

func TestValidate_NotReadOnly(t *testing.T) {
	cases := []string{
		"EXPLAIN SELECT * FROM expenses",
		"BEGIN TRANSACTION",
		"-- comment\nnope",
	}
	for _, input := range cases {
		if _, err := Validate(input); !errors.Is(err, ErrNotReadOnly) {
			t.Errorf("Validate(%q) = %v, want ErrNotReadOnly", input, err)
		}
	}
}

func TestValidate_DestructiveKeywords(t *testing.T) {
	cases := []string{
		"SELECT * FROM expenses WHERE note = 'x'; DROP TABLE expenses",
		"SELECT 1 UNION SELECT 2 FROM t WHERE delete_me = 1 AND 1=1 OR (DELETE)",
		"WITH x AS (SELECT 1) INSERT INTO expenses SELECT * FROM x",
		"SELECT * FROM expenses -- update later",
		"SELECT 'drop table expenses' AS note FROM expenses",
		"select pragma_table_info FROM t WHERE PRAGMA",
	}
	for _, input := range cases {
		_, err := Validate(input)
		if err == nil {
			t.Errorf("Validate(%q) passed, want rejection", input)
			continue
		}
		if !errors.Is(err, ErrDestructiveKeyword) && !errors.Is(err, ErrMultiStatement) && !errors.Is(err, ErrNotReadOnly) {
			t.Errorf("Validate(%q) = %v, want guard error", input, err)
		}
	}
}

func TestValidate_KeywordAnywhereTrips(t *testing.T) {
	// Conservative by contract: keywords inside string literals still trip
	// the guard.
	for _, kw := range []string{"DROP", "DELETE", "UPDATE", "INSERT", "ALTER", "PRAGMA", "VACUUM", "ATTACH", "DETACH", "REPLACE"} {
		sql := "SELECT '" + strings.ToLower(kw) + "' FROM expenses"
		if _, err := Validate(sql); !errors.Is(err, ErrDestructiveKeyword) {
			t.Errorf("Validate(%q) = %v, want ErrDestructiveKeyword", sql, err)
		}
	}
}

func TestValidate_WordBoundary(t *testing.T) {
	// Substrings of dangerous keywords inside identifiers are fine.
	cases := []string{
		"SELECT updated_at FROM expenses",
		"SELECT * FROM deleted_items_view",
		"SELECT dropoff FROM rides",
	}
	for _, input := range cases {
		if _, err := Validate(input); err != nil {
			t.Errorf("Validate(%q) = %v, want pass", input, err)
		}
	}
}
