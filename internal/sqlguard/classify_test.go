package sqlguard

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want Shape
	}{
		{
			name: "scalar sum",
			sql:  "SELECT SUM(amount_clp) FROM expenses",
			want: ShapeScalarAggregate,
		},
		{
			name: "scalar count with where",
			sql:  "SELECT COUNT(*) FROM incomes WHERE date >= '2024-01-01'",
			want: ShapeScalarAggregate,
		},
		{
			name: "grouped aggregate",
			sql:  "SELECT category, SUM(amount_clp) FROM expenses GROUP BY category",
			want: ShapeGroupedAggregate,
		},
		{
			name: "group by without aggregate",
			sql:  "SELECT category FROM expenses GROUP BY category",
			want: ShapeGroupedAggregate,
		},
		{
			name: "detail star",
			sql:  "SELECT * FROM expenses",
			want: ShapeDetail,
		},
		{
			name: "detail with where",
			sql:  "SELECT date, description FROM expenses WHERE amount_clp > 10000",
			want: ShapeDetail,
		},
		{
			name: "lowercase",
			sql:  "select avg(amount_clp) from expenses",
			want: ShapeScalarAggregate,
		},
		{
			name: "group by with extra whitespace",
			sql:  "SELECT day, MAX(amount_clp) FROM expenses GROUP\n BY day",
			want: ShapeGroupedAggregate,
		},
		{
			name: "column named summary is not an aggregate",
			sql:  "SELECT summary FROM expenses",
			want: ShapeDetail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.sql); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.sql, got, tt.want)
			}
		})
	}
}
