package query

import (
	"testing"
)

func TestExpressionString(t *testing.T) {
	tests := []struct {
		name     string
		expr     Expression
		expected string
	}{
		{
			name:     "string equal",
			expr:     Eq("properties/trial_id", "wheat-2026"),
			expected: "properties/trial_id eq 'wheat-2026'",
		},
		{
			name:     "string with quote escaped",
			expr:     Eq("name", "o'brien"),
			expected: "name eq 'o''brien'",
		},
		{
			name:     "int comparison",
			expr:     Gt("properties/row", 4),
			expected: "properties/row gt 4",
		},
		{
			name:     "float comparison",
			expr:     Le("result", 7.5),
			expected: "result le 7.5",
		},
		{
			name:     "bool comparison",
			expr:     Ne("properties/active", true),
			expected: "properties/active ne true",
		},
		{
			name:     "null comparison",
			expr:     Eq("description", nil),
			expected: "description eq null",
		},
		{
			name:     "and",
			expr:     And(Eq("a", 1), Eq("b", 2)),
			expected: "(a eq 1 and b eq 2)",
		},
		{
			name:     "or of three",
			expr:     Or(Eq("a", 1), Eq("b", 2), Eq("c", 3)),
			expected: "(a eq 1 or b eq 2 or c eq 3)",
		},
		{
			name:     "single-arg and collapses",
			expr:     And(Eq("a", 1)),
			expected: "a eq 1",
		},
		{
			name:     "and skips nil args",
			expr:     And(nil, Eq("a", 1)),
			expected: "a eq 1",
		},
		{
			name:     "not",
			expr:     Not(Eq("a", 1)),
			expected: "not (a eq 1)",
		},
		{
			name:     "nested",
			expr:     And(Eq("properties/trial_id", "t01"), Or(Ge("properties/row", 1), Lt("properties/col", 10))),
			expected: "(properties/trial_id eq 't01' and (properties/row ge 1 or properties/col lt 10))",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.expr.String(); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestQueryValues(t *testing.T) {
	q := New().
		Filter(Eq("properties/trial_id", "t01")).
		Expand("Locations").
		Select("name", "properties").
		OrderBy("name asc").
		Top(100).
		Skip(200).
		Count()

	values := q.Values()
	checks := map[string]string{
		"$filter":  "properties/trial_id eq 't01'",
		"$expand":  "Locations",
		"$select":  "name,properties",
		"$orderby": "name asc",
		"$top":     "100",
		"$skip":    "200",
		"$count":   "true",
	}
	for key, want := range checks {
		if got := values.Get(key); got != want {
			t.Errorf("%s: expected %q, got %q", key, want, got)
		}
	}
}

func TestQueryFilterAccumulates(t *testing.T) {
	q := New().
		Filter(Eq("a", 1)).
		Filter(Eq("b", 2))

	want := "(a eq 1 and b eq 2)"
	if got := q.Values().Get("$filter"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestNilQueryValues(t *testing.T) {
	var q *Query
	if values := q.Values(); values != nil {
		t.Fatalf("expected nil values, got %v", values)
	}
}

func TestEmptyQueryValues(t *testing.T) {
	if values := New().Values(); len(values) != 0 {
		t.Fatalf("expected no parameters, got %v", values)
	}
}
