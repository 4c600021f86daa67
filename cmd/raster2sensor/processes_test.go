package main

import (
	"testing"
)

func TestParseInputs(t *testing.T) {
	inputs, err := parseInputs([]string{"trial_id=t01", "threshold=0.4", "note=a=b"})
	if err != nil {
		t.Fatalf("parseInputs: %v", err)
	}
	if inputs["trial_id"] != "t01" {
		t.Fatalf("unexpected trial_id: %v", inputs["trial_id"])
	}
	if inputs["note"] != "a=b" {
		t.Fatalf("value with '=' not kept verbatim: %v", inputs["note"])
	}
	if len(inputs) != 3 {
		t.Fatalf("expected 3 inputs, got %d", len(inputs))
	}
}

func TestParseInputsInvalid(t *testing.T) {
	for _, bad := range []string{"novalue", "=orphan"} {
		if _, err := parseInputs([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestOutputHref(t *testing.T) {
	if got := outputHref(map[string]any{"href": "http://x/y.tif"}); got != "http://x/y.tif" {
		t.Fatalf("unexpected href %q", got)
	}
	if got := outputHref("inline string value"); got != "" {
		t.Fatalf("expected empty href for inline output, got %q", got)
	}
	if got := outputHref(map[string]any{"value": 3}); got != "" {
		t.Fatalf("expected empty href when absent, got %q", got)
	}
}

func TestOutputFileName(t *testing.T) {
	tests := []struct {
		name string
		href string
		want string
	}{
		{"coverage", "http://example.test/results/out.tif", "out.tif"},
		{"coverage", "http://example.test/results/out.tif?token=abc", "out.tif"},
		{"coverage", "http://example.test/", "coverage"},
		{"stats", "", "stats"},
	}
	for _, tc := range tests {
		if got := outputFileName(tc.name, tc.href); got != tc.want {
			t.Errorf("outputFileName(%q, %q) = %q, want %q", tc.name, tc.href, got, tc.want)
		}
	}
}
