package db

import (
	"bytes"
	"strings"
	"testing"
)

func TestDisplayNoRows(t *testing.T) {
	tests := []struct {
		name   string
		result QueryResult
	}{
		{"no columns", QueryResult{}},
		{"columns without rows", QueryResult{Columns: []string{"a", "b"}}},
		{"rows without columns", QueryResult{Data: [][]string{{}}}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			test.result.Display(&buf)
			if buf.String() != "No Data\n" {
				t.Errorf("Expected 'No Data', got %q", buf.String())
			}
		})
	}
}

func TestDisplayTable(t *testing.T) {
	result := QueryResult{
		Columns: []string{"a", "b"},
		Data:    [][]string{{"1", "x"}, {"2", "NULL"}},
	}

	var buf bytes.Buffer
	result.Display(&buf)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("Expected 6 lines, got %d:\n%s", len(lines), buf.String())
	}

	// Header and every data row carry one cell per column
	for _, line := range []string{lines[1], lines[3], lines[4]} {
		cells := strings.Count(line, "│") - 1
		if cells != len(result.Columns) {
			t.Errorf("Expected %d cells in %q, got %d", len(result.Columns), line, cells)
		}
	}
	if !strings.Contains(lines[4], "NULL") {
		t.Errorf("Expected NULL cell in %q", lines[4])
	}
}

func TestDisplaySkippedRows(t *testing.T) {
	result := QueryResult{Columns: []string{"a"}, RowsSkipped: 2}

	var buf bytes.Buffer
	result.Display(&buf)

	if buf.String() != "No Data\n(2 row(s) skipped)\n" {
		t.Errorf("Unexpected output %q", buf.String())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs     float64
		expected string
	}{
		{0.0001, "<1ms"},
		{0.005, "5ms"},
		{0.25, "250ms"},
		{2.5, "2.5s"},
		{42, "42s"},
		{120, "2m"},
		{125, "2m5s"},
	}

	for _, test := range tests {
		if got := formatDuration(test.secs); got != test.expected {
			t.Errorf("formatDuration(%v) = %q, expected %q", test.secs, got, test.expected)
		}
	}
}

func TestStats(t *testing.T) {
	result := QueryResult{RecordsRead: 3, ExecutionTimeSec: 0.25}
	if result.Stats() != "3 rows (250ms)" {
		t.Errorf("Unexpected stats %q", result.Stats())
	}
}
