package db

import (
	"fmt"
	"io"
)

// NoDataMessage is printed instead of a table when a statement yields no rows
const NoDataMessage = "No Data"

type QueryResult struct {
	Columns          []string
	Data             [][]string
	RecordsRead      int
	RowsSkipped      int
	ExecutionTimeSec float64
}

// IsEmpty reports whether there is nothing to tabulate
func (result QueryResult) IsEmpty() bool {
	return len(result.Data) == 0 || len(result.Columns) == 0
}

// formatDuration formats a duration in human-readable form
func formatDuration(secs float64) string {
	if secs < 0.001 {
		return "<1ms"
	} else if secs < 1 {
		return fmt.Sprintf("%dms", int(secs*1000))
	} else if secs < 60 {
		if secs < 10 {
			return fmt.Sprintf("%.1fs", secs)
		}
		return fmt.Sprintf("%ds", int(secs))
	}
	mins := int(secs / 60)
	remainSecs := int(secs) % 60
	if remainSecs == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dm%ds", mins, remainSecs)
}

func (result QueryResult) ExecutionTime() string {
	return formatDuration(result.ExecutionTimeSec)
}

// Stats is the compact line shown after a result when timing is enabled
func (result QueryResult) Stats() string {
	return fmt.Sprintf("%d rows (%s)", result.RecordsRead, result.ExecutionTime())
}

// Display writes the result table, or NoDataMessage when there are no rows
func (result QueryResult) Display(w io.Writer) {
	if result.IsEmpty() {
		fmt.Fprintln(w, NoDataMessage)
	} else {
		table := NewTable(w)
		table.Header(result.Columns)
		table.Bulk(result.Data)
		table.Render()
	}

	if result.RowsSkipped > 0 {
		fmt.Fprintf(w, "(%d row(s) skipped)\n", result.RowsSkipped)
	}
}
