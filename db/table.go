package db

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// border holds the box-drawing characters of one table style
type border struct {
	horizontal string
	vertical   string

	topLeft, topMid, topRight          string
	midLeft, midMid, midRight          string
	bottomLeft, bottomMid, bottomRight string
}

// sharpBorder is the only style LiteShell renders
var sharpBorder = border{
	horizontal: "─",
	vertical:   "│",

	topLeft: "┌", topMid: "┬", topRight: "┐",
	midLeft: "├", midMid: "┼", midRight: "┤",
	bottomLeft: "└", bottomMid: "┴", bottomRight: "┘",
}

// Table renders a header and rows with a sharp box border
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
}

// NewTable creates a new table writer
func NewTable(w io.Writer) *Table {
	return &Table{
		writer: w,
		rows:   make([][]string, 0),
	}
}

// Header sets the table headers
func (t *Table) Header(headers []string) {
	t.headers = headers
}

// Row adds a single row
func (t *Table) Row(row []string) {
	t.rows = append(t.rows, row)
}

// Bulk adds multiple rows
func (t *Table) Bulk(rows [][]string) {
	for _, row := range rows {
		t.Row(row)
	}
}

// Render outputs the formatted table
func (t *Table) Render() {
	fmt.Fprint(t.writer, t.String())
}

// String builds the whole table, one trailing newline included
func (t *Table) String() string {
	if len(t.headers) == 0 && len(t.rows) == 0 {
		return ""
	}

	widths := t.calculateWidths()

	var sb strings.Builder
	sb.WriteString(t.buildSeparator(widths, sharpBorder.topLeft, sharpBorder.topMid, sharpBorder.topRight))

	if len(t.headers) > 0 {
		t.writeRow(&sb, t.headers, widths)
		sb.WriteString(t.buildSeparator(widths, sharpBorder.midLeft, sharpBorder.midMid, sharpBorder.midRight))
	}

	for _, row := range t.rows {
		t.writeRow(&sb, row, widths)
	}

	sb.WriteString(t.buildSeparator(widths, sharpBorder.bottomLeft, sharpBorder.bottomMid, sharpBorder.bottomRight))
	return sb.String()
}

// calculateWidths determines the display width needed for each column
func (t *Table) calculateWidths() []int {
	numCols := len(t.headers)
	for _, row := range t.rows {
		if len(row) > numCols {
			numCols = len(row)
		}
	}

	widths := make([]int, numCols)

	measure := func(row []string) {
		for i, cell := range row {
			for _, line := range cellLines(cell) {
				if w := runewidth.StringWidth(line); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	measure(t.headers)
	for _, row := range t.rows {
		measure(row)
	}

	return widths
}

// buildSeparator creates one horizontal border line
func (t *Table) buildSeparator(widths []int, left, mid, right string) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat(sharpBorder.horizontal, w+2)
	}
	return left + strings.Join(parts, mid) + right + "\n"
}

// writeRow writes a row, spreading multi-line cells over several lines
func (t *Table) writeRow(sb *strings.Builder, row []string, widths []int) {
	cells := make([][]string, len(widths))
	height := 1
	for i := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		cells[i] = cellLines(cell)
		if len(cells[i]) > height {
			height = len(cells[i])
		}
	}

	for line := 0; line < height; line++ {
		sb.WriteString(sharpBorder.vertical)
		for i, w := range widths {
			text := ""
			if line < len(cells[i]) {
				text = cells[i][line]
			}
			sb.WriteString(" ")
			sb.WriteString(runewidth.FillRight(text, w))
			sb.WriteString(" ")
			sb.WriteString(sharpBorder.vertical)
		}
		sb.WriteString("\n")
	}
}

func cellLines(cell string) []string {
	cell = strings.ReplaceAll(cell, "\r\n", "\n")
	return strings.Split(cell, "\n")
}
