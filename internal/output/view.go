// Package output renders a parsed row store to static formats: a
// box-drawn table, CSV/TSV, and JSON. Every renderer consumes the same
// inputs the interactive pager does: the reader, the inferred schema, and
// optional row/column index arrays produced by the query engine.
package output

import (
	"fmt"

	"github.com/AveryClapp/glance/internal/reader"
	"github.com/AveryClapp/glance/internal/schema"
)

// View bundles what a renderer needs. RowIdx and ColIdx are optional:
// nil means all parsed rows (in order) and all columns.
type View struct {
	Reader     *reader.Reader
	Schema     schema.Schema
	RowIdx     []int
	ColIdx     []int
	MaxRows    int
	MatchCount int
}

// columns returns the display column indices.
func (v View) columns() []int {
	if v.ColIdx != nil {
		return v.ColIdx
	}
	cols := make([]int, v.Reader.ColumnCount())
	for i := range cols {
		cols[i] = i
	}
	return cols
}

// rowCount returns how many rows to render.
func (v View) rowCount() int {
	n := v.Reader.RowCount()
	if v.RowIdx != nil {
		n = len(v.RowIdx)
	}
	if n > v.MaxRows {
		n = v.MaxRows
	}
	return n
}

// rowAt maps a display index to the underlying row.
func (v View) rowAt(i int) reader.Row {
	if v.RowIdx != nil {
		i = v.RowIdx[i]
	}
	return v.Reader.Row(i)
}

// cell returns the unquoted text of one cell, empty when out of range.
func cell(row reader.Row, col int) string {
	if col >= row.Len() {
		return ""
	}
	return string(row.Unquoted(col))
}

// FormatCount renders large counts as 1.5K / 2.3M.
func FormatCount(n int) string {
	switch {
	case n >= 1000000:
		return fmt.Sprintf("%.1fM", float64(n)/1000000.0)
	case n >= 1000:
		return fmt.Sprintf("%.1fK", float64(n)/1000.0)
	}
	return fmt.Sprintf("%d", n)
}

// FormatSize renders a byte count with a binary unit suffix.
func FormatSize(bytes int) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	val := float64(bytes)
	idx := 0
	for val >= 1024.0 && idx < len(units)-1 {
		val /= 1024.0
		idx++
	}
	if idx == 0 {
		return fmt.Sprintf("%d B", bytes)
	}
	return fmt.Sprintf("%.1f %s", val, units[idx])
}
