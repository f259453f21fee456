package output

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// maxTableColWidth caps a single column so one wide field cannot eat the
// whole terminal.
const maxTableColWidth = 60

// RenderTable writes a bordered table: header row, inferred-type row,
// then data rows, followed by a summary footer line.
func RenderTable(w io.Writer, v View) error {
	cols := v.columns()
	nrows := v.rowCount()

	t := tablewriter.NewWriter(w)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetColWidth(maxTableColWidth)
	t.SetAlignment(tablewriter.ALIGN_LEFT)

	names := v.Reader.HeaderNames()
	header := make([]string, len(cols))
	types := make([]string, len(cols))
	for i, c := range cols {
		header[i] = names[c]
		types[i] = v.Schema.Type(c).String()
	}
	t.SetHeader(header)
	t.Append(types)

	record := make([]string, len(cols))
	for r := 0; r < nrows; r++ {
		row := v.rowAt(r)
		for i, c := range cols {
			record[i] = cell(row, c)
		}
		t.Append(record)
	}
	t.Render()

	if _, err := fmt.Fprintf(w, "%s rows", FormatCount(v.MatchCount)); err != nil {
		return err
	}
	if nrows < v.MatchCount {
		if _, err := fmt.Fprintf(w, " (showing %d)", nrows); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, " | %d cols | %s\n", len(cols), FormatSize(v.Reader.Size()))
	return err
}
