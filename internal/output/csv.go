package output

import (
	"encoding/csv"
	"fmt"
	"io"
)

// RenderCSV writes the view as delimited text. The writer re-quotes any
// value containing the delimiter, a quote, or a newline, so fields round-
// trip through another parse.
func RenderCSV(w io.Writer, v View, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma

	cols := v.columns()
	names := v.Reader.HeaderNames()

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = names[c]
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	nrows := v.rowCount()
	record := make([]string, len(cols))
	for r := 0; r < nrows; r++ {
		row := v.rowAt(r)
		for i, c := range cols {
			record[i] = cell(row, c)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return nil
}
