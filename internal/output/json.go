package output

import (
	"bytes"
	"io"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/AveryClapp/glance/internal/schema"
)

// RenderJSON writes the view as an array of objects, one per row, with
// keys in column order. Values are encoded by inferred type: empty cells
// become null, bools become true/false, and int64/float64 cells are
// emitted as bare numbers when they survive a strict syntax check.
func RenderJSON(w io.Writer, v View) error {
	cols := v.columns()
	names := v.Reader.HeaderNames()
	nrows := v.rowCount()

	keys := make([][]byte, len(cols))
	for i, c := range cols {
		k, err := json.Marshal(names[c])
		if err != nil {
			return err
		}
		keys[i] = k
	}

	var buf bytes.Buffer
	buf.WriteString("[\n")
	for r := 0; r < nrows; r++ {
		row := v.rowAt(r)
		buf.WriteString("  {")
		for i, c := range cols {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.Write(keys[i])
			buf.WriteString(": ")
			if err := writeValue(&buf, cell(row, c), v.Schema.Type(c)); err != nil {
				return err
			}
		}
		buf.WriteString("}")
		if r+1 < nrows {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("]\n")

	_, err := w.Write(buf.Bytes())
	return err
}

func writeValue(buf *bytes.Buffer, val string, t schema.ColumnType) error {
	switch {
	case val == "":
		buf.WriteString("null")
		return nil
	case t == schema.Bool:
		lower := strings.ToLower(val)
		if lower == "true" || lower == "yes" || lower == "1" {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case t == schema.Int64 && schema.IsInt64([]byte(val)) && json.Valid([]byte(val)):
		// json.Valid rejects the shapes IsInt64 tolerates but JSON does
		// not, like a leading + or leading zeros.
		buf.WriteString(val)
		return nil
	case t == schema.Float64 && (schema.IsFloat64([]byte(val)) || schema.IsInt64([]byte(val))) &&
		json.Valid([]byte(val)):
		buf.WriteString(val)
		return nil
	}
	enc, err := json.Marshal(val)
	if err != nil {
		return err
	}
	buf.Write(enc)
	return nil
}

// schemaDoc is the wire shape of the --schema output.
type schemaDoc struct {
	RowCount int            `json:"row_count"`
	FileSize int            `json:"file_size"`
	Columns  []schemaColumn `json:"columns"`
}

type schemaColumn struct {
	Name string            `json:"name"`
	Type schema.ColumnType `json:"type"`
}

// RenderSchemaJSON writes the inferred schema plus row/size counts,
// honoring an optional column selection.
func RenderSchemaJSON(w io.Writer, s schema.Schema, colIdx []int, rowCount, fileSize int) error {
	cols := colIdx
	if cols == nil {
		cols = make([]int, len(s))
		for i := range cols {
			cols[i] = i
		}
	}

	doc := schemaDoc{
		RowCount: rowCount,
		FileSize: fileSize,
		Columns:  make([]schemaColumn, 0, len(cols)),
	}
	for _, c := range cols {
		doc.Columns = append(doc.Columns, schemaColumn{Name: s[c].Name, Type: s[c].Type})
	}

	enc, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	enc = append(enc, '\n')
	_, err = w.Write(enc)
	return err
}
