// Package schema assigns a semantic type to each column by sampling
// parsed rows. Classification tries every predicate in a fixed
// specificity order; the first one that matches every sampled value wins.
package schema

import (
	"github.com/AveryClapp/glance/internal/reader"
)

// ColumnType is the inferred semantic type of a column.
type ColumnType int

const (
	Int64 ColumnType = iota
	Float64
	Date
	Currency
	Bool
	Enum
	Text
)

var typeNames = [...]string{"int64", "float64", "date", "currency", "bool", "enum", "text"}

func (t ColumnType) String() string {
	if t < Int64 || t > Text {
		return "text"
	}
	return typeNames[t]
}

// MarshalText serializes the type tag for JSON/text renderers.
func (t ColumnType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Column pairs a column name with its inferred type.
type Column struct {
	Name string
	Type ColumnType
}

// Schema is the ordered per-column type assignment.
type Schema []Column

// Numeric reports whether column i holds a numeric type.
func (s Schema) Numeric(i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	t := s[i].Type
	return t == Int64 || t == Float64 || t == Currency
}

// Type returns the type of column i, defaulting to Text out of range.
func (s Schema) Type(i int) ColumnType {
	if i < 0 || i >= len(s) {
		return Text
	}
	return s[i].Type
}

// DefaultSampleSize is the number of rows Infer examines per column.
const DefaultSampleSize = 100

// Infer samples up to sampleSize parsed rows and classifies every column.
// Empty values are skipped; an all-empty or zero-row column is Text. The
// result is derived state and never mutates the row store.
func Infer(r *reader.Reader, sampleSize int) Schema {
	ncols := r.ColumnCount()
	nrows := r.RowCount()
	if nrows > sampleSize {
		nrows = sampleSize
	}

	names := r.HeaderNames()
	s := make(Schema, 0, ncols)

	for col := 0; col < ncols; col++ {
		if nrows == 0 {
			s = append(s, Column{Name: names[col], Type: Text})
			continue
		}

		var values [][]byte
		unique := make(map[string]struct{})
		for rr := 0; rr < nrows; rr++ {
			val := r.Row(rr).Unquoted(col)
			if len(val) == 0 {
				continue
			}
			values = append(values, val)
			unique[string(val)] = struct{}{}
		}

		if len(values) == 0 {
			s = append(s, Column{Name: names[col], Type: Text})
			continue
		}

		allMatch := func(pred func([]byte) bool) bool {
			for _, v := range values {
				if !pred(v) {
					return false
				}
			}
			return true
		}

		detected := Text
		switch {
		case allMatch(isBool):
			detected = Bool
		case allMatch(isCurrency):
			detected = Currency
		case allMatch(isDate):
			detected = Date
		case allMatch(IsInt64):
			detected = Int64
		case allMatch(IsFloat64):
			detected = Float64
		case len(unique) < enumThreshold(len(values)):
			detected = Enum
		}

		s = append(s, Column{Name: names[col], Type: detected})
	}

	return s
}

func enumThreshold(sampled int) int {
	if t := sampled / 10; t > 2 {
		return t
	}
	return 2
}
