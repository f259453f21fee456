package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AveryClapp/glance/internal/reader"
	"github.com/AveryClapp/glance/internal/schema"
)

// SortIndices reorders indices in place by the named column. The sort is
// stable so rows comparing equal keep their relative input order. Numeric
// columns compare numerically with a lexical fallback when either side
// fails to parse.
func SortIndices(indices []int, r *reader.Reader, s schema.Schema, column string, descending bool) error {
	names := r.HeaderNames()
	col := -1
	for i, name := range names {
		if name == column {
			col = i
			break
		}
	}
	if col < 0 {
		return fmt.Errorf("%w: %q (available columns: %s)", ErrUnknownColumn, column, availableColumns(r))
	}

	numeric := s.Numeric(col)

	cell := func(idx int) string {
		row := r.Row(idx)
		if col >= row.Len() {
			return ""
		}
		return string(row.Unquoted(col))
	}

	sort.SliceStable(indices, func(a, b int) bool {
		va := cell(indices[a])
		vb := cell(indices[b])

		if numeric {
			da, errA := parseNumeric(va)
			db, errB := parseNumeric(vb)
			if errA == nil && errB == nil {
				if descending {
					return da > db
				}
				return da < db
			}
		}
		if descending {
			return va > vb
		}
		return va < vb
	})

	return nil
}

// ResolveColumns turns a comma-separated selection expression into an
// ordered list of column indices. Empty tokens are skipped; an unresolved
// name fails, as does a selection that resolves to nothing.
func ResolveColumns(selectExpr string, r *reader.Reader) ([]int, error) {
	names := r.HeaderNames()

	var indices []int
	for _, token := range strings.Split(selectExpr, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		found := false
		for i, name := range names {
			if name == token {
				indices = append(indices, i)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %q (available columns: %s)", ErrUnknownColumn, token, availableColumns(r))
		}
	}

	if len(indices) == 0 {
		return nil, ErrEmptySelection
	}
	return indices, nil
}
