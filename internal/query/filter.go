// Package query evaluates filter expressions, column sorts, and column
// selections over a parsed row store. Results are row-index arrays; the
// underlying fields are never moved or copied.
package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AveryClapp/glance/internal/reader"
	"github.com/AveryClapp/glance/internal/schema"
)

// Error kinds surfaced to the CLI. All of them are terminal for the
// current operation and recoverable by the caller.
var (
	ErrParse          = errors.New("invalid filter")
	ErrUnknownColumn  = errors.New("column not found")
	ErrEmptySelection = errors.New("no valid columns in selection")
)

// Op is a filter comparison operator.
type Op int

const (
	Eq Op = iota
	Neq
	Gt
	Lt
	Gte
	Lte
	Contains
	StartsWith
	EndsWith
)

// Filter is one parsed (column, operator, literal) predicate. Immutable
// once built.
type Filter struct {
	Column string
	Op     Op
	Value  string
}

// Word operators are matched as space-delimited tokens before any
// symbolic operator; among symbolic operators the two-character forms
// come first so ">=" is never split into ">" and "=".
var wordOps = []struct {
	token string
	op    Op
}{
	{"starts_with", StartsWith},
	{"ends_with", EndsWith},
	{"contains", Contains},
}

var symbolOps = []struct {
	token string
	op    Op
}{
	{">=", Gte},
	{"<=", Lte},
	{"!=", Neq},
	{"==", Eq},
	{">", Gt},
	{"<", Lt},
}

// unescape drops backslashes in front of !, >, < and =, tolerating
// shell-escaped expressions (zsh escapes ! to \!).
func unescape(expr string) string {
	if !strings.ContainsRune(expr, '\\') {
		return expr
	}
	var b strings.Builder
	b.Grow(len(expr))
	for i := 0; i < len(expr); i++ {
		if expr[i] == '\\' && i+1 < len(expr) {
			switch expr[i+1] {
			case '!', '>', '<', '=':
				b.WriteByte(expr[i+1])
				i++
				continue
			}
		}
		b.WriteByte(expr[i])
	}
	return b.String()
}

// ParseFilter parses a user expression like "age > 30" or
// "name contains Al" into a Filter.
func ParseFilter(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Filter{}, fmt.Errorf("%w: empty expression", ErrParse)
	}

	nexpr := unescape(expr)

	for _, w := range wordOps {
		needle := " " + w.token + " "
		pos := strings.Index(nexpr, needle)
		if pos < 0 {
			continue
		}
		col := strings.TrimSpace(nexpr[:pos])
		val := strings.TrimSpace(nexpr[pos+len(needle):])
		if col == "" || val == "" {
			return Filter{}, fmt.Errorf("%w: column and value required around %q", ErrParse, w.token)
		}
		return Filter{Column: col, Op: w.op, Value: val}, nil
	}

	for _, s := range symbolOps {
		pos := strings.Index(nexpr, s.token)
		if pos < 0 {
			continue
		}
		col := strings.TrimSpace(nexpr[:pos])
		val := strings.TrimSpace(nexpr[pos+len(s.token):])
		if col == "" || val == "" {
			return Filter{}, fmt.Errorf("%w: column and value required around %q", ErrParse, s.token)
		}
		return Filter{Column: col, Op: s.op, Value: val}, nil
	}

	return Filter{}, fmt.Errorf("%w: no operator found in %q (supported: ==, !=, >, <, >=, <=, contains, starts_with, ends_with)",
		ErrParse, nexpr)
}

// parseNumeric parses a cell or literal as a number after stripping
// currency symbols and thousands separators.
func parseNumeric(s string) (float64, error) {
	if strings.ContainsAny(s, "$,") {
		var b strings.Builder
		b.Grow(len(s))
		for i := 0; i < len(s); i++ {
			if s[i] == '$' || s[i] == ',' {
				continue
			}
			b.WriteByte(s[i])
		}
		s = b.String()
	}
	return strconv.ParseFloat(s, 64)
}

func isStringOnly(op Op) bool {
	return op == Contains || op == StartsWith || op == EndsWith
}

func compareStrings(cell string, op Op, value string, ci bool) bool {
	a, b := cell, value
	if ci {
		a = strings.ToLower(a)
		b = strings.ToLower(b)
	}
	switch op {
	case Eq:
		return a == b
	case Neq:
		return a != b
	case Gt:
		return a > b
	case Lt:
		return a < b
	case Gte:
		return a >= b
	case Lte:
		return a <= b
	case Contains:
		return strings.Contains(a, b)
	case StartsWith:
		return strings.HasPrefix(a, b)
	case EndsWith:
		return strings.HasSuffix(a, b)
	}
	return false
}

func compareNumeric(cell float64, op Op, value float64) bool {
	switch op {
	case Eq:
		return cell == value
	case Neq:
		return cell != value
	case Gt:
		return cell > value
	case Lt:
		return cell < value
	case Gte:
		return cell >= value
	case Lte:
		return cell <= value
	}
	return false
}

// resolvedFilter binds a filter to a column index and its inferred type.
type resolvedFilter struct {
	filter Filter
	col    int
	typ    schema.ColumnType
}

func (rf resolvedFilter) matches(row reader.Row, ci bool) bool {
	if rf.col >= row.Len() {
		return false
	}
	cell := string(row.Unquoted(rf.col))

	numeric := rf.typ == schema.Int64 || rf.typ == schema.Float64 || rf.typ == schema.Currency
	if numeric && !isStringOnly(rf.filter.Op) {
		cv, cerr := parseNumeric(cell)
		fv, ferr := parseNumeric(rf.filter.Value)
		if cerr == nil && ferr == nil {
			return compareNumeric(cv, rf.filter.Op, fv)
		}
	}

	return compareStrings(cell, rf.filter.Op, rf.filter.Value, ci)
}

// availableColumns renders the header for error messages.
func availableColumns(r *reader.Reader) string {
	return strings.Join(r.HeaderNames(), ", ")
}

// Apply evaluates every filter against every parsed row and returns the
// matching row indices in original order. Per-filter results combine with
// AND, or with OR when orLogic is set. Column lookup is case-folded when
// caseInsensitive is set.
func Apply(filters []Filter, r *reader.Reader, s schema.Schema, caseInsensitive, orLogic bool) ([]int, error) {
	names := r.HeaderNames()

	resolved := make([]resolvedFilter, 0, len(filters))
	for _, f := range filters {
		want := f.Column
		if caseInsensitive {
			want = strings.ToLower(want)
		}
		found := false
		for i, name := range names {
			if caseInsensitive {
				name = strings.ToLower(name)
			}
			if name == want {
				resolved = append(resolved, resolvedFilter{filter: f, col: i, typ: s.Type(i)})
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %q (available columns: %s)", ErrUnknownColumn, f.Column, availableColumns(r))
		}
	}

	// Non-nil even when nothing matches: callers distinguish "no filter"
	// (nil) from "filtered to zero rows".
	result := []int{}
	for rr := 0; rr < r.RowCount(); rr++ {
		row := r.Row(rr)
		var match bool
		if orLogic {
			match = false
			for _, rf := range resolved {
				if rf.matches(row, caseInsensitive) {
					match = true
					break
				}
			}
		} else {
			match = true
			for _, rf := range resolved {
				if !rf.matches(row, caseInsensitive) {
					match = false
					break
				}
			}
		}
		if match {
			result = append(result, rr)
		}
	}

	return result, nil
}
