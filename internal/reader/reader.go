// Package reader exposes a delimited text file as a single contiguous
// byte region and tokenizes it into a header plus a flat, stride-indexed
// store of field views. Regular files are memory-mapped; stream input is
// captured into one owned buffer. Every field view is an (offset, length)
// pair into the region, so nothing is copied until a caller explicitly
// unquotes a field.
package reader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrEmptyInput is returned when a stream source yields zero bytes.
// A zero-length regular file is not an error; it is a valid reader
// with Size() == 0.
var ErrEmptyInput = errors.New("no data on stream")

// span is a region-relative field view: n bytes starting at off.
// Field views never cross a row boundary.
type span struct {
	off int
	n   int
}

// Reader owns the byte region for the life of the process and hands out
// borrowed views into it. Close invalidates every view derived from the
// reader; the CLI closes it only on exit.
type Reader struct {
	file   *os.File
	data   []byte
	size   int
	mapped bool

	header []span
	fields []span // flat row-major, stride = ncols
	ncols  int
	parsed int
	total  int
}

// Open builds a reader for path. The path "-" reads all of stdin into an
// owned buffer; any other path is opened and memory-mapped without copying
// its contents.
func Open(path string) (*Reader, error) {
	if path == "-" {
		return FromStream(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	r := &Reader{file: f, size: int(st.Size())}
	if r.size > 0 {
		data, err := mmapFile(int(f.Fd()), r.size)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("mmap %s: %w", path, err)
		}
		adviseSequential(data)
		r.data = data
		r.mapped = true
	}
	return r, nil
}

// FromStream captures all bytes from src into one owned buffer. The copy
// is unavoidable for a stream since its length is unknown upfront.
func FromStream(src io.Reader) (*Reader, error) {
	buf, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read stream: %w", err)
	}
	if len(buf) == 0 {
		return nil, ErrEmptyInput
	}
	return &Reader{data: buf, size: len(buf)}, nil
}

// Data returns the whole byte region. Read-only; valid until Close.
func (r *Reader) Data() []byte { return r.data }

// Size returns the region length in bytes.
func (r *Reader) Size() int { return r.size }

// RowCount returns the number of rows tokenized by the last parse call.
func (r *Reader) RowCount() int { return r.parsed }

// TotalRows returns the exact number of data rows in the region,
// including rows that ParseHead counted but did not tokenize.
func (r *Reader) TotalRows() int { return r.total }

// ColumnCount returns the stride, i.e. the header's field count.
func (r *Reader) ColumnCount() int { return r.ncols }

// Header returns the raw (possibly quoted) header fields.
func (r *Reader) Header() Row {
	return Row{data: r.data, spans: r.header}
}

// HeaderNames returns the unquoted column names.
func (r *Reader) HeaderNames() []string {
	names := make([]string, len(r.header))
	for i, s := range r.header {
		names[i] = string(Unquote(r.data[s.off : s.off+s.n]))
	}
	return names
}

// Row returns a fixed-size view of row i's fields. The view borrows from
// the reader's region and must not outlive it.
func (r *Reader) Row(i int) Row {
	return Row{data: r.data, spans: r.fields[i*r.ncols : (i+1)*r.ncols]}
}

// Close releases the mapping and the file handle exactly once. Safe to
// call multiple times.
func (r *Reader) Close() error {
	var err error
	if r.mapped && r.data != nil {
		err = munmapFile(r.data)
		r.mapped = false
	}
	r.data = nil
	if r.file != nil {
		if cerr := r.file.Close(); cerr != nil && err == nil {
			err = cerr
		}
		r.file = nil
	}
	return err
}

// Row is a borrowed, fixed-width view over one parsed row.
type Row struct {
	data  []byte
	spans []span
}

// Len returns the number of fields in the row (always the stride).
func (w Row) Len() int { return len(w.spans) }

// Field returns the raw bytes of field i, quotes included.
func (w Row) Field(i int) []byte {
	s := w.spans[i]
	return w.data[s.off : s.off+s.n]
}

// Unquoted returns field i with CSV quoting removed. The result aliases
// the underlying region unless doubled quotes had to be collapsed.
func (w Row) Unquoted(i int) []byte {
	return Unquote(w.Field(i))
}

// Unquote strips the outer quotes from a fully quoted field and collapses
// every doubled quote to one. Any other input, including a lone quote, is
// returned byte-for-byte. Allocation happens only when a doubled quote is
// actually present.
func Unquote(field []byte) []byte {
	if len(field) < 2 || field[0] != '"' || field[len(field)-1] != '"' {
		return field
	}
	body := field[1 : len(field)-1]
	if !bytes.Contains(body, []byte(`""`)) {
		return body
	}
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		if body[i] == '"' && i+1 < len(body) && body[i+1] == '"' {
			out = append(out, '"')
			i++
			continue
		}
		out = append(out, body[i])
	}
	return out
}
