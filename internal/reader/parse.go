package reader

import "bytes"

// findLineEnd locates the next row boundary at or after start. Fast path:
// take the next newline outright when no quote byte occurs before it.
// Otherwise fall back to a full quote-state scan, where quote state
// toggles on every '"' and only unquoted newlines terminate the row.
func findLineEnd(data []byte, start int) int {
	nlPos := len(data)
	if rel := bytes.IndexByte(data[start:], '\n'); rel >= 0 {
		nlPos = start + rel
	}
	if bytes.IndexByte(data[start:nlPos], '"') < 0 {
		return nlPos
	}

	inQuotes := false
	for i := start; i < len(data); i++ {
		switch data[i] {
		case '"':
			inQuotes = !inQuotes
		case '\n':
			if !inQuotes {
				return i
			}
		}
	}
	return len(data)
}

// countNewlines is the branch-free tail counter used when no quotes
// remain in the region.
func countNewlines(data []byte) int {
	return bytes.Count(data, []byte{'\n'})
}

// countRowsFrom counts row boundaries from offset to the end of the
// region without tokenizing. Unlike Parse it counts blank lines too, so
// TotalRows after a head parse can exceed a full parse's RowCount when
// the unparsed tail holds blank lines.
func (r *Reader) countRowsFrom(offset int) int {
	if offset >= r.size {
		return 0
	}
	d := r.data[offset:]

	// Fast path: no quotes in the remainder.
	if bytes.IndexByte(d, '"') < 0 {
		nl := countNewlines(d)
		if d[len(d)-1] != '\n' {
			nl++
		}
		return nl
	}

	count := 0
	inQuotes := false
	for _, c := range d {
		switch c {
		case '"':
			inQuotes = !inQuotes
		case '\n':
			if !inQuotes {
				count++
			}
		}
	}
	if d[len(d)-1] != '\n' {
		count++
	}
	return count
}

// parseHeader tokenizes the first physical line and fixes the stride.
// Returns the offset of the first data byte.
func (r *Reader) parseHeader(delim byte) int {
	if r.size == 0 {
		return 0
	}

	lineEnd := findLineEnd(r.data, 0)
	actualEnd := lineEnd
	if actualEnd > 0 && r.data[actualEnd-1] == '\r' {
		actualEnd--
	}

	r.header = r.header[:0]
	i := 0
	for i < actualEnd {
		if r.data[i] == '"' {
			fs := i
			i++
			for i < actualEnd {
				if r.data[i] == '"' {
					if i+1 < actualEnd && r.data[i+1] == '"' {
						i += 2
						continue
					}
					break
				}
				i++
			}
			if i < actualEnd {
				i++ // closing quote
			}
			r.header = append(r.header, span{off: fs, n: i - fs})
			if i < actualEnd && r.data[i] == delim {
				i++
			}
		} else {
			fs := i
			for i < actualEnd && r.data[i] != delim {
				i++
			}
			r.header = append(r.header, span{off: fs, n: i - fs})
			if i < actualEnd {
				i++
			}
		}
	}
	// A line ending exactly on the delimiter carries one trailing empty field.
	if actualEnd > 0 && r.data[actualEnd-1] == delim {
		r.header = append(r.header, span{})
	}
	r.ncols = len(r.header)

	if lineEnd < r.size {
		return lineEnd + 1
	}
	return r.size
}

// appendRow tokenizes one line into exactly stride fields: extra fields
// are truncated, missing ones padded with empty views.
func (r *Reader) appendRow(start, end int, delim byte) {
	added := 0
	i := start

	for i < end && added < r.ncols {
		if r.data[i] == '"' {
			fs := i
			i++
			for i < end {
				if r.data[i] == '"' {
					if i+1 < end && r.data[i+1] == '"' {
						i += 2
						continue
					}
					break
				}
				i++
			}
			if i < end {
				i++
			}
			r.fields = append(r.fields, span{off: fs, n: i - fs})
			added++
			if i < end && r.data[i] == delim {
				i++
			}
		} else {
			fs := i
			for i < end && r.data[i] != delim {
				i++
			}
			r.fields = append(r.fields, span{off: fs, n: i - fs})
			added++
			if i < end {
				i++
			}
		}
	}

	// Trailing delimiter yields one more empty field.
	if added < r.ncols && end > start && r.data[end-1] == delim {
		r.fields = append(r.fields, span{})
		added++
	}

	for added < r.ncols {
		r.fields = append(r.fields, span{})
		added++
	}
}

func (r *Reader) reset() {
	r.header = r.header[:0]
	r.fields = r.fields[:0]
	r.ncols = 0
	r.parsed = 0
	r.total = 0
}

// Parse tokenizes the header and every data row. Blank lines are skipped
// and not counted. Afterward RowCount() == TotalRows().
func (r *Reader) Parse(delim byte) {
	r.reset()

	pos := r.parseHeader(delim)
	if r.ncols == 0 {
		return
	}

	// Estimate row count from the header length to avoid regrowth.
	estLine := pos
	if estLine == 0 {
		estLine = 50
	}
	if r.size > pos {
		est := (r.size-pos)/estLine + 1
		r.fields = make([]span, 0, est*r.ncols)
	}

	for pos < r.size {
		lineEnd := findLineEnd(r.data, pos)
		actualEnd := lineEnd
		if actualEnd > pos && r.data[actualEnd-1] == '\r' {
			actualEnd--
		}

		if actualEnd == pos {
			pos = nextPos(lineEnd, r.size)
			continue
		}

		r.appendRow(pos, actualEnd, delim)
		r.parsed++
		pos = nextPos(lineEnd, r.size)
	}

	r.total = r.parsed
}

// ParseHead tokenizes at most limit data rows, then counts the remaining
// rows with a boundary-only scan so TotalRows() stays exact.
func (r *Reader) ParseHead(delim byte, limit int) {
	r.reset()

	pos := r.parseHeader(delim)
	if r.ncols == 0 {
		return
	}

	if limit > 0 {
		r.fields = make([]span, 0, limit*r.ncols)
	}

	for pos < r.size && r.parsed < limit {
		lineEnd := findLineEnd(r.data, pos)
		actualEnd := lineEnd
		if actualEnd > pos && r.data[actualEnd-1] == '\r' {
			actualEnd--
		}

		if actualEnd == pos {
			pos = nextPos(lineEnd, r.size)
			continue
		}

		r.appendRow(pos, actualEnd, delim)
		r.parsed++
		pos = nextPos(lineEnd, r.size)
	}

	r.total = r.parsed + r.countRowsFrom(pos)
}

func nextPos(lineEnd, size int) int {
	if lineEnd < size {
		return lineEnd + 1
	}
	return size
}
