package reader

import "math"

// DefaultSampleLines is how many physical lines DetectDelimiter inspects.
const DefaultSampleLines = 10

// delimiter candidates, in tie-break order.
var candidates = []byte{',', '\t', '|', ';'}

// countFields counts delimiter-separated fields on one line, ignoring
// delimiters inside quotes.
func countFields(line []byte, delim byte) int {
	count := 1
	inQuotes := false
	for _, c := range line {
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case !inQuotes && c == delim:
			count++
		}
	}
	return count
}

// DetectDelimiter scores each candidate delimiter over up to sampleLines
// quote-aware physical lines and returns the best one. The score is
// mean/(1+stddev) of the per-line field counts; a candidate with mean
// below 2 cannot be a real separator. Defaults to ',' on empty input or
// when nothing qualifies.
func DetectDelimiter(data []byte, sampleLines int) byte {
	if len(data) == 0 {
		return ','
	}

	type lineSpan struct{ start, n int }
	var lines []lineSpan
	pos := 0
	for pos < len(data) && len(lines) < sampleLines {
		start := pos
		inQuotes := false
		for pos < len(data) {
			if data[pos] == '"' {
				inQuotes = !inQuotes
			} else if !inQuotes && data[pos] == '\n' {
				break
			}
			pos++
		}
		end := pos
		if end > start && data[end-1] == '\r' {
			end--
		}
		if end > start {
			lines = append(lines, lineSpan{start: start, n: end - start})
		}
		if pos < len(data) {
			pos++ // skip newline
		}
	}

	if len(lines) == 0 {
		return ','
	}

	best := byte(',')
	bestScore := -1.0

	for _, cand := range candidates {
		counts := make([]float64, len(lines))
		sum := 0.0
		for i, l := range lines {
			counts[i] = float64(countFields(data[l.start:l.start+l.n], cand))
			sum += counts[i]
		}
		mean := sum / float64(len(counts))
		if mean < 2.0 {
			continue
		}

		variance := 0.0
		for _, v := range counts {
			variance += (v - mean) * (v - mean)
		}
		stddev := math.Sqrt(variance / float64(len(counts)))

		if score := mean / (1.0 + stddev); score > bestScore {
			bestScore = score
			best = cand
		}
	}

	return best
}
