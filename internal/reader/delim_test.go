package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want byte
	}{
		{"comma", "a,b,c\n1,2,3\n", ','},
		{"tab", "a\tb\tc\n1\t2\t3\n", '\t'},
		{"pipe", "a|b|c\n1|2|3\n", '|'},
		{"semicolon", "a;b;c\n1;2;3\n", ';'},
		{"empty defaults to comma", "", ','},
		{"single column defaults to comma", "name\nAlice\nBob\n", ','},
		{"quoted commas do not flip pipe detection",
			"id|note|val\n1|\"a,b,c,d\"|2\n3|\"e,f,g,h\"|4\n", '|'},
		{"consistent delimiter beats noisy one",
			"a;b;c\n1;2;3\n4;5;6\n", ';'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDelimiter([]byte(tt.in), DefaultSampleLines))
		})
	}
}

func TestDetectDelimiter_MeanBelowTwoDisqualifies(t *testing.T) {
	// One trailing comma on a single line: mean field count < 2.
	assert.Equal(t, byte(','), DetectDelimiter([]byte("plain text line\n"), DefaultSampleLines))
}

func TestDetectDelimiter_SamplesOnlyRequestedLines(t *testing.T) {
	// Tabs only beyond the sample window must not influence the result.
	in := "a,b\n1,2\n" + "x\ty\tz\tw\tv\n"
	assert.Equal(t, byte(','), DetectDelimiter([]byte(in), 2))
}
