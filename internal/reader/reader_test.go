package reader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOpen_MappedFile(t *testing.T) {
	path := writeTemp(t, "a,b,c\n1,2,3\n")

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, 12, r.Size())
	assert.Equal(t, []byte("a,b,c\n1,2,3\n"), r.Data())
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func TestOpen_EmptyFileIsValid(t *testing.T) {
	path := writeTemp(t, "")

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, 0, r.Size())

	r.Parse(',')
	assert.Equal(t, 0, r.ColumnCount())
	assert.Equal(t, 0, r.RowCount())
}

func TestFromStream(t *testing.T) {
	r, err := FromStream(strings.NewReader("x,y\n1,2\n"))
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, 8, r.Size())
}

func TestFromStream_EmptyIsError(t *testing.T) {
	_, err := FromStream(strings.NewReader(""))
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestClose_Idempotent(t *testing.T) {
	path := writeTemp(t, "a,b\n1,2\n")

	r, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"quoted", `"hello"`, "hello"},
		{"escaped quote", `"a""b"`, `a"b`},
		{"only quotes", `""`, ""},
		{"lone quote kept", `"`, `"`},
		{"inner quote without double", `"a"b"`, `a"b`},
		{"unquoted with comma", `a,b`, `a,b`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(Unquote([]byte(tt.in))))
		})
	}
}

func TestUnquote_NoAllocWithoutDoubledQuotes(t *testing.T) {
	in := []byte(`"abcdef"`)
	out := Unquote(in)
	// The body aliases the input buffer when no collapse is needed.
	require.Len(t, out, 6)
	assert.Equal(t, &in[1], &out[0])
}
