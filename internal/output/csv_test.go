package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AveryClapp/glance/internal/reader"
	"github.com/AveryClapp/glance/internal/schema"
)

func makeView(t *testing.T, csv string) View {
	t.Helper()
	r, err := reader.FromStream(strings.NewReader(csv))
	require.NoError(t, err)
	r.Parse(',')
	s := schema.Infer(r, schema.DefaultSampleSize)
	return View{
		Reader:     r,
		Schema:     s,
		MaxRows:    r.RowCount(),
		MatchCount: r.RowCount(),
	}
}

func TestRenderCSV(t *testing.T) {
	v := makeView(t, "id,name\n1,alice\n2,bob\n")
	var buf bytes.Buffer
	require.NoError(t, RenderCSV(&buf, v, ','))
	assert.Equal(t, "id,name\n1,alice\n2,bob\n", buf.String())
}

func TestRenderCSV_Tab(t *testing.T) {
	v := makeView(t, "a,b\n1,2\n")
	var buf bytes.Buffer
	require.NoError(t, RenderCSV(&buf, v, '\t'))
	assert.Equal(t, "a\tb\n1\t2\n", buf.String())
}

func TestRenderCSV_RequotesSpecialValues(t *testing.T) {
	v := makeView(t, "name,note\nalice,\"said \"\"hi\"\"\"\nbob,\"a,b\"\n")
	var buf bytes.Buffer
	require.NoError(t, RenderCSV(&buf, v, ','))
	assert.Equal(t, "name,note\nalice,\"said \"\"hi\"\"\"\nbob,\"a,b\"\n", buf.String())
}

func TestRenderCSV_HonorsRowAndColumnSelection(t *testing.T) {
	v := makeView(t, "id,name,age\n1,alice,30\n2,bob,25\n3,carol,35\n")
	v.RowIdx = []int{2, 0}
	v.ColIdx = []int{1, 0}
	v.MaxRows = 2
	var buf bytes.Buffer
	require.NoError(t, RenderCSV(&buf, v, ','))
	assert.Equal(t, "name,id\ncarol,3\nalice,1\n", buf.String())
}

func TestRenderCSV_MaxRowsTruncates(t *testing.T) {
	v := makeView(t, "n\n1\n2\n3\n")
	v.MaxRows = 2
	var buf bytes.Buffer
	require.NoError(t, RenderCSV(&buf, v, ','))
	assert.Equal(t, "n\n1\n2\n", buf.String())
}
