package pager

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AveryClapp/glance/internal/reader"
	"github.com/AveryClapp/glance/internal/schema"
)

func makeModel(t *testing.T, csv string, width, height int) Model {
	t.Helper()
	r, err := reader.FromStream(strings.NewReader(csv))
	require.NoError(t, err)
	r.Parse(',')
	s := schema.Infer(r, schema.DefaultSampleSize)
	m := New(r, s, nil, nil, r.RowCount())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return updated.(Model)
}

func bigCSV(rows int) string {
	var b strings.Builder
	b.WriteString("id,name\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "%d,person%d\n", i, i)
	}
	return b.String()
}

func key(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	panic("unknown key " + s)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		updated, _ := m.Update(key(k))
		m = updated.(Model)
	}
	return m
}

func TestMeasureColumns(t *testing.T) {
	m := makeModel(t, "id,description\n7,a very long description value here\n", 200, 30)
	require.Len(t, m.baseWidths, 2)
	// "int64" is wider than both "id" and "1".
	assert.Equal(t, 5, m.baseWidths[0])
	assert.Equal(t, len("a very long description value here"), m.baseWidths[1])
}

func TestMeasureColumns_CappedAtMax(t *testing.T) {
	m := makeModel(t, "v\n"+strings.Repeat("x", 200)+"\n", 200, 30)
	assert.Equal(t, maxColWidth, m.baseWidths[0])
}

func TestRecapWidths_NarrowTerminal(t *testing.T) {
	csv := "a,b,c\n" + strings.Repeat("x", 50) + "," + strings.Repeat("y", 50) + "," + strings.Repeat("z", 50) + "\n"
	m := makeModel(t, csv, 40, 30)
	for _, w := range m.colWidths {
		assert.LessOrEqual(t, w, (40-10)/3)
		assert.GreaterOrEqual(t, w, minColWidth)
	}
}

func TestScrollClamping(t *testing.T) {
	m := makeModel(t, bigCSV(100), 80, 26) // viewport = 20 rows

	m = press(t, m, "k")
	assert.Equal(t, 0, m.scrollRow, "cannot scroll above the top")

	m = press(t, m, "G")
	assert.Equal(t, 80, m.scrollRow, "bottom page starts at dataRows-viewport")

	m = press(t, m, "j")
	assert.Equal(t, 80, m.scrollRow, "cannot scroll past the bottom")

	m = press(t, m, "g")
	assert.Equal(t, 0, m.scrollRow)
}

func TestPageKeys(t *testing.T) {
	m := makeModel(t, bigCSV(100), 80, 26)
	m = press(t, m, " ")
	assert.Equal(t, 20, m.scrollRow)
	m = press(t, m, "b")
	assert.Equal(t, 0, m.scrollRow)
}

func TestColumnScroll(t *testing.T) {
	m := makeModel(t, "a,b,c\n1,2,3\n", 80, 26)
	m = press(t, m, "l", "l")
	assert.Equal(t, 2, m.scrollCol)
	m = press(t, m, "l")
	assert.Equal(t, 2, m.scrollCol, "clamped to the last column")
	m = press(t, m, "h", "h", "h")
	assert.Equal(t, 0, m.scrollCol)
}

func TestQuit(t *testing.T) {
	m := makeModel(t, bigCSV(5), 80, 26)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestSearch(t *testing.T) {
	m := makeModel(t, bigCSV(100), 80, 26)

	m = press(t, m, "/")
	assert.True(t, m.searching)

	m = press(t, m, "p", "e", "r", "s", "o", "n", "4", "2", "enter")
	assert.False(t, m.searching)
	require.Equal(t, []int{42}, m.searchHits)
	assert.Equal(t, 42, m.scrollRow)
	assert.Equal(t, "Match 1 of 1", m.statusMsg)
}

func TestSearch_CaseInsensitiveAndCycle(t *testing.T) {
	m := makeModel(t, "name\nAlice\nbob\nALICE\n", 80, 26)

	m = press(t, m, "/", "a", "l", "i", "c", "e", "enter")
	require.Equal(t, []int{0, 2}, m.searchHits)
	assert.Equal(t, 0, m.currentHit)

	m = press(t, m, "n")
	assert.Equal(t, 1, m.currentHit)
	m = press(t, m, "n")
	assert.Equal(t, 0, m.currentHit, "wraps around")
	m = press(t, m, "N")
	assert.Equal(t, 1, m.currentHit)
}

func TestSearch_NoMatches(t *testing.T) {
	m := makeModel(t, bigCSV(5), 80, 26)
	m = press(t, m, "/", "z", "q", "x", "enter")
	assert.Empty(t, m.searchHits)
	assert.Equal(t, "No matches for 'zqx'", m.statusMsg)
}

func TestSearch_EscCancels(t *testing.T) {
	m := makeModel(t, bigCSV(5), 80, 26)
	m = press(t, m, "/", "a", "b", "esc")
	assert.False(t, m.searching)
	assert.Empty(t, m.searchQuery)
}

func TestSearch_Backspace(t *testing.T) {
	m := makeModel(t, bigCSV(5), 80, 26)
	m = press(t, m, "/", "a", "b", "backspace")
	assert.Equal(t, "a", m.searchQuery)
}

func TestView_Frame(t *testing.T) {
	m := makeModel(t, "id,name\n1,alice\n2,bob\n", 100, 12)
	out := m.View()

	assert.Contains(t, out, "┌")
	assert.Contains(t, out, "┘")
	assert.Contains(t, out, "id")
	assert.Contains(t, out, "int64")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "rows 1-2 of 2")
	assert.Contains(t, out, "2 cols")
	// One frame per terminal row, minus one because the last line has no
	// trailing newline.
	assert.Equal(t, 11, strings.Count(out, "\n"))
}

func TestView_ZeroSizeBeforeFirstResize(t *testing.T) {
	r, err := reader.FromStream(strings.NewReader("a\n1\n"))
	require.NoError(t, err)
	r.Parse(',')
	m := New(r, schema.Infer(r, schema.DefaultSampleSize), nil, nil, 1)
	assert.Equal(t, "", m.View())
}

func TestView_RendersStyledHitRow(t *testing.T) {
	m := makeModel(t, bigCSV(50), 100, 26)
	m = press(t, m, "/", "p", "e", "r", "s", "o", "n", "7", "enter")
	require.Equal(t, []int{7}, m.searchHits)

	out := m.View()
	assert.Contains(t, out, "person7")
	assert.Contains(t, out, "id")
}

func TestView_SearchPrompt(t *testing.T) {
	m := makeModel(t, bigCSV(5), 80, 26)
	m = press(t, m, "/", "h", "i")
	assert.Contains(t, m.View(), "/hi▋")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "long st...", truncate("long string here", 10))
	assert.Equal(t, "..", truncate("long", 2))
}
