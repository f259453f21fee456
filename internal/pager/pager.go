// Package pager provides the interactive full-screen browser for a parsed
// row store. It consumes the same schema and row/column index arrays the
// static renderers do and contains no parsing logic. Raw terminal mode,
// the alternate screen, and resize signals are owned by bubbletea.
package pager

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/AveryClapp/glance/internal/reader"
	"github.com/AveryClapp/glance/internal/schema"
)

const (
	// fixed chrome: top border, header, type row, separator, bottom
	// border, status bar
	chromeLines = 6

	maxColWidth     = 60
	minColWidth     = 5
	widthSampleRows = 1000
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	hitStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	statusStyle = lipgloss.NewStyle().Reverse(true)
)

// Model is the bubbletea model for the pager.
type Model struct {
	reader     *reader.Reader
	schema     schema.Schema
	rowIdx     []int // nil = natural order
	colIdx     []int // display column -> actual column
	matchCount int

	width  int
	height int

	scrollRow int
	scrollCol int
	dataRows  int

	baseWidths []int // uncapped, from content sample
	colWidths  []int // capped to the current terminal

	searching   bool
	searchQuery string
	searchHits  []int // display-row indices
	currentHit  int
	statusMsg   string
}

// New builds a pager over the given view. rowIdx nil means all parsed
// rows; colIdx nil means all columns.
func New(r *reader.Reader, s schema.Schema, rowIdx, colIdx []int, matchCount int) Model {
	if colIdx == nil {
		colIdx = make([]int, r.ColumnCount())
		for i := range colIdx {
			colIdx[i] = i
		}
	}

	m := Model{
		reader:     r,
		schema:     s,
		rowIdx:     rowIdx,
		colIdx:     colIdx,
		matchCount: matchCount,
		currentHit: -1,
	}
	m.dataRows = r.RowCount()
	if rowIdx != nil {
		m.dataRows = len(rowIdx)
	}
	m.baseWidths = m.measureColumns()
	m.colWidths = append([]int(nil), m.baseWidths...)
	return m
}

// Run starts the pager on the alternate screen and blocks until quit.
func Run(r *reader.Reader, s schema.Schema, rowIdx, colIdx []int, matchCount int) error {
	_, err := tea.NewProgram(New(r, s, rowIdx, colIdx, matchCount), tea.WithAltScreen()).Run()
	return err
}

func (m Model) rowAt(display int) reader.Row {
	if m.rowIdx != nil {
		display = m.rowIdx[display]
	}
	return m.reader.Row(display)
}

func (m Model) cellText(row reader.Row, actualCol int) string {
	if actualCol >= row.Len() {
		return ""
	}
	val := string(row.Unquoted(actualCol))
	if strings.ContainsAny(val, "\n\r") {
		val = strings.Map(func(r rune) rune {
			if r == '\n' || r == '\r' {
				return ' '
			}
			return r
		}, val)
	}
	return val
}

// measureColumns sizes each display column from its header, its type
// name, and the first widthSampleRows rows, capped at maxColWidth.
func (m Model) measureColumns() []int {
	names := m.reader.HeaderNames()
	widths := make([]int, len(m.colIdx))
	for c, ac := range m.colIdx {
		widths[c] = runewidth.StringWidth(names[ac])
		if tw := len(m.schema.Type(ac).String()); tw > widths[c] {
			widths[c] = tw
		}
	}

	sample := m.dataRows
	if sample > widthSampleRows {
		sample = widthSampleRows
	}
	for r := 0; r < sample; r++ {
		row := m.rowAt(r)
		for c, ac := range m.colIdx {
			if w := runewidth.StringWidth(m.cellText(row, ac)); w > widths[c] {
				widths[c] = w
			}
		}
	}

	for c := range widths {
		if widths[c] > maxColWidth {
			widths[c] = maxColWidth
		}
	}
	return widths
}

// recapWidths re-fits the measured widths to the current terminal width.
func (m *Model) recapWidths() {
	m.colWidths = append(m.colWidths[:0], m.baseWidths...)
	ncols := len(m.colIdx)
	if ncols == 0 {
		return
	}
	padding := ncols*3 + 1
	if padding >= m.width {
		return
	}
	available := m.width - padding
	total := 0
	for _, w := range m.colWidths {
		total += w
	}
	if total <= available {
		return
	}
	maxPer := available / ncols
	if maxPer < minColWidth {
		maxPer = minColWidth
	}
	for c := range m.colWidths {
		if m.colWidths[c] > maxPer {
			m.colWidths[c] = maxPer
		}
	}
}

func (m Model) viewportRows() int {
	if m.height > chromeLines {
		return m.height - chromeLines
	}
	return 1
}

// visibleCols returns how many columns fit starting at scrollCol. At
// least one column is always shown.
func (m Model) visibleCols() int {
	used := 1 // left border
	count := 0
	for c := m.scrollCol; c < len(m.colWidths); c++ {
		needed := m.colWidths[c] + 3
		if used+needed > m.width && count > 0 {
			break
		}
		used += needed
		count++
	}
	if count == 0 {
		return 1
	}
	return count
}

func (m *Model) clamp() {
	vp := m.viewportRows()
	if m.dataRows <= vp {
		m.scrollRow = 0
	} else if m.scrollRow > m.dataRows-vp {
		m.scrollRow = m.dataRows - vp
	}
	if m.scrollRow < 0 {
		m.scrollRow = 0
	}
	if m.scrollCol >= len(m.colIdx) {
		m.scrollCol = len(m.colIdx) - 1
	}
	if m.scrollCol < 0 {
		m.scrollCol = 0
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recapWidths()
		m.clamp()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.searching = false
		m.searchQuery = ""
		m.statusMsg = ""
	case "enter":
		m.searching = false
		m.runSearch()
	case "backspace":
		if m.searchQuery != "" {
			m.searchQuery = m.searchQuery[:len(m.searchQuery)-1]
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.searchQuery += string(msg.Runes)
		} else if msg.Type == tea.KeySpace {
			m.searchQuery += " "
		}
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""
	vp := m.viewportRows()

	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		m.scrollRow--

	case "down", "j", "enter":
		if m.scrollRow+vp < m.dataRows {
			m.scrollRow++
		}

	case " ", "space", "pgdown":
		m.scrollRow += vp

	case "b", "pgup":
		m.scrollRow -= vp

	case "g", "home":
		m.scrollRow = 0

	case "G", "end":
		m.scrollRow = m.dataRows // clamp pulls it back to the last page

	case "left", "h":
		m.scrollCol--

	case "right", "l":
		m.scrollCol++

	case "/":
		m.searching = true
		m.searchQuery = ""

	case "n":
		if len(m.searchHits) > 0 {
			m.currentHit = (m.currentHit + 1) % len(m.searchHits)
			m.jumpToHit()
		}

	case "N":
		if len(m.searchHits) > 0 {
			m.currentHit--
			if m.currentHit < 0 {
				m.currentHit = len(m.searchHits) - 1
			}
			m.jumpToHit()
		}
	}

	m.clamp()
	return m, nil
}

func (m *Model) jumpToHit() {
	m.scrollRow = m.searchHits[m.currentHit]
	m.statusMsg = fmt.Sprintf("Match %d of %d", m.currentHit+1, len(m.searchHits))
}

// runSearch collects display rows whose visible cells contain the query,
// case-insensitively, and jumps to the first hit at or below the current
// scroll position.
func (m *Model) runSearch() {
	m.searchHits = m.searchHits[:0]
	m.currentHit = -1
	if m.searchQuery == "" {
		return
	}

	query := strings.ToLower(m.searchQuery)
	for d := 0; d < m.dataRows; d++ {
		row := m.rowAt(d)
		for _, ac := range m.colIdx {
			if strings.Contains(strings.ToLower(m.cellText(row, ac)), query) {
				m.searchHits = append(m.searchHits, d)
				break
			}
		}
	}

	if len(m.searchHits) == 0 {
		m.statusMsg = fmt.Sprintf("No matches for '%s'", m.searchQuery)
		return
	}

	m.currentHit = 0
	for i, hit := range m.searchHits {
		if hit >= m.scrollRow {
			m.currentHit = i
			break
		}
	}
	m.jumpToHit()
	m.clamp()
}
