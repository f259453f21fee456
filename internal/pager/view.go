package pager

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/AveryClapp/glance/internal/output"
)

func truncate(s string, max int) string {
	if runewidth.StringWidth(s) <= max {
		return s
	}
	if max <= 3 {
		return strings.Repeat(".", max)
	}
	return runewidth.Truncate(s, max, "...")
}

// View renders one full frame: bordered table with pinned header and type
// rows, the visible slice of data rows, and a reverse-video status bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	endCol := m.scrollCol + m.visibleCols()
	if endCol > len(m.colIdx) {
		endCol = len(m.colIdx)
	}

	var b strings.Builder

	hline := func(left, mid, right string) {
		b.WriteString(left)
		for c := m.scrollCol; c < endCol; c++ {
			b.WriteString(strings.Repeat("─", m.colWidths[c]+2))
			if c+1 < endCol {
				b.WriteString(mid)
			}
		}
		b.WriteString(right)
		b.WriteString("\n")
	}

	printCells := func(get func(c int) string, style func(...string) string) {
		b.WriteString("│")
		for c := m.scrollCol; c < endCol; c++ {
			display := truncate(get(c), m.colWidths[c])
			pad := m.colWidths[c] - runewidth.StringWidth(display)
			b.WriteString(" ")
			if style != nil {
				b.WriteString(style(display))
			} else {
				b.WriteString(display)
			}
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(" │")
		}
		b.WriteString("\n")
	}

	names := m.reader.HeaderNames()

	hline("┌", "┬", "┐")
	printCells(func(c int) string { return names[m.colIdx[c]] }, headerStyle.Render)
	printCells(func(c int) string { return m.schema.Type(m.colIdx[c]).String() }, nil)
	hline("├", "┼", "┤")

	vp := m.viewportRows()
	visEnd := m.scrollRow + vp
	if visEnd > m.dataRows {
		visEnd = m.dataRows
	}

	drawn := 0
	for r := m.scrollRow; r < visEnd; r++ {
		row := m.rowAt(r)
		isHit := m.currentHit >= 0 && m.currentHit < len(m.searchHits) && m.searchHits[m.currentHit] == r
		var style func(...string) string
		if isHit {
			style = hitStyle.Render
		}
		printCells(func(c int) string { return m.cellText(row, m.colIdx[c]) }, style)
		drawn++
	}

	// Blank rows keep the bottom border pinned on short pages.
	for i := drawn; i < vp; i++ {
		printCells(func(int) string { return "" }, nil)
	}

	hline("└", "┴", "┘")
	b.WriteString(m.statusBar(visEnd))

	return b.String()
}

func (m Model) statusBar(visEnd int) string {
	var left string
	switch {
	case m.searching:
		left = "/" + m.searchQuery + "▋"
	case m.statusMsg != "":
		left = m.statusMsg
	default:
		left = fmt.Sprintf(" rows %d-%d of %s", m.scrollRow+1, visEnd, output.FormatCount(m.matchCount))
	}

	right := fmt.Sprintf("%d cols | %s | ↑↓ scroll  ←→ cols  / search  q quit",
		len(m.colIdx), output.FormatSize(m.reader.Size()))

	bar := " " + left
	lw := runewidth.StringWidth(bar)
	rw := runewidth.StringWidth(right) + 1
	if lw+rw < m.width {
		bar += strings.Repeat(" ", m.width-lw-rw) + right
	}
	bar += " "

	return statusStyle.Render(bar)
}
