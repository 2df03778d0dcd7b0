package lipgloss

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// tabWidth is the standard terminal tab stop interval.
const tabWidth = 8

// DisplayWidth calculates the display width of a string, correctly handling
// tab characters which expand to the next 8-column boundary.
// lipgloss.Width counts a tab as zero columns.
func DisplayWidth(s string) int {
	return displayWidthFrom(s, 0)
}

// displayWidthFrom calculates the display width of s when it starts at
// column startCol. Tab expansion depends on the starting column.
func displayWidthFrom(s string, startCol int) int {
	col := startCol
	for _, r := range s {
		if r == '\t' {
			col = ((col / tabWidth) + 1) * tabWidth
		} else {
			col += lipgloss.Width(string(r))
		}
	}
	return col
}

// ExpandTabs replaces tabs with the spaces needed to reach the next tab stop,
// so content lines up after a fixed-width gutter.
func ExpandTabs(s string) string {
	out, _ := expandTabsFrom(s, 0)
	return out
}

// expandTabsFrom expands the tabs of s starting at column startCol and
// returns the column after the last rune.
func expandTabsFrom(s string, startCol int) (string, int) {
	if !strings.Contains(s, "\t") {
		return s, displayWidthFrom(s, startCol)
	}
	var b strings.Builder
	col := startCol
	for _, r := range s {
		if r == '\t' {
			next := displayWidthFrom("\t", col)
			b.WriteString(strings.Repeat(" ", next-col))
			col = next
			continue
		}
		b.WriteRune(r)
		col += lipgloss.Width(string(r))
	}
	return b.String(), col
}
