package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/tekacs/session-finder/internal/rank"
)

// linesPerItem is the number of terminal lines each result occupies.
const linesPerItem = 2

// renderList renders the left panel: ranked sessions with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.results) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No sessions")
		return empty
	}

	var lines []string
	for i, r := range m.results {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		rows := formatResultLine(r, width, i == m.cursor)
		lines = append(lines, rows...)
	}

	// Pad remaining lines
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// formatResultLine formats one ranked session as two lines:
//
//	line 1: [>] MM-DD hits project
//	line 2:    first-message preview (dimmed)
func formatResultLine(r rank.Ranked, width int, selected bool) []string {
	date := "??-??"
	if last := r.LastMessageAt; !last.IsZero() {
		date = last.Format("01-02")
	} else if !r.ModTime.IsZero() {
		date = r.ModTime.Format("01-02")
	}

	hits := "   "
	if r.TermHits > 0 {
		hits = styleHits.Render(fmt.Sprintf("%2dx", r.TermHits))
	}

	project := r.ProjectPath
	projectMax := width - 2 - 5 - 4 - 2 // prefix + date + hits + padding
	if projectMax < 0 {
		projectMax = 0
	}
	if runewidth.StringWidth(project) > projectMax {
		// keep the tail: the leaf directory carries the signal
		project = "..." + truncateLeft(project, projectMax-3)
	}

	line1 := fmt.Sprintf("%s %s %s", date, hits, project)
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	preview := strings.Join(strings.Fields(r.FirstPreview), " ")
	previewMax := width - 4 // indent
	if previewMax < 0 {
		previewMax = 0
	}
	if runewidth.StringWidth(preview) > previewMax {
		preview = runewidth.Truncate(preview, previewMax, "")
	}
	line2 := "    " + lipgloss.NewStyle().Foreground(colorDim).Render(preview)

	return []string{line1, line2}
}

// truncateLeft keeps the trailing maxWidth columns of s.
func truncateLeft(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	runes := []rune(s)
	w := 0
	for i := len(runes) - 1; i >= 0; i-- {
		w += runewidth.RuneWidth(runes[i])
		if w > maxWidth {
			return string(runes[i+1:])
		}
	}
	return s
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
