package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tekacs/session-finder/internal/rank"
	"github.com/tekacs/session-finder/internal/render"
	"github.com/tekacs/session-finder/internal/session"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	sessionID string
	query     string
	content   string
	hitLine   int
	err       error
}

// loadPreviewCmd parses the session log and renders the conversation with
// the current filter terms highlighted, scrolled to the first hit.
func loadPreviewCmd(r rank.Ranked, query string, width int) tea.Cmd {
	path := r.Path
	id := r.SessionID
	return func() tea.Msg {
		log, err := session.ParseFile(path)
		if err != nil {
			return previewRenderedMsg{sessionID: id, query: query, err: err}
		}
		content, hitLine := render.Conversation(log.Messages, render.Options{
			Width:      width,
			QueryTerms: strings.Fields(query),
		})
		return previewRenderedMsg{
			sessionID: id,
			query:     query,
			content:   content,
			hitLine:   hitLine,
		}
	}
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
