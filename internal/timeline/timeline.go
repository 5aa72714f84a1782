// Package timeline reconstructs the chronological flow of one session:
// which messages matched a query, with a merged context window around each
// match, and which code changes the session made.
package timeline

import (
	"strings"

	"github.com/tekacs/session-finder/internal/classify"
	"github.com/tekacs/session-finder/internal/session"
)

// Entry is one message in a reconstructed timeline, annotated with its
// classification and whether it matched the query directly (context
// entries carry IsMatch=false).
type Entry struct {
	Message *session.Message
	Kind    classify.Kind
	IsMatch bool
}

// Build returns the merged, deduplicated, order-preserving sequence of
// matching messages plus their symmetric context windows. Windows from
// adjacent matches overlap and merge; every match appears exactly once.
// Zero matches yields an empty timeline, not an error.
func Build(msgs []session.Message, queryTerms []string, context int) []Entry {
	if context < 0 {
		context = 0
	}

	include := make([]bool, len(msgs))
	isMatch := make([]bool, len(msgs))

	for i := range msgs {
		if !matches(&msgs[i], queryTerms) {
			continue
		}
		isMatch[i] = true
		lo := i - context
		if lo < 0 {
			lo = 0
		}
		hi := i + context
		if hi > len(msgs)-1 {
			hi = len(msgs) - 1
		}
		for j := lo; j <= hi; j++ {
			include[j] = true
		}
	}

	var entries []Entry
	for i := range msgs {
		if !include[i] {
			continue
		}
		entries = append(entries, Entry{
			Message: &msgs[i],
			Kind:    classify.Message(&msgs[i]),
			IsMatch: isMatch[i],
		})
	}
	return entries
}

// matches tests case-insensitive substring membership of any query term in
// the message's text, code block, and tool invocation content. Tool result
// bodies are excluded: a query hit inside command output is context, not a
// conversation event.
func matches(m *session.Message, queryTerms []string) bool {
	if len(queryTerms) == 0 {
		return false
	}
	haystack := strings.ToLower(searchableText(m))
	if haystack == "" {
		return false
	}
	for _, term := range queryTerms {
		if term == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

func searchableText(m *session.Message) string {
	var b strings.Builder
	for _, p := range m.Parts {
		switch p.Kind {
		case session.PartText, session.PartCodeBlock:
			b.WriteString(p.Text)
			b.WriteByte('\n')
		case session.PartToolInvocation:
			b.WriteString(p.ToolName)
			b.WriteByte(' ')
			b.Write(p.ToolInput)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
