// Package summary builds compact per-session summaries from candidate log
// files. Summaries are rebuilt fresh on every invocation; nothing persists
// between runs.
package summary

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tekacs/session-finder/internal/pathenc"
	"github.com/tekacs/session-finder/internal/session"
	"github.com/tekacs/session-finder/internal/terms"
)

const previewLen = 200

// ErrEmptySession marks logs with no parseable conversation messages.
var ErrEmptySession = errors.New("empty session")

// Summary is the compact, query-scoped description of one session log.
type Summary struct {
	SessionID   string
	Path        string
	ProjectPath string

	SizeBytes int64
	LineCount int
	ModTime   time.Time

	FirstMessageAt time.Time
	LastMessageAt  time.Time
	FirstPreview   string
	LastPreview    string

	TopTerms     []terms.TermCount
	SkippedLines int
}

// SessionID derives the stable session identity from a log file name:
// the base name without the .jsonl (and optional compression) extension.
func SessionID(path string) string {
	base := filepath.Base(path)
	for _, ext := range []string{".zst", ".gz", ".jsonl"} {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// ProjectPath decodes the project path from a log file's parent directory.
func ProjectPath(path string) string {
	return pathenc.Decode(filepath.Base(filepath.Dir(path)))
}

// Build parses one session log into a Summary. Empty sessions (no parseable
// messages) return an error so callers can skip them with a warning.
func Build(path string, ex *terms.Extractor) (*Summary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat session: %w", err)
	}

	log, err := session.ParseFile(path)
	if err != nil {
		return nil, err
	}
	if len(log.Messages) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySession, path)
	}

	first := &log.Messages[0]
	last := &log.Messages[len(log.Messages)-1]

	return &Summary{
		SessionID:      SessionID(path),
		Path:           path,
		ProjectPath:    ProjectPath(path),
		SizeBytes:      info.Size(),
		LineCount:      log.LineCount,
		ModTime:        info.ModTime(),
		FirstMessageAt: first.Timestamp,
		LastMessageAt:  last.Timestamp,
		FirstPreview:   preview(first),
		LastPreview:    preview(last),
		TopTerms:       ex.Extract(log.Messages),
		SkippedLines:   log.SkippedLines,
	}, nil
}

// preview renders "role: text" truncated to previewLen runes on a rune
// boundary, newlines flattened.
func preview(m *session.Message) string {
	text := strings.ReplaceAll(m.PlainText(), "\n", " ")
	if runes := []rune(text); len(runes) > previewLen {
		text = string(runes[:previewLen]) + "..."
	}
	return m.Role + ": " + text
}
