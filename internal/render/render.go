// Package render turns ranked results, timelines, and code-change lists
// into terminal output. All rendering is ANSI-colored by default; Plain
// strips the escapes for pipes and tests.
package render

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/tekacs/session-finder/internal/rank"
	"github.com/tekacs/session-finder/internal/session"
	"github.com/tekacs/session-finder/internal/timeline"
)

type Options struct {
	Width      int      // wrap width (0 = no wrap)
	Plain      bool     // disable ANSI colors
	QueryTerms []string // highlighted in rendered text
}

// palette holds the escape codes in use; the plain palette is all empty
// strings so the same rendering path serves both modes.
type palette struct {
	reset   string
	user    string // bold blue
	assist  string // bold green
	dim     string
	hit     string // yellow background
	boldRed string
	green   string
	red     string
}

func colors(plain bool) palette {
	if plain {
		return palette{}
	}
	return palette{
		reset:   "\033[0m",
		user:    "\033[1;34m",
		assist:  "\033[1;32m",
		dim:     "\033[2m",
		hit:     "\033[43m",
		boldRed: "\033[1;31m",
		green:   "\033[32m",
		red:     "\033[31m",
	}
}

const timeLayout = "2006-01-02 15:04"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Format(timeLayout)
}

// ResultList renders ranked sessions as a numbered report, best first.
func ResultList(results []rank.Ranked, opts Options) string {
	if len(results) == 0 {
		return "No sessions matched.\n"
	}

	pal := colors(opts.Plain)
	w := newLineWriter(opts.Width)

	for i, r := range results {
		if i > 0 {
			w.writeLine("")
		}

		head := fmt.Sprintf("%d. %s", i+1, r.SessionID)
		if r.TermHits > 0 {
			head += fmt.Sprintf("  %s(%d term hits, score %.1f)%s", pal.dim, r.TermHits, r.Score, pal.reset)
		}
		w.writeLine(head)

		w.writeLine(fmt.Sprintf("   resume:  claude --resume %s", r.SessionID))
		w.writeLine(fmt.Sprintf("   project: %s", r.ProjectPath))
		w.writeLine(fmt.Sprintf("   active:  %s to %s  (%d lines, %s)",
			formatTime(r.FirstMessageAt), formatTime(r.LastMessageAt),
			r.LineCount, formatSize(r.SizeBytes)))
		w.writeLine("   first:   " + highlightTerms(flatten(r.FirstPreview), opts.QueryTerms, pal))
		w.writeLine("   last:    " + highlightTerms(flatten(r.LastPreview), opts.QueryTerms, pal))

		if len(r.TopTerms) > 0 {
			var tt []string
			for j, tc := range r.TopTerms {
				if j >= 8 {
					break
				}
				tt = append(tt, fmt.Sprintf("%s(%d)", tc.Term, tc.Count))
			}
			w.writeLine(fmt.Sprintf("   terms:   %s%s%s", pal.dim, strings.Join(tt, " "), pal.reset))
		}
		if r.SkippedLines > 0 {
			w.writeLine(fmt.Sprintf("   %s%d malformed lines skipped%s", pal.dim, r.SkippedLines, pal.reset))
		}
	}
	return w.String()
}

// Conversation renders a full message flow with query highlighting. The
// second return value is the 0-based output line of the first matching
// message header, -1 when nothing matches; viewers scroll there.
func Conversation(msgs []session.Message, opts Options) (string, int) {
	pal := colors(opts.Plain)
	w := newLineWriter(opts.Width)
	separator := pal.dim + "--------------------------------------------------" + pal.reset

	hitLine := -1
	for i := range msgs {
		m := &msgs[i]
		if i > 0 {
			w.writeLine(separator)
		}

		isHit := containsAnyTerm(m.PlainText(), opts.QueryTerms)
		if isHit && hitLine < 0 {
			hitLine = w.lines
		}
		w.writeLine(messageHeader(m, isHit, pal))

		text := highlightTerms(m.PlainText(), opts.QueryTerms, pal)
		for _, tl := range strings.Split(indentLines(text, "  "), "\n") {
			w.writeLine(tl)
		}
		w.writeLine("")
	}
	return w.String(), hitLine
}

// Timeline renders matched messages and their context windows. Matches get
// a highlighted header; context entries render dimmed.
func Timeline(entries []timeline.Entry, opts Options) string {
	if len(entries) == 0 {
		return "No matching messages.\n"
	}

	pal := colors(opts.Plain)
	w := newLineWriter(opts.Width)

	prevSeq := -1
	for _, e := range entries {
		m := e.Message
		if prevSeq >= 0 && m.Seq > prevSeq+1 {
			w.writeLine(fmt.Sprintf("%s... (%d messages) ...%s", pal.dim, m.Seq-prevSeq-1, pal.reset))
		}
		prevSeq = m.Seq

		header := messageHeader(m, e.IsMatch, pal)
		header += fmt.Sprintf("  %s[%s]%s", pal.dim, e.Kind, pal.reset)
		w.writeLine(header)

		text := m.PlainText()
		if e.IsMatch {
			text = highlightTerms(text, opts.QueryTerms, pal)
		} else {
			text = pal.dim + text + pal.reset
		}
		for _, tl := range strings.Split(indentLines(text, "  "), "\n") {
			w.writeLine(tl)
		}
		w.writeLine("")
	}
	return w.String()
}

// CodeDiff renders code changes in before/after form, in session order.
func CodeDiff(changes []timeline.CodeChange, opts Options) string {
	if len(changes) == 0 {
		return "No code changes.\n"
	}

	pal := colors(opts.Plain)
	w := newLineWriter(opts.Width)

	for i, c := range changes {
		if i > 0 {
			w.writeLine("")
		}

		target := c.Target
		if c.Op == timeline.OpSnippet && c.Lang != "" {
			target = "(" + c.Lang + ")"
		}
		w.writeLine(fmt.Sprintf("[%s] %s  %s%s%s", c.Op, target, pal.dim, formatTime(c.Timestamp), pal.reset))

		if c.Op == timeline.OpCommand {
			continue // the command is the target line
		}
		for _, l := range splitBody(c.Before) {
			w.writeLine(pal.red + "  - " + l + pal.reset)
		}
		for _, l := range splitBody(c.After) {
			w.writeLine(pal.green + "  + " + l + pal.reset)
		}
	}
	return w.String()
}

func splitBody(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func messageHeader(m *session.Message, isHit bool, pal palette) string {
	var roleColor, roleLabel string
	switch m.Role {
	case "user":
		roleColor = pal.user
		roleLabel = "USER"
	case "assistant":
		roleColor = pal.assist
		roleLabel = "ASST"
	default:
		roleColor = pal.dim
		roleLabel = strings.ToUpper(m.Role)
	}

	ts := formatTime(m.Timestamp)
	if isHit {
		return fmt.Sprintf("%s>> %s > %s <<%s", pal.hit, roleLabel, ts, pal.reset)
	}
	return fmt.Sprintf("%s%s >%s %s%s%s", roleColor, roleLabel, pal.reset, pal.dim, ts, pal.reset)
}

func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

func containsAnyTerm(text string, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	lower := strings.ToLower(text)
	for _, t := range terms {
		if t != "" && strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

// highlightTerms wraps case-insensitive occurrences of each term in bold
// red, preserving the original casing of the matched text. Matching is
// rune-wise: lowercasing can change a rune's UTF-8 width (U+0130, U+212A),
// so byte offsets into a lowered copy cannot be trusted.
func highlightTerms(text string, terms []string, pal palette) string {
	if pal.boldRed == "" {
		return text
	}
	for _, term := range terms {
		if term == "" {
			continue
		}
		var b strings.Builder
		rest := text
		for {
			pos, n := indexFold(rest, term)
			if pos < 0 {
				b.WriteString(rest)
				break
			}
			b.WriteString(rest[:pos])
			b.WriteString(pal.boldRed)
			b.WriteString(rest[pos : pos+n])
			b.WriteString(pal.reset)
			rest = rest[pos+n:]
		}
		text = b.String()
	}
	return text
}

// indexFold locates the first case-insensitive occurrence of substr in s,
// returning its byte offset and byte length within s, or (-1, 0).
func indexFold(s, substr string) (int, int) {
	target := []rune(substr)
	if len(target) == 0 {
		return -1, 0
	}
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		if n, ok := matchFold(s[i:], target); ok {
			return i, n
		}
		i += size
	}
	return -1, 0
}

// matchFold reports whether s begins with target under rune-wise case
// folding, and how many bytes of s the match spans.
func matchFold(s string, target []rune) (int, bool) {
	n := 0
	for _, t := range target {
		r, size := utf8.DecodeRuneInString(s[n:])
		if size == 0 || unicode.ToLower(r) != unicode.ToLower(t) {
			return 0, false
		}
		n += size
	}
	return n, true
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// lineWriter accumulates output and tracks the emitted line count, wrapping
// long lines when a width is set.
type lineWriter struct {
	b     strings.Builder
	lines int
	width int
}

func newLineWriter(width int) *lineWriter {
	return &lineWriter{width: width}
}

func (w *lineWriter) writeLine(s string) {
	for _, wl := range wrapLine(s, w.width) {
		w.b.WriteString(wl)
		w.b.WriteByte('\n')
		w.lines++
	}
}

func (w *lineWriter) String() string { return w.b.String() }

// wrapLine breaks a line into pieces no wider than maxWidth visible
// columns. ANSI escape sequences pass through without contributing width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// escape sequence: ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}
	if len(result) == 0 {
		return []string{""}
	}
	return result
}
