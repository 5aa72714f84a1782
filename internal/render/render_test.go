package render

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tekacs/session-finder/internal/classify"
	"github.com/tekacs/session-finder/internal/rank"
	"github.com/tekacs/session-finder/internal/session"
	"github.com/tekacs/session-finder/internal/summary"
	"github.com/tekacs/session-finder/internal/terms"
	"github.com/tekacs/session-finder/internal/timeline"
)

func parseFixture(t *testing.T, jsonl string) []session.Message {
	t.Helper()
	log, err := session.ParseReader(strings.NewReader(jsonl), "fixture.jsonl")
	require.NoError(t, err)
	return log.Messages
}

func TestResultListPlain(t *testing.T) {
	ranked := []rank.Ranked{{
		Summary: &summary.Summary{
			SessionID:      "abc-123",
			ProjectPath:    "/home/user/wsproj",
			SizeBytes:      2048,
			LineCount:      17,
			FirstMessageAt: time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
			LastMessageAt:  time.Date(2026, 2, 10, 9, 45, 0, 0, time.UTC),
			FirstPreview:   "user: the import script hangs",
			LastPreview:    "assistant: ship it",
			TopTerms:       []terms.TermCount{{Term: "timeout", Count: 4}},
		},
		Score:    35,
		TermHits: 3,
	}}

	out := ResultList(ranked, Options{Plain: true})

	assert.Contains(t, out, "1. abc-123")
	assert.Contains(t, out, "claude --resume abc-123")
	assert.Contains(t, out, "/home/user/wsproj")
	assert.Contains(t, out, "17 lines, 2.0 KB")
	assert.Contains(t, out, "timeout(4)")
	assert.Contains(t, out, "3 term hits")
	assert.NotContains(t, out, "\033[", "plain output must carry no escapes")
}

func TestResultListEmpty(t *testing.T) {
	assert.Equal(t, "No sessions matched.\n", ResultList(nil, Options{Plain: true}))
}

func TestConversationHitLine(t *testing.T) {
	msgs := parseFixture(t, `{"type":"user","message":{"role":"user","content":"just filler"}}
{"type":"assistant","message":{"role":"assistant","content":"the deadlock is in the pool"}}`)

	out, hitLine := Conversation(msgs, Options{Plain: true, QueryTerms: []string{"deadlock"}})

	require.GreaterOrEqual(t, hitLine, 0)
	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[hitLine], ">> ASST")
	assert.Contains(t, out, "USER >")
}

func TestConversationNoHit(t *testing.T) {
	msgs := parseFixture(t, `{"type":"user","message":{"role":"user","content":"hello"}}`)
	_, hitLine := Conversation(msgs, Options{Plain: true})
	assert.Equal(t, -1, hitLine)
}

func TestHighlightTermsPreservesCase(t *testing.T) {
	pal := colors(false)
	out := highlightTerms("Timeout set; timeout hit", []string{"timeout"}, pal)
	assert.Equal(t, pal.boldRed+"Timeout"+pal.reset+" set; "+pal.boldRed+"timeout"+pal.reset+" hit", out)
}

func TestHighlightTermsMultiByteFolding(t *testing.T) {
	pal := colors(false)

	// U+0130 shrinks from 2 bytes to 1 when lowercased; the highlight span
	// must still cover the whole original rune sequence.
	out := highlightTerms("deploy to İstanbul region", []string{"istanbul"}, pal)
	assert.Equal(t, "deploy to "+pal.boldRed+"İstanbul"+pal.reset+" region", out)
	assert.True(t, utf8.ValidString(out))

	// U+212A (Kelvin sign) lowercases to ASCII k
	out = highlightTerms("temp 300K", []string{"k"}, pal)
	assert.Equal(t, "temp 300"+pal.boldRed+"K"+pal.reset, out)
	assert.True(t, utf8.ValidString(out))
}

func TestTimelineMarksGaps(t *testing.T) {
	msgs := parseFixture(t, `{"type":"user","message":{"role":"user","content":"rebalance now"}}
{"type":"user","message":{"role":"user","content":"filler"}}
{"type":"user","message":{"role":"user","content":"filler"}}
{"type":"user","message":{"role":"user","content":"rebalance done"}}`)

	entries := timeline.Build(msgs, []string{"rebalance"}, 0)
	require.Len(t, entries, 2)

	out := Timeline(entries, Options{Plain: true, QueryTerms: []string{"rebalance"}})
	assert.Contains(t, out, "... (2 messages) ...")
	assert.Contains(t, out, "[Discussion]")
}

func TestCodeDiffEditAndCommand(t *testing.T) {
	changes := []timeline.CodeChange{
		{Op: timeline.OpEdit, Target: "/srv/main.go", Before: "retries = 1", After: "retries = 3"},
		{Op: timeline.OpCommand, Target: "go vet ./..."},
	}

	out := CodeDiff(changes, Options{Plain: true})

	assert.Contains(t, out, "[Edit] /srv/main.go")
	assert.Contains(t, out, "  - retries = 1")
	assert.Contains(t, out, "  + retries = 3")
	assert.Contains(t, out, "[Command] go vet ./...")
	assert.NotContains(t, out, "  + go vet", "commands render as header only")
}

func TestCodeDiffSnippetLang(t *testing.T) {
	out := CodeDiff([]timeline.CodeChange{
		{Op: timeline.OpSnippet, Lang: "python", After: "print('hi')"},
	}, Options{Plain: true})
	assert.Contains(t, out, "[Snippet] (python)")
	assert.Contains(t, out, "  + print('hi')")
}

func TestWrapLineRespectsWidthAndEscapes(t *testing.T) {
	assert.Equal(t, []string{"abcde", "fgh"}, wrapLine("abcdefgh", 5))
	assert.Equal(t, []string{"abc"}, wrapLine("abc", 0))
	assert.Equal(t, []string{""}, wrapLine("", 5))

	// escape codes take no columns
	colored := "\033[1;31mabcde\033[0m"
	assert.Equal(t, []string{colored}, wrapLine(colored, 5))
}

func TestTimelineClassifiesEntries(t *testing.T) {
	msgs := parseFixture(t, `{"type":"assistant","message":{"role":"assistant","content":"run this:\n`+"```"+`sh\nmake lint\n`+"```"+`"}}`)
	entries := timeline.Build(msgs, []string{"lint"}, 0)
	require.Len(t, entries, 1)
	assert.Equal(t, classify.Code, entries[0].Kind)

	out := Timeline(entries, Options{Plain: true, QueryTerms: []string{"lint"}})
	assert.Contains(t, out, "[Code]")
}
