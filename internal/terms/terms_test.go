package terms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tekacs/session-finder/internal/session"
)

func msgs(texts ...string) []session.Message {
	out := make([]session.Message, len(texts))
	for i, t := range texts {
		out[i] = session.Message{
			Role:  "user",
			Seq:   i,
			Parts: []session.ContentPart{{Kind: session.PartText, Text: t}},
		}
	}
	return out
}

func TestExtractCountsAndRanks(t *testing.T) {
	e := NewExtractor(DefaultStopwords(), 3, 50)
	got := e.Extract(msgs(
		"postgres timeout on replica",
		"the postgres replica hits a timeout again",
		"postgres is fine now",
	))

	require.NotEmpty(t, got)
	assert.Equal(t, TermCount{Term: "postgres", Count: 3}, got[0])

	counts := map[string]int{}
	for _, tc := range got {
		counts[tc.Term] = tc.Count
	}
	assert.Equal(t, 2, counts["timeout"])
	assert.Equal(t, 2, counts["replica"])
	// stopwords and short tokens never surface
	assert.NotContains(t, counts, "the")
	assert.NotContains(t, counts, "is")
	assert.NotContains(t, counts, "on")
}

func TestExtractTiesKeepFirstOccurrenceOrder(t *testing.T) {
	e := NewExtractor(nil, 3, 50)
	got := e.Extract(msgs("zebra apple zebra apple mango"))

	// zebra and apple tie at 2; zebra appeared first
	require.GreaterOrEqual(t, len(got), 3)
	assert.Equal(t, "zebra", got[0].Term)
	assert.Equal(t, "apple", got[1].Term)
	assert.Equal(t, "mango", got[2].Term)
}

func TestExtractDeterministic(t *testing.T) {
	e := NewExtractor(DefaultStopwords(), 3, 50)
	in := msgs(
		"retry backoff jitter retry",
		"backoff curve looks wrong",
		"jitter applied per retry",
	)
	first := e.Extract(in)
	second := e.Extract(in)
	assert.Equal(t, first, second)
}

func TestExtractTruncatesToTopN(t *testing.T) {
	e := NewExtractor(nil, 3, 2)
	got := e.Extract(msgs("alpha beta gamma delta alpha beta alpha"))
	require.Len(t, got, 2)
	assert.Equal(t, "alpha", got[0].Term)
	assert.Equal(t, "beta", got[1].Term)
}
