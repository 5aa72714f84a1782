package timeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tekacs/session-finder/internal/classify"
	"github.com/tekacs/session-finder/internal/session"
)

func parseFixture(t *testing.T, jsonl string) []session.Message {
	t.Helper()
	log, err := session.ParseReader(strings.NewReader(jsonl), "fixture.jsonl")
	require.NoError(t, err)
	return log.Messages
}

const fiveMessages = `{"type":"user","timestamp":"2026-02-10T09:00:00Z","message":{"role":"user","content":"the import script hangs"}}
{"type":"assistant","timestamp":"2026-02-10T09:00:05Z","message":{"role":"assistant","content":"Let me check the HTTP client settings."}}
{"type":"assistant","timestamp":"2026-02-10T09:00:10Z","message":{"role":"assistant","content":"Found it:\n` + "```" + `go\nclient.Timeout = 30 * time.Second\n` + "```" + `"}}
{"type":"user","timestamp":"2026-02-10T09:00:20Z","message":{"role":"user","content":"that explains the hang"}}
{"type":"user","timestamp":"2026-02-10T09:00:30Z","message":{"role":"user","content":"ship it"}}`

func TestBuildContextWindowScenario(t *testing.T) {
	// message 3 (index 2) contains "timeout" inside a code block; context 1
	// yields messages 2,3,4 with the hit classified as Code.
	msgs := parseFixture(t, fiveMessages)
	require.Len(t, msgs, 5)

	entries := Build(msgs, []string{"timeout"}, 1)
	require.Len(t, entries, 3)

	assert.Equal(t, 1, entries[0].Message.Seq)
	assert.Equal(t, 2, entries[1].Message.Seq)
	assert.Equal(t, 3, entries[2].Message.Seq)

	assert.False(t, entries[0].IsMatch)
	assert.True(t, entries[1].IsMatch)
	assert.False(t, entries[2].IsMatch)
	assert.Equal(t, classify.Code, entries[1].Kind)
}

func TestBuildMergesOverlappingWindows(t *testing.T) {
	var lines []string
	for i := 0; i < 6; i++ {
		text := "filler"
		if i == 2 || i == 3 {
			text = "rebalance the shards"
		}
		lines = append(lines,
			`{"type":"user","message":{"role":"user","content":"`+text+`"}}`)
	}
	msgs := parseFixture(t, strings.Join(lines, "\n"))

	entries := Build(msgs, []string{"rebalance"}, 2)

	// adjacent windows [0..4] and [1..5] merge to [0..5], no duplicates
	require.Len(t, entries, 6)
	seen := map[int]int{}
	matchCount := 0
	for _, e := range entries {
		seen[e.Message.Seq]++
		if e.IsMatch {
			matchCount++
		}
	}
	for seq, n := range seen {
		assert.Equal(t, 1, n, "seq %d duplicated", seq)
	}
	assert.Equal(t, 2, matchCount)
}

func TestBuildWindowStaysInBounds(t *testing.T) {
	msgs := parseFixture(t, `{"type":"user","message":{"role":"user","content":"edge rollout case"}}`)
	entries := Build(msgs, []string{"rollout"}, 5)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsMatch)
}

func TestBuildZeroMatches(t *testing.T) {
	msgs := parseFixture(t, fiveMessages)
	assert.Empty(t, Build(msgs, []string{"kubernetes"}, 2))
}

func TestBuildOrderIsSequenceOrder(t *testing.T) {
	// tied timestamps must not reorder entries
	msgs := parseFixture(t, `{"type":"user","timestamp":"2026-02-10T09:00:00Z","message":{"role":"user","content":"vector first"}}
{"type":"assistant","timestamp":"2026-02-10T09:00:00Z","message":{"role":"assistant","content":"vector second"}}
{"type":"user","timestamp":"2026-02-10T09:00:00Z","message":{"role":"user","content":"vector third"}}`)

	entries := Build(msgs, []string{"vector"}, 0)
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, i, e.Message.Seq)
	}
}

func TestMatchesIgnoresToolResults(t *testing.T) {
	msgs := parseFixture(t, `{"type":"user","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"t1","content":"grep: needleword not found","is_error":false}]}}`)
	assert.Empty(t, Build(msgs, []string{"needleword"}, 1))
}
