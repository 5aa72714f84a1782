package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threeEdits = `{"type":"assistant","timestamp":"2026-02-10T09:00:00Z","message":{"role":"assistant","content":[{"type":"tool_use","id":"t1","name":"Edit","input":{"file_path":"/srv/main.go","old_string":"retries = 1","new_string":"retries = 3"}}]}}
{"type":"assistant","timestamp":"2026-02-10T09:01:00Z","message":{"role":"assistant","content":[{"type":"tool_use","id":"t2","name":"Edit","input":{"file_path":"/srv/main.go","old_string":"retries = 3","new_string":"retries = 5"}}]}}
{"type":"assistant","timestamp":"2026-02-10T09:02:00Z","message":{"role":"assistant","content":[{"type":"tool_use","id":"t3","name":"Edit","input":{"file_path":"/srv/main.go","old_string":"retries = 5","new_string":"retries = 8"}}]}}`

func TestThreeSequentialEdits(t *testing.T) {
	msgs := parseFixture(t, threeEdits)
	changes := CodeChanges(msgs, nil, 2)

	require.Len(t, changes, 3)
	wantPairs := [][2]string{
		{"retries = 1", "retries = 3"},
		{"retries = 3", "retries = 5"},
		{"retries = 5", "retries = 8"},
	}
	for i, c := range changes {
		assert.Equal(t, OpEdit, c.Op)
		assert.Equal(t, "/srv/main.go", c.Target)
		assert.Equal(t, wantPairs[i][0], c.Before)
		assert.Equal(t, wantPairs[i][1], c.After)
		assert.Equal(t, i, c.Seq)
	}
}

func TestMultiEditFansOut(t *testing.T) {
	msgs := parseFixture(t, `{"type":"assistant","timestamp":"2026-02-10T09:00:00Z","message":{"role":"assistant","content":[{"type":"tool_use","id":"t1","name":"MultiEdit","input":{"file_path":"/srv/cfg.go","edits":[{"old_string":"a","new_string":"b"},{"old_string":"c","new_string":"d"}]}}]}}`)

	changes := CodeChanges(msgs, nil, 0)
	require.Len(t, changes, 2)
	for _, c := range changes {
		assert.Equal(t, OpMultiEdit, c.Op)
		assert.Equal(t, "/srv/cfg.go", c.Target)
		assert.Equal(t, 0, c.Seq)
		assert.Equal(t, changes[0].Timestamp, c.Timestamp)
	}
	assert.Equal(t, "a", changes[0].Before)
	assert.Equal(t, "b", changes[0].After)
	assert.Equal(t, "c", changes[1].Before)
	assert.Equal(t, "d", changes[1].After)
}

func TestWriteAndCommandHaveNoBefore(t *testing.T) {
	msgs := parseFixture(t, `{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","id":"t1","name":"Write","input":{"file_path":"/srv/new.go","content":"package main"}},{"type":"tool_use","id":"t2","name":"Bash","input":{"command":"go vet ./..."}}]}}`)

	changes := CodeChanges(msgs, nil, 0)
	require.Len(t, changes, 2)

	assert.Equal(t, OpWrite, changes[0].Op)
	assert.Equal(t, "/srv/new.go", changes[0].Target)
	assert.Equal(t, "package main", changes[0].After)
	assert.Empty(t, changes[0].Before)

	assert.Equal(t, OpCommand, changes[1].Op)
	assert.Equal(t, "go vet ./...", changes[1].Target)
	assert.Empty(t, changes[1].Before)
}

func TestSnippetFromDiscussion(t *testing.T) {
	msgs := parseFixture(t, `{"type":"user","message":{"role":"user","content":"try this:\n`+"```"+`python\nprint('hi')\n`+"```"+`"}}`)

	changes := CodeChanges(msgs, nil, 0)
	require.Len(t, changes, 1)
	assert.Equal(t, OpSnippet, changes[0].Op)
	assert.Equal(t, "python", changes[0].Lang)
	assert.Equal(t, "print('hi')", changes[0].After)
}

func TestQueryFiltersChanges(t *testing.T) {
	jsonl := `{"type":"user","timestamp":"2026-02-10T09:00:00Z","message":{"role":"user","content":"fix the retry logic"}}
{"type":"assistant","timestamp":"2026-02-10T09:00:05Z","message":{"role":"assistant","content":[{"type":"tool_use","id":"t1","name":"Edit","input":{"file_path":"/srv/backoff.go","old_string":"x","new_string":"y"}}]}}
{"type":"assistant","timestamp":"2026-02-10T09:04:00Z","message":{"role":"assistant","content":"Now the styling."}}
{"type":"assistant","timestamp":"2026-02-10T09:05:00Z","message":{"role":"assistant","content":[{"type":"tool_use","id":"t2","name":"Edit","input":{"file_path":"/srv/render.go","old_string":"p","new_string":"q"}}]}}`
	msgs := parseFixture(t, jsonl)

	// "retry" hits the user message one step before the backoff.go edit;
	// nothing in the render.go edit's window mentions it.
	changes := CodeChanges(msgs, []string{"retry"}, 1)
	require.Len(t, changes, 1)
	assert.Equal(t, "/srv/backoff.go", changes[0].Target)

	// no query keeps everything
	assert.Len(t, CodeChanges(msgs, nil, 1), 2)
}

func TestReadOnlyToolsIgnored(t *testing.T) {
	msgs := parseFixture(t, `{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","id":"t1","name":"Read","input":{"file_path":"/srv/main.go"}},{"type":"tool_use","id":"t2","name":"Grep","input":{"pattern":"foo"}}]}}`)
	assert.Empty(t, CodeChanges(msgs, nil, 0))
}
