package summary

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tekacs/session-finder/internal/terms"
)

const fixtureLog = `{"type":"user","timestamp":"2026-02-10T09:00:00Z","message":{"role":"user","content":"the websocket handshake keeps failing"}}
{"type":"assistant","timestamp":"2026-02-10T09:00:05Z","message":{"role":"assistant","content":"Checking the websocket upgrade headers."}}
{"type":"user","timestamp":"2026-02-10T09:05:00Z","message":{"role":"user","content":"handshake passes now, thanks"}}`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func extractor() *terms.Extractor {
	return terms.NewExtractor(terms.DefaultStopwords(), 3, 50)
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	proj := filepath.Join(dir, "-home-user-wsproj")
	require.NoError(t, os.MkdirAll(proj, 0o755))
	path := writeFixture(t, proj, "abc-123.jsonl", fixtureLog)

	sum, err := Build(path, extractor())
	require.NoError(t, err)

	assert.Equal(t, "abc-123", sum.SessionID)
	assert.Equal(t, "/home/user/wsproj", sum.ProjectPath)
	assert.Equal(t, 3, sum.LineCount)
	assert.Equal(t, 0, sum.SkippedLines)
	assert.Contains(t, sum.FirstPreview, "user: the websocket")
	assert.Contains(t, sum.LastPreview, "handshake passes")
	assert.Equal(t, "2026-02-10T09:00:00Z", sum.FirstMessageAt.Format(time.RFC3339))
	assert.Equal(t, "2026-02-10T09:05:00Z", sum.LastMessageAt.Format(time.RFC3339))

	found := map[string]bool{}
	for _, tc := range sum.TopTerms {
		found[tc.Term] = true
	}
	assert.True(t, found["websocket"])
	assert.True(t, found["handshake"])
}

func TestBuildEmptySession(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "empty.jsonl", `{"type":"summary","summary":"nothing"}`)

	_, err := Build(path, extractor())
	assert.ErrorIs(t, err, ErrEmptySession)
}

func TestSessionIDStripsCompressionExtensions(t *testing.T) {
	assert.Equal(t, "abc", SessionID("/x/-p/abc.jsonl"))
	assert.Equal(t, "abc", SessionID("/x/-p/abc.jsonl.zst"))
	assert.Equal(t, "abc", SessionID("/x/-p/abc.jsonl.gz"))
}

func TestBuildAllFiltersAndCounts(t *testing.T) {
	dir := t.TempDir()
	projA := filepath.Join(dir, "-srv-alpha")
	projB := filepath.Join(dir, "-srv-beta")
	require.NoError(t, os.MkdirAll(projA, 0o755))
	require.NoError(t, os.MkdirAll(projB, 0o755))

	a := writeFixture(t, projA, "s1.jsonl", fixtureLog)
	b := writeFixture(t, projB, "s2.jsonl", fixtureLog)
	missing := filepath.Join(projA, "gone.jsonl")

	sums, stats := BuildAll(
		[]string{a, b, missing},
		Filter{ProjectPrefix: "/srv/alpha", RecentDays: 7},
		extractor(), 2,
	)

	require.Len(t, sums, 1)
	assert.Equal(t, "s1", sums[0].SessionID)
	assert.Equal(t, 3, stats.Candidates)
	assert.Equal(t, 1, stats.Built)
	assert.Equal(t, 1, stats.Filtered) // s2, wrong project
	assert.Equal(t, 1, stats.Unreadable)
}

func TestBuildAllRecencyCutoff(t *testing.T) {
	dir := t.TempDir()
	proj := filepath.Join(dir, "-srv-alpha")
	require.NoError(t, os.MkdirAll(proj, 0o755))
	path := writeFixture(t, proj, "old.jsonl", fixtureLog)

	old := time.Now().AddDate(0, 0, -30)
	require.NoError(t, os.Chtimes(path, old, old))

	sums, stats := BuildAll([]string{path}, Filter{RecentDays: 7}, extractor(), 1)
	assert.Empty(t, sums)
	assert.Equal(t, 1, stats.Filtered)
}

func TestBuildAllDeterministicOrder(t *testing.T) {
	dir := t.TempDir()
	proj := filepath.Join(dir, "-srv-alpha")
	require.NoError(t, os.MkdirAll(proj, 0o755))

	var paths []string
	for _, name := range []string{"c.jsonl", "a.jsonl", "b.jsonl"} {
		paths = append(paths, writeFixture(t, proj, name, fixtureLog))
	}

	sums, _ := BuildAll(paths, Filter{}, extractor(), 3)
	require.Len(t, sums, 3)
	assert.Equal(t, "a", sums[0].SessionID)
	assert.Equal(t, "b", sums[1].SessionID)
	assert.Equal(t, "c", sums[2].SessionID)
}
