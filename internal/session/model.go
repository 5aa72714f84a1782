// Package session parses Claude Code JSONL conversation logs into typed
// messages. Each line of a log is an independent record; malformed lines are
// skipped and counted rather than aborting the scan.
package session

import (
	"encoding/json"
	"time"
)

// PartKind discriminates the ContentPart variants.
type PartKind int

const (
	PartText PartKind = iota
	PartCodeBlock
	PartToolInvocation
	PartToolResult
)

func (k PartKind) String() string {
	switch k {
	case PartText:
		return "text"
	case PartCodeBlock:
		return "code"
	case PartToolInvocation:
		return "tool_use"
	case PartToolResult:
		return "tool_result"
	}
	return "unknown"
}

// ContentPart is one semantically distinct unit within a message. Which
// fields are populated depends on Kind.
type ContentPart struct {
	Kind PartKind

	Text string // PartText, PartCodeBlock and PartToolResult body
	Lang string // PartCodeBlock language tag, may be empty

	ToolName  string          // PartToolInvocation
	ToolInput json.RawMessage // PartToolInvocation arguments, verbatim

	OK bool // PartToolResult: false when the tool reported an error
}

// Message is one parsed record from a log. Seq is the message's position
// among the parsed records of its session and is the only ordering key;
// timestamps may tie, repeat, or be absent (zero).
type Message struct {
	Role      string
	Timestamp time.Time
	Seq       int
	Line      int // 1-based line number in the source file
	Parts     []ContentPart
}

// PlainText concatenates the searchable text of all parts: plain text, code
// block bodies, tool invocation inputs, and tool result bodies.
func (m *Message) PlainText() string {
	var b []byte
	for _, p := range m.Parts {
		var s string
		switch p.Kind {
		case PartText, PartCodeBlock, PartToolResult:
			s = p.Text
		case PartToolInvocation:
			s = p.ToolName + " " + string(p.ToolInput)
		}
		if s == "" {
			continue
		}
		if len(b) > 0 {
			b = append(b, '\n')
		}
		b = append(b, s...)
	}
	return string(b)
}

// Log is the parsed form of one session file.
type Log struct {
	Path         string
	Messages     []Message
	SkippedLines int
	LineCount    int // total lines scanned, including non-message records
}
