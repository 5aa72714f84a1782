package timeline

import (
	"encoding/json"
	"time"

	"github.com/tekacs/session-finder/internal/session"
)

// Op is the kind of code-mutating event a CodeChange records.
type Op int

const (
	OpWrite Op = iota
	OpEdit
	OpMultiEdit
	OpCommand
	OpSnippet // fenced code block in discussion text
)

func (o Op) String() string {
	switch o {
	case OpWrite:
		return "Write"
	case OpEdit:
		return "Edit"
	case OpMultiEdit:
		return "MultiEdit"
	case OpCommand:
		return "Command"
	}
	return "Snippet"
}

// CodeChange is a structured before/after rendering of one code-mutating
// event. Before is set only for Edit and MultiEdit, which carry the prior
// fragment in their invocation; Write and Command have no prior content.
type CodeChange struct {
	Op        Op
	Target    string // file path, or the command text for OpCommand
	Before    string
	After     string
	Lang      string // OpSnippet only
	Timestamp time.Time
	Role      string
	Seq       int
}

// mutatingTools maps tool names to the operation they denote.
var mutatingTools = map[string]Op{
	"Write":     OpWrite,
	"Edit":      OpEdit,
	"MultiEdit": OpMultiEdit,
	"Bash":      OpCommand,
}

// toolInput covers the argument shapes of all code-mutating tools.
type toolInput struct {
	FilePath  string `json:"file_path"`
	Content   string `json:"content"`
	OldString string `json:"old_string"`
	NewString string `json:"new_string"`
	Command   string `json:"command"`
	Edits     []struct {
		OldString string `json:"old_string"`
		NewString string `json:"new_string"`
	} `json:"edits"`
}

// CodeChanges extracts the session's code-change timeline. Without query
// terms every code-mutating entry is retained; with terms an entry survives
// if it or any message in its context window matches. Output order is the
// log's own sequence order. A MultiEdit fans out into one change per
// sub-edit, in edit-list order, all sharing the invocation's timestamp.
func CodeChanges(msgs []session.Message, queryTerms []string, context int) []CodeChange {
	if context < 0 {
		context = 0
	}

	var changes []CodeChange
	for i := range msgs {
		extracted := extract(&msgs[i])
		if len(extracted) == 0 {
			continue
		}
		if len(queryTerms) > 0 && !nearbyMatch(msgs, i, context, queryTerms) {
			continue
		}
		changes = append(changes, extracted...)
	}
	return changes
}

// nearbyMatch reports a query hit on the message itself or within its
// context window.
func nearbyMatch(msgs []session.Message, i, context int, queryTerms []string) bool {
	lo := i - context
	if lo < 0 {
		lo = 0
	}
	hi := i + context
	if hi > len(msgs)-1 {
		hi = len(msgs) - 1
	}
	for j := lo; j <= hi; j++ {
		if matches(&msgs[j], queryTerms) {
			return true
		}
	}
	return false
}

// extract converts one message's code-mutating parts into CodeChanges, in
// part order. Code blocks are only taken from user and assistant text, per
// the candidate rules; tool results never contribute.
func extract(m *session.Message) []CodeChange {
	var out []CodeChange
	for _, p := range m.Parts {
		switch p.Kind {
		case session.PartToolInvocation:
			op, ok := mutatingTools[p.ToolName]
			if !ok {
				continue
			}
			out = append(out, fromInvocation(m, op, p.ToolInput)...)
		case session.PartCodeBlock:
			out = append(out, CodeChange{
				Op:        OpSnippet,
				After:     p.Text,
				Lang:      p.Lang,
				Timestamp: m.Timestamp,
				Role:      m.Role,
				Seq:       m.Seq,
			})
		}
	}
	return out
}

func fromInvocation(m *session.Message, op Op, raw json.RawMessage) []CodeChange {
	var in toolInput
	if len(raw) > 0 {
		// Malformed input still yields a change record with empty fields;
		// the event happened even if its arguments did not decode.
		json.Unmarshal(raw, &in)
	}

	base := CodeChange{
		Op:        op,
		Timestamp: m.Timestamp,
		Role:      m.Role,
		Seq:       m.Seq,
	}

	switch op {
	case OpWrite:
		base.Target = in.FilePath
		base.After = in.Content
		return []CodeChange{base}
	case OpCommand:
		base.Target = in.Command
		base.After = in.Command
		return []CodeChange{base}
	case OpEdit:
		base.Target = in.FilePath
		base.Before = in.OldString
		base.After = in.NewString
		return []CodeChange{base}
	case OpMultiEdit:
		if len(in.Edits) == 0 {
			base.Target = in.FilePath
			return []CodeChange{base}
		}
		out := make([]CodeChange, 0, len(in.Edits))
		for _, e := range in.Edits {
			c := base
			c.Target = in.FilePath
			c.Before = e.OldString
			c.After = e.NewString
			out = append(out, c)
		}
		return out
	}
	return nil
}
