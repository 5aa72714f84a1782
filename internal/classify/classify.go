// Package classify assigns a semantic kind to message content parts.
// Misclassification only affects presentation, never matching, so the
// heuristics stay conservative and default to Discussion.
package classify

import (
	"strings"

	"github.com/tekacs/session-finder/internal/session"
)

// Kind is the semantic category of a content part.
type Kind int

const (
	Discussion Kind = iota
	Code
	ToolCall
	Error
	Success
)

func (k Kind) String() string {
	switch k {
	case Code:
		return "Code"
	case ToolCall:
		return "Tool Call"
	case Error:
		return "Error"
	case Success:
		return "Success"
	}
	return "Discussion"
}

// errorMarkers are leading or embedded signatures conventionally emitted by
// failing tools and compilers.
var errorMarkers = []string{
	"error:",
	"error[",
	"fatal:",
	"panic:",
	"panicked at",
	"traceback (most recent call last)",
	"permission denied",
	"no such file",
	"command not found",
	"cannot find",
	"exit status 1",
	"non-zero exit",
}

// successPhrases signal a user confirming that something worked.
var successPhrases = []string{
	"works", "perfect", "great", "excellent", "success",
	"completed", "fixed", "solved", "that's it",
}

// Part classifies a single content part. Priority order: tool invocations,
// then errors, then success acknowledgements, then code, then discussion.
func Part(p session.ContentPart, role string) Kind {
	switch p.Kind {
	case session.PartToolInvocation:
		return ToolCall
	case session.PartToolResult:
		if !p.OK {
			return Error
		}
		if looksLikeError(p.Text) {
			return Error
		}
		return Success
	case session.PartCodeBlock:
		return Code
	}

	if looksLikeError(p.Text) {
		return Error
	}
	// Success phrasing is only meaningful coming from the user; assistant
	// prose uses the same words far too freely.
	if role == "user" && looksLikeSuccess(p.Text) {
		return Success
	}
	return Discussion
}

// Message classifies a whole message as the most specific kind among its
// parts, with the same priority order as Part.
func Message(m *session.Message) Kind {
	best := Discussion
	for _, p := range m.Parts {
		k := Part(p, m.Role)
		if rank(k) > rank(best) {
			best = k
		}
	}
	return best
}

func rank(k Kind) int {
	switch k {
	case ToolCall:
		return 4
	case Error:
		return 3
	case Success:
		return 2
	case Code:
		return 1
	}
	return 0
}

func looksLikeError(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, m := range errorMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func looksLikeSuccess(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, p := range successPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
