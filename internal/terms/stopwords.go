package terms

// DefaultStopwords returns the boilerplate word list: high-frequency,
// low-information tokens from conversational English, programming
// scaffolding, and the log format's own field vocabulary. The slice is
// freshly allocated so callers may extend it before building an Extractor.
func DefaultStopwords() []string {
	return []string{
		// conversational filler
		"the", "and", "for", "with", "that", "this", "but", "not", "are",
		"was", "were", "has", "had", "have", "can", "will", "would", "could",
		"should", "may", "might", "get", "put", "set", "run", "use", "add",
		"see", "now", "let", "all", "one", "two", "three", "from", "into",
		"over", "then", "when", "what", "where", "which", "who", "why", "how",
		"you", "your", "they", "them", "their", "more", "most", "some", "any",
		"each", "both", "other", "same", "next", "last", "first", "out",
		"off", "way", "too", "own", "just", "only", "also", "back", "here",
		"there", "before", "after", "during", "while", "until", "since",
		"about", "because", "however", "therefore", "although", "unless",
		"whether", "either", "neither",

		// assistant reply scaffolding
		"need", "needs", "want", "trying", "looks", "seems", "actually",
		"really", "good", "great", "perfect", "okay", "right", "correct",
		"wrong", "better", "think", "know", "understand", "mean", "say",
		"tell", "show", "find", "help", "try", "continue", "start", "stop",
		"end", "done", "sure", "example", "instead",

		// programming boilerplate
		"func", "var", "const", "type", "struct", "interface", "package",
		"import", "return", "nil", "err", "error", "string", "int", "bool",
		"true", "false", "none", "self", "def", "class", "let", "mut",
		"pub", "impl", "enum", "trait", "async", "await", "new", "main",
		"test", "tests", "src", "lib", "build",

		// log format vocabulary
		"user", "assistant", "message", "content", "role", "timestamp",
		"session", "request", "response", "tool", "interrupted",

		// low-information technical terms
		"code", "line", "file", "path", "name", "text", "data", "info",
		"log", "debug", "check", "fix", "update", "change", "version",
		"issue", "warning", "output", "input", "function", "method", "call",
		"create", "make", "work", "working", "works", "used", "using",
		"added", "removed", "fixed", "https", "github", "com",
	}
}
