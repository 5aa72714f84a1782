package session

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

const maxLineSize = 10 * 1024 * 1024 // 10MB

// ErrNotMessage marks records that are valid JSON but not conversation
// messages (summaries, progress markers, file snapshots). Callers skip these
// without counting them as malformed.
var ErrNotMessage = errors.New("not a conversation message")

type record struct {
	Type      string          `json:"type"`
	IsMeta    bool            `json:"isMeta"`
	Timestamp string          `json:"timestamp"`
	Message   json.RawMessage `json:"message"`
}

type innerMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

type contentBlock struct {
	Type    string          `json:"type"`
	Text    string          `json:"text"`
	Name    string          `json:"name"`
	Input   json.RawMessage `json:"input"`
	Content json.RawMessage `json:"content"`
	IsError bool            `json:"is_error"`
}

// ParseLine decodes one log record. seq and line become Message.Seq and
// Message.Line. Unknown content-part tags degrade to text parts; a missing
// or unparsable timestamp yields the zero time.
func ParseLine(raw []byte, seq, line int) (Message, error) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Message{}, fmt.Errorf("line %d: %w", line, err)
	}

	if rec.IsMeta {
		return Message{}, ErrNotMessage
	}
	switch rec.Type {
	case "user", "assistant", "tool":
	default:
		return Message{}, ErrNotMessage
	}
	if len(rec.Message) == 0 {
		return Message{}, ErrNotMessage
	}

	var msg innerMessage
	if err := json.Unmarshal(rec.Message, &msg); err != nil {
		return Message{}, fmt.Errorf("line %d: message: %w", line, err)
	}

	role := msg.Role
	if role == "" {
		role = rec.Type
	}

	return Message{
		Role:      role,
		Timestamp: parseTimestamp(rec.Timestamp),
		Seq:       seq,
		Line:      line,
		Parts:     decodeContent(msg.Content),
	}, nil
}

// decodeContent resolves the string-or-array content payload into a uniform
// part sequence, so nothing downstream branches on the raw shape.
func decodeContent(raw json.RawMessage) []ContentPart {
	if len(raw) == 0 {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return splitFences(s)
	}

	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return nil
	}

	var parts []ContentPart
	for _, b := range blocks {
		switch b.Type {
		case "text":
			parts = append(parts, splitFences(b.Text)...)
		case "tool_use":
			parts = append(parts, ContentPart{
				Kind:      PartToolInvocation,
				ToolName:  b.Name,
				ToolInput: b.Input,
			})
		case "tool_result":
			parts = append(parts, ContentPart{
				Kind: PartToolResult,
				Text: flattenResult(b.Content),
				OK:   !b.IsError,
			})
		default:
			// Unknown tags (thinking, images, future block types) degrade to
			// plain text instead of failing the record.
			if b.Text != "" {
				parts = append(parts, ContentPart{Kind: PartText, Text: b.Text})
			}
		}
	}
	return parts
}

// flattenResult extracts text from a tool_result content payload, which is
// itself either a bare string or an array of text blocks.
func flattenResult(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}
	var parts []string
	for _, b := range blocks {
		if b.Type == "text" && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// splitFences splits markdown text into alternating text and code-block
// parts. An unterminated fence swallows the remainder as code.
func splitFences(text string) []ContentPart {
	if text == "" {
		return nil
	}
	if !strings.Contains(text, "```") {
		return []ContentPart{{Kind: PartText, Text: text}}
	}

	var parts []ContentPart
	lines := strings.Split(text, "\n")
	var plain, code []string
	lang := ""
	inFence := false

	flushPlain := func() {
		if s := strings.TrimSpace(strings.Join(plain, "\n")); s != "" {
			parts = append(parts, ContentPart{Kind: PartText, Text: s})
		}
		plain = plain[:0]
	}

	for _, l := range lines {
		if strings.HasPrefix(l, "```") {
			if inFence {
				parts = append(parts, ContentPart{
					Kind: PartCodeBlock,
					Lang: lang,
					Text: strings.Join(code, "\n"),
				})
				code = code[:0]
				inFence = false
			} else {
				flushPlain()
				lang = strings.TrimSpace(l[3:])
				inFence = true
			}
			continue
		}
		if inFence {
			code = append(code, l)
		} else {
			plain = append(plain, l)
		}
	}

	if inFence {
		parts = append(parts, ContentPart{Kind: PartCodeBlock, Lang: lang, Text: strings.Join(code, "\n")})
	} else {
		flushPlain()
	}
	return parts
}

// ParseReader parses a JSONL stream. Malformed lines are counted in
// SkippedLines; non-message records are dropped silently.
func ParseReader(r io.Reader, path string) (*Log, error) {
	log := &Log{Path: path}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		msg, err := ParseLine(line, len(log.Messages), lineNum)
		if errors.Is(err, ErrNotMessage) {
			continue
		}
		if err != nil {
			log.SkippedLines++
			continue
		}
		log.Messages = append(log.Messages, msg)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	log.LineCount = lineNum
	return log, nil
}

// Open opens a session log for reading, decompressing .zst and .gz files
// transparently so archived logs stay searchable.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	switch {
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		return &decompressed{Reader: dec.IOReadCloser(), file: f}, nil
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		return &decompressed{Reader: gz, file: f}, nil
	}
	return f, nil
}

// decompressed closes both the decoder and the underlying file.
type decompressed struct {
	io.Reader
	file *os.File
}

func (d *decompressed) Close() error {
	if c, ok := d.Reader.(io.Closer); ok {
		c.Close()
	}
	return d.file.Close()
}

// ParseFile opens and parses a session log.
func ParseFile(path string) (*Log, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ParseReader(r, path)
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}
