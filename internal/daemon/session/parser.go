// Package session folds agent activity records into live session state.
package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/agentroom/agentroom/internal/models"
)

// PreviewLength is the number of characters kept from assistant text.
const PreviewLength = 120

// Record types and roles understood by the parser.
const (
	RecordSession = "session"
	RecordMessage = "message"

	RoleAssistant  = "assistant"
	RoleToolResult = "toolResult"

	BlockToolCall = "toolCall"
	BlockText     = "text"
)

// ErrNotObject is returned for lines that are valid JSON but not an object.
var ErrNotObject = errors.New("record is not a JSON object")

// Record is one decoded line of a session file.
type Record struct {
	Type      string          `json:"type"`
	Timestamp json.RawMessage `json:"timestamp"`
	Cwd       string          `json:"cwd"`
	Message   *Message        `json:"message"`
}

// Message is the payload of a "message" record.
type Message struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// Block is one typed element of a message's content.
type Block struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Text string `json:"text"`
}

// Time returns the record timestamp, or the zero time if it is missing or
// unparseable. Strings are RFC 3339; numbers are Unix epoch milliseconds.
func (r *Record) Time() time.Time {
	raw := bytes.TrimSpace(r.Timestamp)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}
	}

	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil || text == "" {
			return time.Time{}
		}
		ts, err := time.Parse(time.RFC3339Nano, text)
		if err != nil {
			return time.Time{}
		}
		return ts
	}

	var ms float64
	if err := json.Unmarshal(raw, &ms); err != nil || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(ms)).UTC()
}

// Blocks returns the message content blocks. Content that is not an array
// (plain string user prompts, for example) has no blocks. Elements are
// decoded one by one; an element that does not decode as a block is skipped
// without affecting its neighbours.
func (m *Message) Blocks() []Block {
	raw := bytes.TrimSpace(m.Content)
	if len(raw) == 0 || raw[0] != '[' {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	blocks := make([]Block, 0, len(elems))
	for _, elem := range elems {
		var b Block
		if err := json.Unmarshal(elem, &b); err != nil {
			continue
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// ParseRecord decodes one line.
func ParseRecord(line []byte) (*Record, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] != '{' {
		return nil, ErrNotObject
	}
	var rec Record
	if err := json.Unmarshal(line, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &rec, nil
}

// Parser folds records into sessions. Home is stripped from working
// directories when deriving project names.
type Parser struct {
	Home string
}

// NewParser creates a parser that derives project names relative to home.
func NewParser(home string) *Parser {
	return &Parser{Home: home}
}

// FoldResult reports what happened to a batch of lines.
type FoldResult struct {
	Folded  int
	Skipped int
}

// FoldLines parses and applies every line to s, skipping lines that do not
// decode, then caps the recent log.
func (p *Parser) FoldLines(s *models.Session, lines [][]byte) FoldResult {
	var res FoldResult
	for _, line := range lines {
		rec, err := ParseRecord(line)
		if err != nil {
			res.Skipped++
			continue
		}
		p.Fold(s, rec)
		res.Folded++
	}
	s.TrimLogs(models.MaxRecentLogs)
	return res
}

// Fold applies a single record to s. Record shapes without a state effect
// (tool results, user prompts, unknown types) are ignored.
func (p *Parser) Fold(s *models.Session, rec *Record) {
	ts := rec.Time()

	switch rec.Type {
	case RecordSession:
		s.Start(ts, ProjectFromCwd(rec.Cwd, p.Home))

	case RecordMessage:
		if rec.Message == nil || rec.Message.Role == RoleToolResult {
			return
		}
		for _, block := range rec.Message.Blocks() {
			switch block.Type {
			case BlockToolCall:
				if block.Name != "" {
					s.UseTool(ts, block.Name)
				}
			case BlockText:
				if rec.Message.Role != RoleAssistant {
					continue
				}
				if preview := Preview(block.Text); strings.TrimSpace(preview) != "" {
					s.Say(ts, preview)
				}
			}
		}
	}
}

// Preview returns the first PreviewLength characters of text.
func Preview(text string) string {
	if utf8.RuneCountInString(text) <= PreviewLength {
		return text
	}
	n := 0
	for i := range text {
		if n == PreviewLength {
			return text[:i]
		}
		n++
	}
	return text
}

// ProjectFromCwd derives a project name from a working directory: the home
// prefix is stripped and at most the first two remaining segments are kept.
func ProjectFromCwd(cwd, home string) string {
	if cwd == "" {
		return models.UnknownProject
	}

	rel := cwd
	home = strings.TrimRight(home, "/")
	if home != "" {
		if rel == home {
			rel = ""
		} else if strings.HasPrefix(rel, home+"/") {
			rel = rel[len(home)+1:]
		}
	}
	rel = strings.TrimPrefix(rel, "./")
	rel = strings.TrimRight(rel, "/")

	var parts []string
	for _, part := range strings.Split(rel, "/") {
		if part != "" {
			parts = append(parts, part)
		}
		if len(parts) == 2 {
			break
		}
	}
	if len(parts) == 0 {
		return models.HomeProject
	}
	return strings.Join(parts, "/")
}
