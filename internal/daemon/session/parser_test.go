package session

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/agentroom/agentroom/internal/models"
)

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func stamp(ts time.Time) string {
	return ts.Format(time.RFC3339Nano)
}

func sessionLine(ts time.Time, cwd string) []byte {
	return []byte(fmt.Sprintf(`{"type":"session","timestamp":%q,"cwd":%q}`, stamp(ts), cwd))
}

func toolLine(ts time.Time, names ...string) []byte {
	blocks := make([]string, len(names))
	for i, n := range names {
		blocks[i] = fmt.Sprintf(`{"type":"toolCall","name":%q}`, n)
	}
	return []byte(fmt.Sprintf(`{"type":"message","timestamp":%q,"message":{"role":"assistant","content":[%s]}}`,
		stamp(ts), strings.Join(blocks, ",")))
}

func textLine(ts time.Time, role, text string) []byte {
	return []byte(fmt.Sprintf(`{"type":"message","timestamp":%q,"message":{"role":%q,"content":[{"type":"text","text":%q}]}}`,
		stamp(ts), role, text))
}

func toolResultLine(ts time.Time) []byte {
	return []byte(fmt.Sprintf(`{"type":"message","timestamp":%q,"message":{"role":"toolResult","content":[{"type":"text","text":"ok"}]}}`,
		stamp(ts)))
}

func fixedEvaluator(now time.Time) *Evaluator {
	return &Evaluator{Threshold: DefaultStaleAfter, Now: func() time.Time { return now }}
}

func TestFoldScenario(t *testing.T) {
	p := NewParser("/home/u")
	s := models.NewSession("abc", "main")
	t1, t2 := t0.Add(time.Second), t0.Add(2*time.Second)

	res := p.FoldLines(s, [][]byte{
		sessionLine(t0, "/home/u/proj"),
		toolLine(t1, "exec"),
		textLine(t2, RoleAssistant, "done"),
	})
	fixedEvaluator(t2.Add(time.Minute)).Apply(s)

	if res.Folded != 3 || res.Skipped != 0 {
		t.Errorf("FoldResult = %+v", res)
	}
	if s.Project != "proj" {
		t.Errorf("project = %q, want proj", s.Project)
	}
	if s.Tool() != "exec" || s.CurrentZone != models.ZoneCoding {
		t.Errorf("current tool = %q (%s), want exec (coding)", s.Tool(), s.CurrentZone)
	}
	if len(s.ToolsUsed) != 1 || s.ToolsUsed[0] != "exec" {
		t.Errorf("toolsUsed = %v", s.ToolsUsed)
	}
	if len(s.RecentLogs) != 2 {
		t.Fatalf("recentLogs = %+v", s.RecentLogs)
	}
	if l := s.RecentLogs[0]; l.Kind != models.LogKindTool || l.Tool != "exec" || l.Zone != models.ZoneCoding {
		t.Errorf("first log = %+v", l)
	}
	if l := s.RecentLogs[1]; l.Kind != models.LogKindText || l.Preview != "done" {
		t.Errorf("second log = %+v", l)
	}
	if s.StartTime == nil || !s.StartTime.Equal(t0) {
		t.Errorf("startTime = %v, want %v", s.StartTime, t0)
	}
	if s.LastActivity == nil || !s.LastActivity.Equal(t2) {
		t.Errorf("lastActivity = %v, want %v", s.LastActivity, t2)
	}
	if !s.Active {
		t.Error("expected a recently active session")
	}
}

func TestFoldSkipsMalformedLine(t *testing.T) {
	p := NewParser("/home/u")
	s := models.NewSession("abc", "main")

	res := p.FoldLines(s, [][]byte{
		sessionLine(t0, "/home/u/proj"),
		[]byte(`{"type":"message","timestamp":`),
		toolLine(t0.Add(time.Second), "web_search"),
	})

	if res.Folded != 2 || res.Skipped != 1 {
		t.Errorf("FoldResult = %+v, want 2 folded 1 skipped", res)
	}
	if s.Project != "proj" {
		t.Errorf("project = %q, want proj", s.Project)
	}
	if s.Tool() != "web_search" || s.CurrentZone != models.ZoneResearch {
		t.Errorf("current tool = %q (%s)", s.Tool(), s.CurrentZone)
	}
}

func TestFoldIgnoresRecordsWithoutEffect(t *testing.T) {
	tests := []struct {
		name string
		line []byte
	}{
		{name: "tool result", line: toolResultLine(t0.Add(time.Minute))},
		{name: "user text", line: textLine(t0.Add(time.Minute), "user", "please fix it")},
		{name: "blank assistant text", line: textLine(t0.Add(time.Minute), RoleAssistant, "   \n\t")},
		{name: "string content", line: []byte(`{"type":"message","timestamp":"2026-03-14T09:01:00Z","message":{"role":"user","content":"hi"}}`)},
		{name: "tool call without name", line: []byte(`{"type":"message","timestamp":"2026-03-14T09:01:00Z","message":{"role":"assistant","content":[{"type":"toolCall"}]}}`)},
		{name: "unknown record type", line: []byte(`{"type":"model_change","timestamp":"2026-03-14T09:01:00Z"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser("/home/u")
			s := models.NewSession("abc", "main")
			p.FoldLines(s, [][]byte{sessionLine(t0, "/home/u/proj"), toolLine(t0, "exec")})
			before := s.Clone()

			res := p.FoldLines(s, [][]byte{tt.line})

			if res.Skipped != 0 {
				t.Errorf("line was treated as malformed")
			}
			if len(s.RecentLogs) != len(before.RecentLogs) {
				t.Errorf("recentLogs grew to %d", len(s.RecentLogs))
			}
			if !s.LastActivity.Equal(*before.LastActivity) {
				t.Errorf("lastActivity moved to %v", s.LastActivity)
			}
			if s.Tool() != "exec" {
				t.Errorf("current tool changed to %q", s.Tool())
			}
		})
	}
}

func TestFoldTextKeepsCurrentTool(t *testing.T) {
	p := NewParser("")
	s := models.NewSession("abc", "main")

	p.FoldLines(s, [][]byte{
		toolLine(t0, "memory_search"),
		textLine(t0.Add(time.Second), RoleAssistant, "found it"),
		textLine(t0.Add(2*time.Second), RoleAssistant, "all done"),
	})

	if s.Tool() != "memory_search" || s.CurrentZone != models.ZoneMemory {
		t.Errorf("current tool = %q (%s), want memory_search (memory)", s.Tool(), s.CurrentZone)
	}
}

func TestFoldMultipleToolCallsInOneMessage(t *testing.T) {
	p := NewParser("")
	s := models.NewSession("abc", "main")

	p.FoldLines(s, [][]byte{toolLine(t0, "Read", "nodes", "Read")})

	if s.Tool() != "Read" {
		t.Errorf("current tool = %q, want the last call", s.Tool())
	}
	if len(s.ToolsUsed) != 2 || s.ToolsUsed[0] != "Read" || s.ToolsUsed[1] != "nodes" {
		t.Errorf("toolsUsed = %v", s.ToolsUsed)
	}
	if len(s.RecentLogs) != 3 {
		t.Errorf("expected one log per call, got %d", len(s.RecentLogs))
	}
}

func TestFoldCapsRecentLogs(t *testing.T) {
	p := NewParser("")
	s := models.NewSession("abc", "main")

	var lines [][]byte
	for i := 0; i < 80; i++ {
		lines = append(lines, textLine(t0.Add(time.Duration(i)*time.Second), RoleAssistant, fmt.Sprintf("step %d", i)))
	}
	p.FoldLines(s, lines)

	if len(s.RecentLogs) != models.MaxRecentLogs {
		t.Fatalf("len(recentLogs) = %d, want %d", len(s.RecentLogs), models.MaxRecentLogs)
	}
	if s.RecentLogs[0].Preview != "step 30" {
		t.Errorf("oldest kept = %q, want step 30", s.RecentLogs[0].Preview)
	}
}

func TestPreviewTruncatesCharacters(t *testing.T) {
	long := strings.Repeat("é", PreviewLength+10)

	got := Preview(long)

	if n := len([]rune(got)); n != PreviewLength {
		t.Errorf("preview has %d characters, want %d", n, PreviewLength)
	}
	if Preview("short") != "short" {
		t.Error("short text should be kept as-is")
	}
}

func TestFoldIncrementalMatchesSinglePass(t *testing.T) {
	now := t0.Add(10 * time.Second)
	lines := [][]byte{
		sessionLine(t0, "/home/u/work/api/server"),
		toolLine(t0.Add(1*time.Second), "exec"),
		textLine(t0.Add(2*time.Second), RoleAssistant, "running tests"),
		toolResultLine(t0.Add(3 * time.Second)),
		toolLine(t0.Add(4*time.Second), "web_fetch", "exec"),
		[]byte("not json"),
		textLine(t0.Add(5*time.Second), RoleAssistant, "tests pass"),
		toolLine(t0.Add(6*time.Second), "message"),
	}
	p := NewParser("/home/u")
	eval := fixedEvaluator(now)

	whole := models.NewSession("abc", "main")
	p.FoldLines(whole, lines)
	eval.Apply(whole)

	for _, cuts := range [][]int{{1}, {3, 5}, {1, 2, 3, 4, 5, 6, 7}} {
		inc := models.NewSession("abc", "main")
		start := 0
		for _, cut := range append(cuts, len(lines)) {
			p.FoldLines(inc, lines[start:cut])
			eval.Apply(inc)
			start = cut
		}
		assertSameSession(t, fmt.Sprint(cuts), whole, inc)
	}
}

func assertSameSession(t *testing.T, label string, want, got *models.Session) {
	t.Helper()
	if got.Project != want.Project || got.Tool() != want.Tool() || got.CurrentZone != want.CurrentZone || got.Active != want.Active {
		t.Errorf("%s: got project=%q tool=%q zone=%s active=%v, want project=%q tool=%q zone=%s active=%v",
			label, got.Project, got.Tool(), got.CurrentZone, got.Active, want.Project, want.Tool(), want.CurrentZone, want.Active)
	}
	if !got.LastActivity.Equal(*want.LastActivity) || !got.StartTime.Equal(*want.StartTime) {
		t.Errorf("%s: timestamps differ", label)
	}
	if strings.Join(got.ToolsUsed, ",") != strings.Join(want.ToolsUsed, ",") {
		t.Errorf("%s: toolsUsed = %v, want %v", label, got.ToolsUsed, want.ToolsUsed)
	}
	if len(got.RecentLogs) != len(want.RecentLogs) {
		t.Fatalf("%s: %d logs, want %d", label, len(got.RecentLogs), len(want.RecentLogs))
	}
	for i := range want.RecentLogs {
		if got.RecentLogs[i] != want.RecentLogs[i] {
			t.Errorf("%s: log %d = %+v, want %+v", label, i, got.RecentLogs[i], want.RecentLogs[i])
		}
	}
}

func TestProjectFromCwd(t *testing.T) {
	tests := []struct {
		name     string
		cwd      string
		home     string
		expected string
	}{
		{name: "direct child of home", cwd: "/home/u/proj", home: "/home/u", expected: "proj"},
		{name: "two segments kept", cwd: "/home/u/work/api/server", home: "/home/u", expected: "work/api"},
		{name: "trailing slash", cwd: "/home/u/proj/", home: "/home/u", expected: "proj"},
		{name: "home itself", cwd: "/home/u", home: "/home/u", expected: models.HomeProject},
		{name: "home with trailing slash", cwd: "/home/u/", home: "/home/u", expected: models.HomeProject},
		{name: "outside home", cwd: "/srv/app/current", home: "/home/u", expected: "srv/app"},
		{name: "sibling user is not stripped", cwd: "/home/u2/proj", home: "/home/u", expected: "home/u2"},
		{name: "relative path", cwd: "./tools/x/y", home: "/home/u", expected: "tools/x"},
		{name: "root", cwd: "/", home: "/home/u", expected: models.HomeProject},
		{name: "empty", cwd: "", home: "/home/u", expected: models.UnknownProject},
		{name: "no home configured", cwd: "/home/u/proj", home: "", expected: "home/u"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProjectFromCwd(tt.cwd, tt.home); got != tt.expected {
				t.Errorf("ProjectFromCwd(%q, %q) = %q, want %q", tt.cwd, tt.home, got, tt.expected)
			}
		})
	}
}

func TestParseRecordRejectsNonObjects(t *testing.T) {
	for _, line := range []string{`[1,2]`, `"text"`, `42`, ``, `{broken`} {
		if _, err := ParseRecord([]byte(line)); err == nil {
			t.Errorf("ParseRecord(%q) succeeded, want error", line)
		}
	}
}

func TestFoldKeepsToolCallsNextToUndecodableBlocks(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bare string element", `["hi",{"type":"toolCall","name":"exec"}]`},
		{"text block with object text", `[{"type":"text","text":{"a":1}},{"type":"toolCall","name":"exec"}]`},
		{"null element", `[null,{"type":"toolCall","name":"exec"}]`},
		{"number element", `[7,{"type":"toolCall","name":"exec"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser("")
			s := models.NewSession("abc", "main")
			line := fmt.Sprintf(`{"type":"message","timestamp":%q,"message":{"role":"assistant","content":%s}}`,
				stamp(t0), tt.content)

			res := p.FoldLines(s, [][]byte{[]byte(line)})

			if res.Folded != 1 || res.Skipped != 0 {
				t.Errorf("FoldResult = %+v, want 1 folded", res)
			}
			if s.Tool() != "exec" || len(s.ToolsUsed) != 1 {
				t.Errorf("tool = %q, toolsUsed = %v, want exec", s.Tool(), s.ToolsUsed)
			}
		})
	}
}

func TestRecordTime(t *testing.T) {
	tests := []struct {
		name string
		ts   string
		want time.Time
	}{
		{"rfc3339 string", `"2026-03-14T09:00:00.5Z"`, t0.Add(500 * time.Millisecond)},
		{"epoch milliseconds", fmt.Sprint(t0.UnixMilli()), t0},
		{"missing", ``, time.Time{}},
		{"null", `null`, time.Time{}},
		{"empty string", `""`, time.Time{}},
		{"unparseable string", `"yesterday"`, time.Time{}},
		{"negative number", `-5`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{Timestamp: []byte(tt.ts)}
			if got := rec.Time(); !got.Equal(tt.want) {
				t.Errorf("Time() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFoldNumericTimestamp(t *testing.T) {
	p := NewParser("")
	s := models.NewSession("abc", "main")

	line := fmt.Sprintf(`{"type":"message","timestamp":%d,"message":{"role":"assistant","content":[{"type":"toolCall","name":"exec"}]}}`,
		t0.UnixMilli())
	res := p.FoldLines(s, [][]byte{[]byte(line)})

	if res.Folded != 1 || res.Skipped != 0 {
		t.Fatalf("FoldResult = %+v, want 1 folded", res)
	}
	if s.LastActivity == nil || !s.LastActivity.Equal(t0) {
		t.Errorf("lastActivity = %v, want %v", s.LastActivity, t0)
	}
}
