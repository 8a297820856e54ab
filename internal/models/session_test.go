package models

import (
	"fmt"
	"testing"
	"time"
)

func TestSessionToolsUsedUnique(t *testing.T) {
	s := NewSession("s1", "main")
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	for i, name := range []string{"exec", "Read", "exec", "web_search", "Read", "exec"} {
		s.UseTool(base.Add(time.Duration(i)*time.Second), name)
	}

	want := []string{"exec", "Read", "web_search"}
	if len(s.ToolsUsed) != len(want) {
		t.Fatalf("ToolsUsed = %v, want %v", s.ToolsUsed, want)
	}
	for i := range want {
		if s.ToolsUsed[i] != want[i] {
			t.Errorf("ToolsUsed[%d] = %q, want %q", i, s.ToolsUsed[i], want[i])
		}
	}
	if len(s.RecentLogs) != 6 {
		t.Errorf("expected one log entry per tool call, got %d", len(s.RecentLogs))
	}
	if s.Tool() != "exec" || s.CurrentZone != ZoneCoding {
		t.Errorf("current tool = %q (%s), want exec (coding)", s.Tool(), s.CurrentZone)
	}
}

func TestSessionTrimLogsDropsOldest(t *testing.T) {
	s := NewSession("s1", "main")
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i := 0; i < MaxRecentLogs+7; i++ {
		s.Say(base.Add(time.Duration(i)*time.Second), fmt.Sprintf("line %d", i))
	}

	s.TrimLogs(MaxRecentLogs)

	if len(s.RecentLogs) != MaxRecentLogs {
		t.Fatalf("len(RecentLogs) = %d, want %d", len(s.RecentLogs), MaxRecentLogs)
	}
	if got := s.RecentLogs[0].Preview; got != "line 7" {
		t.Errorf("oldest kept entry = %q, want %q", got, "line 7")
	}
	if got := s.RecentLogs[MaxRecentLogs-1].Preview; got != fmt.Sprintf("line %d", MaxRecentLogs+6) {
		t.Errorf("newest entry = %q", got)
	}
}

func TestSessionTouchNeverMovesBackwards(t *testing.T) {
	s := NewSession("s1", "main")
	later := time.Date(2026, 1, 2, 3, 10, 0, 0, time.UTC)
	earlier := later.Add(-time.Minute)

	s.Touch(later)
	s.Touch(earlier)
	s.Touch(time.Time{})

	if s.LastActivity == nil || !s.LastActivity.Equal(later) {
		t.Errorf("LastActivity = %v, want %v", s.LastActivity, later)
	}
}

func TestSessionCloneIsDeep(t *testing.T) {
	s := NewSession("s1", "main")
	s.UseTool(time.Now(), "exec")

	c := s.Clone()
	c.ToolsUsed[0] = "changed"
	*c.CurrentTool = "changed"
	c.RecentLogs[0].Tool = "changed"

	if s.ToolsUsed[0] != "exec" || s.Tool() != "exec" || s.RecentLogs[0].Tool != "exec" {
		t.Error("mutating the clone changed the original")
	}
}

func TestSessionGoIdle(t *testing.T) {
	s := NewSession("s1", "main")
	s.Start(time.Now(), "proj")
	s.UseTool(time.Now(), "web_search")

	s.GoIdle()

	if s.Active || s.CurrentTool != nil || s.CurrentZone != ZoneIdle {
		t.Errorf("after GoIdle: active=%v tool=%v zone=%s", s.Active, s.CurrentTool, s.CurrentZone)
	}
	if len(s.ToolsUsed) != 1 {
		t.Errorf("GoIdle must not clear ToolsUsed, got %v", s.ToolsUsed)
	}
}

func TestSessionActivityReactivates(t *testing.T) {
	tests := []struct {
		name  string
		apply func(s *Session, ts time.Time)
	}{
		{"tool call", func(s *Session, ts time.Time) { s.UseTool(ts, "exec") }},
		{"assistant text", func(s *Session, ts time.Time) { s.Say(ts, "back at it") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
			s := NewSession("s1", "main")
			s.Start(start, "proj")
			s.GoIdle()

			tt.apply(s, start.Add(time.Hour))

			if !s.Active {
				t.Error("activity after going idle should mark the session active")
			}
			if s.LastActivity == nil || !s.LastActivity.Equal(start.Add(time.Hour)) {
				t.Errorf("LastActivity = %v", s.LastActivity)
			}
		})
	}
}
