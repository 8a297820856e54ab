package models

import "time"

// MaxRecentLogs is the number of log entries a session keeps.
const MaxRecentLogs = 50

// Session is the reconstructed live state of one agent run.
// It is keyed by the session file name and serialized as-is to observers.
type Session struct {
	ID           string     `json:"id"`
	AgentID      string     `json:"agentId"`
	Project      string     `json:"project"`
	StartTime    *time.Time `json:"startTime"`
	LastActivity *time.Time `json:"lastActivity"`
	CurrentTool  *string    `json:"currentTool"`
	CurrentZone  Zone       `json:"currentZone"`
	ToolsUsed    []string   `json:"toolsUsed"`
	RecentLogs   []LogEntry `json:"recentLogs"`
	Active       bool       `json:"active"`
}

// NewSession creates an empty session for the given file identity.
func NewSession(id, agentID string) *Session {
	return &Session{
		ID:          id,
		AgentID:     agentID,
		Project:     UnknownProject,
		CurrentZone: ZoneIdle,
		ToolsUsed:   []string{},
		RecentLogs:  []LogEntry{},
	}
}

// Start records a session-start record.
func (s *Session) Start(ts time.Time, project string) {
	if !ts.IsZero() {
		t := ts
		s.StartTime = &t
		s.Touch(ts)
	}
	s.Project = project
	s.Active = true
}

// Touch advances LastActivity. Older or zero timestamps are ignored so
// LastActivity never moves backwards.
func (s *Session) Touch(ts time.Time) {
	if ts.IsZero() {
		return
	}
	if s.LastActivity != nil && ts.Before(*s.LastActivity) {
		return
	}
	t := ts
	s.LastActivity = &t
}

// UseTool makes name the current tool and records it in ToolsUsed and RecentLogs.
func (s *Session) UseTool(ts time.Time, name string) {
	tool := name
	s.CurrentTool = &tool
	s.CurrentZone = ClassifyTool(name)
	s.addTool(name)
	s.RecentLogs = append(s.RecentLogs, LogEntry{
		Time: ts,
		Kind: LogKindTool,
		Tool: name,
		Zone: s.CurrentZone,
	})
	s.Touch(ts)
	s.Active = true
}

// Say records assistant-authored text. The current tool is left alone.
func (s *Session) Say(ts time.Time, preview string) {
	s.RecentLogs = append(s.RecentLogs, LogEntry{
		Time:    ts,
		Kind:    LogKindText,
		Preview: preview,
	})
	s.Touch(ts)
	s.Active = true
}

// TrimLogs drops the oldest log entries beyond limit.
func (s *Session) TrimLogs(limit int) {
	if over := len(s.RecentLogs) - limit; over > 0 {
		s.RecentLogs = append([]LogEntry(nil), s.RecentLogs[over:]...)
	}
}

// GoIdle clears the current tool and marks the session inactive.
func (s *Session) GoIdle() {
	s.Active = false
	s.CurrentTool = nil
	s.CurrentZone = ZoneIdle
}

// Tool returns the current tool name, or "" when there is none.
func (s *Session) Tool() string {
	if s.CurrentTool == nil {
		return ""
	}
	return *s.CurrentTool
}

func (s *Session) addTool(name string) {
	for _, t := range s.ToolsUsed {
		if t == name {
			return
		}
	}
	s.ToolsUsed = append(s.ToolsUsed, name)
}

// Clone returns a deep copy safe to hand to other goroutines.
func (s *Session) Clone() *Session {
	c := *s
	if s.StartTime != nil {
		t := *s.StartTime
		c.StartTime = &t
	}
	if s.LastActivity != nil {
		t := *s.LastActivity
		c.LastActivity = &t
	}
	if s.CurrentTool != nil {
		tool := *s.CurrentTool
		c.CurrentTool = &tool
	}
	c.ToolsUsed = append(make([]string, 0, len(s.ToolsUsed)), s.ToolsUsed...)
	c.RecentLogs = append(make([]LogEntry, 0, len(s.RecentLogs)), s.RecentLogs...)
	return &c
}
