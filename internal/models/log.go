package models

import "time"

// LogKind distinguishes entries in a session's recent log.
type LogKind string

const (
	LogKindTool LogKind = "tool"
	LogKindText LogKind = "text"
)

// LogEntry is one line of a session's recent activity.
// Tool and Zone are set for tool entries, Preview for text entries.
type LogEntry struct {
	Time    time.Time `json:"time"`
	Kind    LogKind   `json:"kind"`
	Tool    string    `json:"tool,omitempty"`
	Zone    Zone      `json:"zone,omitempty"`
	Preview string    `json:"preview,omitempty"`
}
