package models

import "time"

// Defaults for a fresh settings file.
const (
	DefaultAgentsRoot  = "~/.openclaw/agents"
	DefaultSessionsDir = "sessions"
	DefaultExtension   = ".jsonl"
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 3001
	DefaultStaleAfter  = 5 * time.Minute
	DefaultEvictAfter  = 24 * time.Hour
	DefaultDebounce    = 100 * time.Millisecond
)

// ListenConfig holds the daemon's listen address.
type ListenConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"` // 0 = dynamic allocation
}

// TelemetryConfig holds opt-in usage reporting settings.
type TelemetryConfig struct {
	Enabled    bool   `yaml:"enabled"`
	PostHogKey string `yaml:"posthog_key"`
	Endpoint   string `yaml:"endpoint,omitempty"` // empty = PostHog cloud
}

// Settings represents global application settings.
// This corresponds to ~/.agentroom/settings.yaml.
type Settings struct {
	Version     int             `yaml:"version"`
	AgentsRoot  string          `yaml:"agents_root"`
	SessionsDir string          `yaml:"sessions_dir"`
	Extension   string          `yaml:"extension"`
	Listen      ListenConfig    `yaml:"listen"`
	StaleAfter  time.Duration   `yaml:"stale_after"`
	EvictAfter  time.Duration   `yaml:"evict_after"` // 0 disables eviction
	Debounce    time.Duration   `yaml:"debounce"`
	Telemetry   TelemetryConfig `yaml:"telemetry"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version:     1,
		AgentsRoot:  DefaultAgentsRoot,
		SessionsDir: DefaultSessionsDir,
		Extension:   DefaultExtension,
		Listen: ListenConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		StaleAfter: DefaultStaleAfter,
		EvictAfter: DefaultEvictAfter,
		Debounce:   DefaultDebounce,
	}
}

// ApplyDefaults fills zero values left by a partial settings file.
// EvictAfter and Listen.Port are left alone since zero is meaningful for both.
func (s *Settings) ApplyDefaults() {
	if s.Version == 0 {
		s.Version = 1
	}
	if s.AgentsRoot == "" {
		s.AgentsRoot = DefaultAgentsRoot
	}
	if s.SessionsDir == "" {
		s.SessionsDir = DefaultSessionsDir
	}
	if s.Extension == "" {
		s.Extension = DefaultExtension
	}
	if s.Listen.Host == "" {
		s.Listen.Host = DefaultHost
	}
	if s.StaleAfter <= 0 {
		s.StaleAfter = DefaultStaleAfter
	}
	if s.Debounce < 0 {
		s.Debounce = DefaultDebounce
	}
}
