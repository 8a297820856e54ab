package models

import "time"

// DaemonInfo represents the daemon connection information.
// This corresponds to ~/.agentroom/daemon.yaml.
type DaemonInfo struct {
	Version    int       `yaml:"version"`
	Host       string    `yaml:"host"`
	Port       int       `yaml:"port"`
	PID        int       `yaml:"pid"`
	AgentsRoot string    `yaml:"agents_root"`
	StartedAt  time.Time `yaml:"started_at"`
}

// NewDaemonInfo creates a new daemon info with current values.
func NewDaemonInfo(host string, port, pid int, agentsRoot string) *DaemonInfo {
	return &DaemonInfo{
		Version:    1,
		Host:       host,
		Port:       port,
		PID:        pid,
		AgentsRoot: agentsRoot,
		StartedAt:  time.Now().UTC(),
	}
}

// DialHost returns a host clients can connect to. Wildcard listen
// addresses are mapped to loopback.
func (d *DaemonInfo) DialHost() string {
	switch d.Host {
	case "", "0.0.0.0", "::", "[::]":
		return "localhost"
	}
	return d.Host
}
