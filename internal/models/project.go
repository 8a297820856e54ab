// Package models contains shared data structures used across the application.
package models

import "time"

// Fallback project names.
const (
	// UnknownProject is used when a session never announced a working directory.
	UnknownProject = "unknown"

	// HomeProject is used when the working directory is the home directory itself.
	HomeProject = "home"
)

// Project groups the sessions that originate from one working directory.
type Project struct {
	Name   string     `json:"name"`
	Agents []*Session `json:"agents"`
}

// State is the grouped-by-project view of every known session at a point in time.
type State struct {
	Projects  map[string]*Project `json:"projects"`
	Timestamp time.Time           `json:"timestamp"`
}

// SessionCount returns the number of sessions across all projects.
func (s *State) SessionCount() int {
	n := 0
	for _, p := range s.Projects {
		n += len(p.Agents)
	}
	return n
}

// ActiveCount returns the number of active sessions across all projects.
func (s *State) ActiveCount() int {
	n := 0
	for _, p := range s.Projects {
		for _, a := range p.Agents {
			if a.Active {
				n++
			}
		}
	}
	return n
}

// MessageKind tags push messages sent to observers.
type MessageKind string

const (
	MessageInit   MessageKind = "init"
	MessageUpdate MessageKind = "update"
)

// Message is a full-state push delivered to an observer.
type Message struct {
	Kind  MessageKind `json:"kind"`
	State *State      `json:"state"`
}
