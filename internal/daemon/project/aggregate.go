// Package project groups sessions into the per-project view pushed to observers.
package project

import (
	"sort"
	"time"

	"github.com/agentroom/agentroom/internal/models"
)

// Aggregate groups sessions by project. Within a project, active sessions
// come first and each group is ordered by most recent activity. Sessions
// with equal keys keep their input order. Projects are not ordered.
func Aggregate(sessions []*models.Session, now time.Time) *models.State {
	state := &models.State{
		Projects:  make(map[string]*models.Project),
		Timestamp: now,
	}

	for _, s := range sessions {
		name := s.Project
		if name == "" {
			name = models.UnknownProject
		}
		p, ok := state.Projects[name]
		if !ok {
			p = &models.Project{Name: name}
			state.Projects[name] = p
		}
		p.Agents = append(p.Agents, s)
	}

	for _, p := range state.Projects {
		SortSessions(p.Agents)
	}
	return state
}

// SortSessions orders sessions active-first, then by lastActivity descending.
// Sessions without activity sort last within their group.
func SortSessions(sessions []*models.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if a.Active != b.Active {
			return a.Active
		}
		return newer(a.LastActivity, b.LastActivity)
	})
}

// Names returns project names in lexical order.
func Names(state *models.State) []string {
	names := make([]string, 0, len(state.Projects))
	for name := range state.Projects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newer(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.After(*b)
	}
}
