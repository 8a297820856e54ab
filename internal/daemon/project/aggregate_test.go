package project

import (
	"reflect"
	"testing"
	"time"

	"github.com/agentroom/agentroom/internal/models"
)

var base = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func sess(id, project string, active bool, minutes int) *models.Session {
	s := models.NewSession(id, "main")
	s.Project = project
	s.Active = active
	if minutes >= 0 {
		ts := base.Add(time.Duration(minutes) * time.Minute)
		s.LastActivity = &ts
	}
	return s
}

func ids(sessions []*models.Session) []string {
	out := make([]string, len(sessions))
	for i, s := range sessions {
		out[i] = s.ID
	}
	return out
}

func TestAggregateGroupsByProject(t *testing.T) {
	state := Aggregate([]*models.Session{
		sess("a", "proj", true, 1),
		sess("b", "other", false, 2),
		sess("c", "proj", false, 3),
		sess("d", "", false, 4),
	}, base)

	if len(state.Projects) != 3 {
		t.Fatalf("projects = %v, want 3", Names(state))
	}
	if got := ids(state.Projects["proj"].Agents); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("proj agents = %v", got)
	}
	if p := state.Projects[models.UnknownProject]; p == nil || p.Name != models.UnknownProject {
		t.Errorf("session without project should land in %q", models.UnknownProject)
	}
	if !state.Timestamp.Equal(base) {
		t.Errorf("timestamp = %v", state.Timestamp)
	}
	if state.SessionCount() != 4 || state.ActiveCount() != 1 {
		t.Errorf("counts = %d/%d", state.SessionCount(), state.ActiveCount())
	}
}

func TestSortSessions(t *testing.T) {
	tests := []struct {
		name string
		in   []*models.Session
		want []string
	}{
		{
			name: "active first",
			in:   []*models.Session{sess("idle", "p", false, 10), sess("busy", "p", true, 1)},
			want: []string{"busy", "idle"},
		},
		{
			name: "most recent first within activity state",
			in: []*models.Session{
				sess("old", "p", true, 1),
				sess("new", "p", true, 5),
				sess("mid", "p", true, 3),
			},
			want: []string{"new", "mid", "old"},
		},
		{
			name: "no activity sorts last",
			in:   []*models.Session{sess("none", "p", false, -1), sess("some", "p", false, 0)},
			want: []string{"some", "none"},
		},
		{
			name: "ties keep input order",
			in: []*models.Session{
				sess("x", "p", false, 2),
				sess("y", "p", false, 2),
				sess("z", "p", false, -1),
				sess("w", "p", false, -1),
			},
			want: []string{"x", "y", "z", "w"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SortSessions(tt.in)
			if got := ids(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNames(t *testing.T) {
	state := Aggregate([]*models.Session{
		sess("1", "zeta", false, 0),
		sess("2", "alpha", false, 0),
		sess("3", "mid/sub", false, 0),
	}, base)

	want := []string{"alpha", "mid/sub", "zeta"}
	if got := Names(state); !reflect.DeepEqual(got, want) {
		t.Errorf("Names = %v, want %v", got, want)
	}
}
