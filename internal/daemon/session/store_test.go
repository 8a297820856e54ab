package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/agentroom/agentroom/internal/models"
)

func TestStoreUpdateCreatesOnce(t *testing.T) {
	st := NewStore()

	st.Update("a", "main", func(s *models.Session) { s.UseTool(t0, "exec") })
	got := st.Update("a", "other", func(s *models.Session) { s.UseTool(t0.Add(time.Second), "Read") })

	if st.Len() != 1 {
		t.Fatalf("Len = %d, want 1", st.Len())
	}
	if got.AgentID != "main" {
		t.Errorf("agentId = %q, want the id from creation", got.AgentID)
	}
	if len(got.ToolsUsed) != 2 {
		t.Errorf("toolsUsed = %v", got.ToolsUsed)
	}
}

func TestStoreGet(t *testing.T) {
	st := NewStore()
	st.Update("a", "main", func(s *models.Session) { s.Project = "proj" })

	got, err := st.Get("a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	got.Project = "mutated"
	again, _ := st.Get("a")
	if again.Project != "proj" {
		t.Error("Get must return a copy")
	}

	if _, err := st.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrSessionNotFound", err)
	}
}

func TestStoreAllKeepsInsertionOrder(t *testing.T) {
	st := NewStore()
	for _, id := range []string{"c", "a", "b"} {
		st.Update(id, "main", func(*models.Session) {})
	}

	all := st.All()
	if len(all) != 3 || all[0].ID != "c" || all[1].ID != "a" || all[2].ID != "b" {
		ids := make([]string, len(all))
		for i, s := range all {
			ids[i] = s.ID
		}
		t.Errorf("All order = %v, want [c a b]", ids)
	}
}

func TestStoreSweep(t *testing.T) {
	st := NewStore()
	st.Update("old", "main", func(s *models.Session) { s.Start(t0, "p") })
	st.Update("new", "main", func(s *models.Session) { s.Start(t0.Add(time.Hour), "p") })
	eval := fixedEvaluator(t0.Add(time.Hour + time.Minute))

	if n := st.Sweep(eval.Apply); n != 1 {
		t.Errorf("Sweep changed %d sessions, want 1", n)
	}
	old, _ := st.Get("old")
	fresh, _ := st.Get("new")
	if old.Active || !fresh.Active {
		t.Errorf("old.active=%v new.active=%v", old.Active, fresh.Active)
	}
}

func TestStoreEvictBefore(t *testing.T) {
	st := NewStore()
	st.Update("old", "main", func(s *models.Session) { s.Start(t0, "p") })
	st.Update("blank", "main", func(*models.Session) {})
	st.Update("new", "main", func(s *models.Session) { s.Start(t0.Add(48*time.Hour), "p") })

	evicted := st.EvictBefore(t0.Add(24 * time.Hour))

	if len(evicted) != 1 || evicted[0] != "old" {
		t.Errorf("evicted = %v, want [old]", evicted)
	}
	if st.Len() != 2 || !st.Has("new") || !st.Has("blank") {
		t.Errorf("remaining sessions: %d", st.Len())
	}
	if all := st.All(); len(all) != 2 || all[0].ID != "blank" || all[1].ID != "new" {
		t.Errorf("All after eviction = %v", all)
	}
}

func TestStoreConcurrentUpdates(t *testing.T) {
	st := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				st.Update("shared", "main", func(s *models.Session) {
					s.Say(t0.Add(time.Duration(i*50+j)*time.Millisecond), "x")
				})
				_ = st.All()
			}
		}(i)
	}
	wg.Wait()

	got, _ := st.Get("shared")
	if len(got.RecentLogs) != 1000 {
		t.Errorf("lost updates: %d log entries, want 1000", len(got.RecentLogs))
	}
}
