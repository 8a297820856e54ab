package session

import (
	"time"

	"github.com/agentroom/agentroom/internal/models"
)

// DefaultStaleAfter is how long a session may go without activity before it
// is forced idle.
const DefaultStaleAfter = models.DefaultStaleAfter

// Evaluator demotes sessions whose last activity is older than Threshold.
// It only acts when called: a session nobody touches keeps its last state
// until the next fold or snapshot sweep.
type Evaluator struct {
	Threshold time.Duration
	Now       func() time.Time
}

// NewEvaluator creates an evaluator using the wall clock.
func NewEvaluator(threshold time.Duration) *Evaluator {
	if threshold <= 0 {
		threshold = DefaultStaleAfter
	}
	return &Evaluator{Threshold: threshold, Now: time.Now}
}

// Stale reports whether s has been quiet for longer than the threshold.
// Sessions that never recorded activity are not stale.
func (e *Evaluator) Stale(s *models.Session) bool {
	if s.LastActivity == nil {
		return false
	}
	return e.Now().Sub(*s.LastActivity) > e.Threshold
}

// Apply forces a stale session idle and reports whether anything changed.
func (e *Evaluator) Apply(s *models.Session) bool {
	if !e.Stale(s) {
		return false
	}
	changed := s.Active || s.CurrentTool != nil || s.CurrentZone != models.ZoneIdle
	s.GoIdle()
	return changed
}
