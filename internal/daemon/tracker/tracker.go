// Package tracker serializes every session-state mutation through one
// dispatcher goroutine: file change notifications, snapshot requests and
// eviction sweeps are queued and handled one at a time.
package tracker

import (
	"context"
	"errors"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/agentroom/agentroom/internal/daemon/hub"
	"github.com/agentroom/agentroom/internal/daemon/project"
	"github.com/agentroom/agentroom/internal/daemon/reader"
	"github.com/agentroom/agentroom/internal/daemon/session"
	"github.com/agentroom/agentroom/internal/daemon/watcher"
	"github.com/agentroom/agentroom/internal/models"
)

// ErrStopped is returned for requests made after Run has returned.
var ErrStopped = errors.New("tracker stopped")

// EvictInterval is how often the background eviction sweep runs.
const EvictInterval = time.Hour

// Options configures a Tracker.
type Options struct {
	Root        string
	SessionsDir string
	Extension   string
	// Home is stripped from working directories when naming projects.
	Home       string
	StaleAfter time.Duration
	// EvictAfter removes sessions idle for longer than this. Zero disables.
	EvictAfter time.Duration
	Now        func() time.Time
}

// Stats are running counters for the status RPC and telemetry.
type Stats struct {
	Files       int
	Sessions    int
	Observers   int
	Scans       uint64
	LinesFolded uint64
	ParseErrors uint64
	ReadErrors  uint64
	Evicted     uint64
	Published   uint64
}

type requestKind int

const (
	requestFile requestKind = iota
	requestSnapshot
	requestEvict
)

type request struct {
	kind  requestKind
	path  string
	reply chan *models.State
}

// Tracker owns the file cursors, the session store and the observer hub.
type Tracker struct {
	opts   Options
	reader *reader.Reader
	parser *session.Parser
	store  *session.Store
	stale  *session.Evaluator
	hub    *hub.Hub

	requests chan request
	done     chan struct{}

	// dispatcher-only state
	paths   map[string]string // session id -> file path
	evicted map[string]bool   // paths whose session was evicted

	scans, linesFolded, parseErrors, readErrors, evictedCount, published atomic.Uint64
}

// New creates a tracker. Call Run to start processing.
func New(opts Options) *Tracker {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SessionsDir == "" {
		opts.SessionsDir = models.DefaultSessionsDir
	}
	if opts.Extension == "" {
		opts.Extension = models.DefaultExtension
	}

	stale := session.NewEvaluator(opts.StaleAfter)
	stale.Now = opts.Now

	t := &Tracker{
		opts:     opts,
		reader:   reader.New(),
		parser:   session.NewParser(opts.Home),
		store:    session.NewStore(),
		stale:    stale,
		requests: make(chan request, 256),
		done:     make(chan struct{}),
		paths:    make(map[string]string),
		evicted:  make(map[string]bool),
	}
	t.hub = hub.New(t.State)
	return t
}

// Hub returns the observer hub.
func (t *Tracker) Hub() *hub.Hub {
	return t.hub
}

// Store returns the session store.
func (t *Tracker) Store() *session.Store {
	return t.store
}

// Run performs an initial scan and then processes queued requests until ctx
// is cancelled. Observers are disconnected when Run returns.
func (t *Tracker) Run(ctx context.Context) error {
	defer close(t.done)
	defer t.hub.Close()

	t.scan()
	log.Printf("[tracker] Initial scan: %d sessions from %d files", t.store.Len(), t.reader.Len())

	var evictC <-chan time.Time
	if t.opts.EvictAfter > 0 {
		ticker := time.NewTicker(EvictInterval)
		defer ticker.Stop()
		evictC = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-evictC:
			t.handle(request{kind: requestEvict})
		case req := <-t.requests:
			t.handle(req)
		}
	}
}

// Notify queues a change notification for a session file.
func (t *Tracker) Notify(ctx context.Context, path string) error {
	return t.enqueue(ctx, request{kind: requestFile, path: path})
}

// Follow forwards watcher events to the queue until events is closed or ctx
// is cancelled.
func (t *Tracker) Follow(ctx context.Context, events <-chan watcher.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := t.Notify(ctx, ev.Path); err != nil {
				return
			}
		}
	}
}

// Snapshot rediscovers and reads every session file, forces stale sessions
// idle, publishes the result to observers and returns it.
func (t *Tracker) Snapshot(ctx context.Context) (*models.State, error) {
	reply := make(chan *models.State, 1)
	if err := t.enqueue(ctx, request{kind: requestSnapshot, reply: reply}); err != nil {
		return nil, err
	}
	select {
	case state := <-reply:
		return state, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.done:
		return nil, ErrStopped
	}
}

// Session returns a copy of one session.
func (t *Tracker) Session(id string) (*models.Session, error) {
	return t.store.Get(id)
}

// State aggregates the store as it is now, without reading files or
// applying staleness.
func (t *Tracker) State() *models.State {
	return project.Aggregate(t.store.All(), t.opts.Now())
}

// Stats returns the current counters.
func (t *Tracker) Stats() Stats {
	return Stats{
		Files:       t.reader.Len(),
		Sessions:    t.store.Len(),
		Observers:   t.hub.Len(),
		Scans:       t.scans.Load(),
		LinesFolded: t.linesFolded.Load(),
		ParseErrors: t.parseErrors.Load(),
		ReadErrors:  t.readErrors.Load(),
		Evicted:     t.evictedCount.Load(),
		Published:   t.published.Load(),
	}
}

func (t *Tracker) enqueue(ctx context.Context, req request) error {
	select {
	case t.requests <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-t.done:
		return ErrStopped
	}
}

func (t *Tracker) handle(req request) {
	switch req.kind {
	case requestFile:
		if t.processFile(req.path) {
			t.publish()
		}

	case requestSnapshot:
		t.scan()
		t.store.Sweep(t.stale.Apply)
		t.evict()
		state := t.publish()
		req.reply <- state

	case requestEvict:
		if t.evict() > 0 {
			t.publish()
		}
	}
}

// scan reads every discovered session file.
func (t *Tracker) scan() {
	t.scans.Add(1)
	files, errs := watcher.Discover(t.opts.Root, t.opts.SessionsDir, t.opts.Extension)
	for _, err := range errs {
		log.Printf("[tracker] Warning: %v", err)
	}
	for _, f := range files {
		t.processFile(f.Path)
	}
}

// processFile folds any new lines of path into its session and reports
// whether the session changed.
func (t *Tracker) processFile(path string) bool {
	id := watcher.Identify(path, t.opts.Extension)

	if t.evicted[path] {
		info, err := os.Stat(path)
		if err != nil || info.Size() <= t.reader.Offset(path) {
			return false
		}
		// The session is gone from the store; rebuild it from the start.
		t.reader.Reset(path)
		delete(t.evicted, path)
	}

	lines, err := t.reader.ReadNew(path)
	if err != nil {
		t.readErrors.Add(1)
		log.Printf("[tracker] Failed to read %s: %v", path, err)
		return false
	}
	if len(lines) == 0 {
		return false
	}

	var res session.FoldResult
	t.store.Update(id.SessionID, id.AgentID, func(s *models.Session) {
		res = t.parser.FoldLines(s, lines)
		t.stale.Apply(s)
	})
	t.paths[id.SessionID] = path
	t.linesFolded.Add(uint64(res.Folded))
	if res.Skipped > 0 {
		t.parseErrors.Add(uint64(res.Skipped))
		log.Printf("[tracker] Skipped %d malformed lines in %s", res.Skipped, path)
	}
	return true
}

// evict drops sessions idle for longer than EvictAfter and returns how many
// were removed.
func (t *Tracker) evict() int {
	if t.opts.EvictAfter <= 0 {
		return 0
	}
	ids := t.store.EvictBefore(t.opts.Now().Add(-t.opts.EvictAfter))
	for _, id := range ids {
		if path, ok := t.paths[id]; ok {
			t.evicted[path] = true
			delete(t.paths, id)
		}
	}
	if len(ids) > 0 {
		t.evictedCount.Add(uint64(len(ids)))
		log.Printf("[tracker] Evicted %d idle sessions", len(ids))
	}
	return len(ids)
}

func (t *Tracker) publish() *models.State {
	state := t.State()
	t.hub.Publish(state)
	t.published.Add(1)
	return state
}
