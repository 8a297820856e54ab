// Package hub fans out state pushes to connected observers.
package hub

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/agentroom/agentroom/internal/models"
)

// Buffer is the number of undelivered messages an observer may hold before
// further updates to it are dropped.
const Buffer = 16

// Hub holds the set of observers. Each observer gets an init message with
// the current state on subscription, then an update per Publish.
type Hub struct {
	snapshot func() *models.State

	mu        sync.Mutex
	observers map[string]chan *models.Message
	closed    bool
}

// New creates a hub. snapshot builds the state sent as the init message.
func New(snapshot func() *models.State) *Hub {
	return &Hub{
		snapshot:  snapshot,
		observers: make(map[string]chan *models.Message),
	}
}

// Subscribe registers an observer and returns its id and message channel.
// The init message is already queued when Subscribe returns, so it is
// always received before any update.
func (h *Hub) Subscribe() (string, <-chan *models.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.New().String()
	ch := make(chan *models.Message, Buffer)
	if h.closed {
		close(ch)
		return id, ch
	}

	ch <- &models.Message{Kind: models.MessageInit, State: h.snapshot()}
	h.observers[id] = ch
	return id, ch
}

// Unsubscribe removes an observer and closes its channel.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.observers[id]; ok {
		close(ch)
		delete(h.observers, id)
	}
}

// Publish sends an update to every observer and returns how many accepted it.
// Observers with full buffers miss this update; the next one carries the
// complete state again.
func (h *Hub) Publish(state *models.State) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	msg := &models.Message{Kind: models.MessageUpdate, State: state}
	sent := 0
	for id, ch := range h.observers {
		select {
		case ch <- msg:
			sent++
		default:
			log.Printf("[hub] observer %s is behind, dropping update", id)
		}
	}
	return sent
}

// Len returns the number of observers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.observers)
}

// Close disconnects every observer. Later subscriptions get a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.observers {
		close(ch)
		delete(h.observers, id)
	}
	h.closed = true
}
