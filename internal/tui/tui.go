// Package tui implements the live activity view behind "agentroom watch".
package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// programRef is a shared reference to the tea.Program for goroutine sends.
// It's set after tea.NewProgram but before p.Run().
type programRef struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *programRef) Set(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = p
}

func (r *programRef) Send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Clear nils out the program reference, preventing post-exit sends.
func (r *programRef) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = nil
}

// Options configures the live view.
type Options struct {
	// ShowAll includes inactive sessions.
	ShowAll bool
}

// Run launches the TUI and blocks until the user quits.
func Run(opts Options) error {
	ref := &programRef{}
	p := tea.NewProgram(NewModel(opts, ref), tea.WithAltScreen())
	ref.Set(p)
	defer ref.Clear()

	_, err := p.Run()
	return err
}
