package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"google.golang.org/grpc"

	"github.com/agentroom/agentroom/internal/daemon/project"
	"github.com/agentroom/agentroom/internal/models"
)

// Spinner frames for active session markers.
var spinnerFrames = []string{"●", "○"}

// row is one selectable line of the session list.
type row struct {
	project string
	session *models.Session
}

// Model is the root Bubbletea model for the live view.
type Model struct {
	// gRPC connection
	conn      *grpc.ClientConn
	connected bool

	// Latest pushed state and the rows derived from it
	state  *models.State
	rows   []row
	cursor int

	// UI state
	showAll  bool
	detail   bool
	viewport viewport.Model
	width    int
	height   int
	err      error

	spinnerFrame   int
	spinnerRunning bool

	// Program reference for goroutine Send()
	program *programRef

	streamCtx    context.Context
	streamCancel context.CancelFunc

	now func() time.Time
}

// NewModel creates the initial model.
func NewModel(opts Options, program *programRef) Model {
	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		showAll:      opts.ShowAll,
		viewport:     viewport.New(0, 0),
		program:      program,
		streamCtx:    ctx,
		streamCancel: cancel,
		now:          time.Now,
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return connectDaemonCmd()
}

// Update processes messages and returns an updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateDimensions()
		return m, nil

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, cmd

	case DaemonConnectedMsg:
		m.conn = msg.Conn
		m.connected = true
		m.err = nil
		m.streamCtx, m.streamCancel = context.WithCancel(context.Background())
		return m, subscribeCmd(m.streamCtx, m.conn, m.program)

	case DaemonDisconnectedMsg:
		m.disconnect()
		return m, reconnectTick()

	case StreamEndedMsg:
		m.disconnect()
		if msg.Err != nil {
			m.err = msg.Err
		}
		return m, reconnectTick()

	case ReconnectMsg:
		if !m.connected {
			cmds = append(cmds, connectDaemonCmd())
		}
		return m, tea.Batch(cmds...)

	case PushMsg:
		if msg.Message == nil || msg.Message.State == nil {
			return m, nil
		}
		m.setState(msg.Message.State)
		if !m.spinnerRunning && m.state.ActiveCount() > 0 {
			m.spinnerRunning = true
			cmds = append(cmds, spinnerTick())
		}
		return m, tea.Batch(cmds...)

	case spinnerTickMsg:
		if m.state != nil && m.state.ActiveCount() > 0 {
			m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerFrames)
			cmds = append(cmds, spinnerTick())
		} else {
			m.spinnerRunning = false
		}
		return m, tea.Batch(cmds...)

	case ErrorMsg:
		m.err = msg.Err
		if !m.connected {
			// Keep retrying while the daemon is unreachable.
			return m, reconnectTick()
		}
		return m, clearErrorAfter(5 * time.Second)

	case ClearErrorMsg:
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, keys.Quit) {
		return m.doQuit()
	}

	if m.detail {
		switch {
		case key.Matches(msg, keys.Back), key.Matches(msg, keys.Detail):
			m.detail = false
			return nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Detail):
		if sel := m.selected(); sel != nil {
			m.detail = true
			m.viewport.SetContent(renderDetail(sel, m.viewport.Width, m.now()))
			m.viewport.GotoTop()
		}
	case key.Matches(msg, keys.ShowAll):
		m.showAll = !m.showAll
		m.rebuildRows()
	case key.Matches(msg, keys.Refresh):
		if m.connected {
			return refreshCmd(m.conn)
		}
	}
	return nil
}

// setState replaces the displayed state and keeps the cursor on the same
// session when it is still listed.
func (m *Model) setState(state *models.State) {
	var selectedID string
	if sel := m.selected(); sel != nil {
		selectedID = sel.ID
	}
	m.state = state
	m.rebuildRows()
	for i, r := range m.rows {
		if r.session.ID == selectedID {
			m.cursor = i
			break
		}
	}
	if m.detail {
		if sel := m.selected(); sel != nil && sel.ID == selectedID {
			m.viewport.SetContent(renderDetail(sel, m.viewport.Width, m.now()))
		} else {
			m.detail = false
		}
	}
}

func (m *Model) rebuildRows() {
	m.rows = nil
	if m.state != nil {
		for _, name := range project.Names(m.state) {
			for _, s := range m.state.Projects[name].Agents {
				if m.showAll || s.Active {
					m.rows = append(m.rows, row{project: name, session: s})
				}
			}
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() *models.Session {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].session
}

func (m *Model) updateDimensions() {
	// header and status bar take one line each, the detail border two more
	m.viewport.Width = max(m.width-4, 0)
	m.viewport.Height = max(m.height-4, 0)
	if m.detail {
		if sel := m.selected(); sel != nil {
			m.viewport.SetContent(renderDetail(sel, m.viewport.Width, m.now()))
		}
	}
}

func (m *Model) disconnect() {
	m.streamCancel()
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.connected = false
}

// doQuit performs clean shutdown: cancel streams, clear program ref, close connection, quit.
func (m *Model) doQuit() tea.Cmd {
	m.disconnect()
	m.program.Clear()
	return tea.Quit
}
