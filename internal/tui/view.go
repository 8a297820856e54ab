package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/agentroom/agentroom/internal/models"
)

const (
	minWidth  = 60
	minHeight = 10
)

// View renders the whole screen.
func (m Model) View() string {
	if m.width < minWidth || m.height < minHeight {
		sizeStr := fmt.Sprintf("%dx%d", m.width, m.height)
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(colorYellow).
			Render(lipgloss.JoinVertical(lipgloss.Center,
				"Terminal too small",
				dimStyle.Render(fmt.Sprintf("Need %dx%d, have ", minWidth, minHeight)+
					lipgloss.NewStyle().Bold(true).Render(sizeStr)),
			))
	}

	if m.state == nil {
		text := "Connecting to daemon..."
		if m.err != nil {
			text = errorStyle.Render(m.err.Error()) + "\n" + dimStyle.Render("retrying...")
		}
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(colorDim).
			Render(text)
	}

	bodyHeight := m.height - 2
	var body string
	if m.detail {
		body = detailBorderStyle.Width(m.width - 2).Render(m.viewport.View())
	} else {
		body = m.renderList(bodyHeight)
	}
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderStatusBar(),
	)
}

func (m Model) renderHeader() string {
	left := headerStyle.Render(" agentroom")
	counts := fmt.Sprintf("%d active / %d sessions", m.state.ActiveCount(), m.state.SessionCount())
	if !m.showAll {
		counts += dimStyle.Render(" (inactive hidden)")
	}
	right := counts + " "
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderList draws the session rows grouped under project headings and
// scrolls so that the cursor stays visible.
func (m Model) renderList(height int) string {
	if len(m.rows) == 0 {
		msg := "No active sessions"
		if m.showAll {
			msg = "No sessions found"
		}
		return dimStyle.Render("  " + msg)
	}

	var lines []string
	cursorLine := 0
	lastProject := ""
	now := m.now()
	for i, r := range m.rows {
		if i == 0 || r.project != lastProject {
			lines = append(lines, projectHeaderStyle.Render(" "+r.project))
			lastProject = r.project
		}
		if i == m.cursor {
			cursorLine = len(lines)
		}
		lines = append(lines, m.renderRow(r.session, i == m.cursor, now))
	}

	start := 0
	if cursorLine >= height {
		start = cursorLine - height + 1
	}
	end := min(start+height, len(lines))
	return strings.Join(lines[start:end], "\n")
}

func (m Model) renderRow(s *models.Session, selected bool, now time.Time) string {
	marker := dimStyle.Render("○")
	if s.Active {
		marker = activeStyle.Render(spinnerFrames[m.spinnerFrame%len(spinnerFrames)])
	}

	tool := s.Tool()
	if tool == "" {
		tool = "-"
	}
	id := s.ID
	if len(id) > 12 {
		id = id[:12]
	}

	text := fmt.Sprintf("   %s %-12s %-12s %s %-18s %s",
		marker,
		ansi.Truncate(s.AgentID, 12, "…"),
		id,
		zoneStyle(s.CurrentZone).Render(fmt.Sprintf("%-10s", s.CurrentZone)),
		ansi.Truncate(tool, 18, "…"),
		dimStyle.Render(ago(now, s.LastActivity)),
	)
	text = ansi.Truncate(text, m.width, "…")
	if selected {
		return selectedStyle.Width(m.width).Render(text)
	}
	return text
}

func (m Model) renderStatusBar() string {
	if m.err != nil {
		return errorStyle.Width(m.width).Render(" " + m.err.Error())
	}

	bindings := keys.listHints()
	if m.detail {
		bindings = keys.detailHints()
	}
	var hints []string
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, h.Key+" "+dimStyle.Render(h.Desc))
	}
	left := " " + strings.Join(hints, "  ")

	right := connectedStyle.Render("Connected") + " "
	if !m.connected {
		right = warnStyle.Render("⚠ Disconnected") + " "
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderDetail renders one session's fields and recent log for the viewport.
func renderDetail(s *models.Session, width int, now time.Time) string {
	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", dimStyle.Render(fmt.Sprintf("%-12s", label)), value)
	}

	b.WriteString(headerStyle.Render(s.ID) + "\n\n")
	field("Agent", s.AgentID)
	field("Project", s.Project)
	field("Zone", zoneBadge(s.CurrentZone))
	if tool := s.Tool(); tool != "" {
		field("Tool", tool)
	}
	field("Active", fmt.Sprintf("%t", s.Active))
	field("Last active", ago(now, s.LastActivity))
	if len(s.ToolsUsed) > 0 {
		field("Tools used", strings.Join(s.ToolsUsed, ", "))
	}

	if len(s.RecentLogs) > 0 {
		b.WriteString("\n" + headerStyle.Render("Recent activity") + "\n")
		for i := len(s.RecentLogs) - 1; i >= 0; i-- {
			entry := s.RecentLogs[i]
			ts := dimStyle.Render(entry.Time.Local().Format("15:04:05"))
			var line string
			if entry.Kind == models.LogKindTool {
				line = fmt.Sprintf("%s %s %s", ts, zoneBadge(entry.Zone), entry.Tool)
			} else {
				line = fmt.Sprintf("%s %s", ts, strings.Join(strings.Fields(entry.Preview), " "))
			}
			b.WriteString(ansi.Truncate(line, width, "…") + "\n")
		}
	}
	return b.String()
}

func ago(now time.Time, t *time.Time) string {
	if t == nil {
		return "never"
	}
	d := now.Sub(*t).Round(time.Second)
	switch {
	case d < time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}

