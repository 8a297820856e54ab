package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/agentroom/agentroom/internal/daemon/project"
	"github.com/agentroom/agentroom/internal/models"
)

// outputOptions controls how state is rendered.
type outputOptions struct {
	Color bool
	Width int
	Now   time.Time
	// All includes inactive sessions.
	All bool
}

func defaultOutputOptions(out *os.File) outputOptions {
	return outputOptions{
		Color: useColor(out),
		Width: terminalWidth(out),
		Now:   time.Now(),
	}
}

func useColor(out *os.File) bool {
	if os.Getenv("NO_COLOR") != "" || out == nil {
		return false
	}
	fd := out.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func terminalWidth(out *os.File) int {
	if out != nil {
		if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 0 {
			return w
		}
	}
	if cols := os.Getenv("COLUMNS"); cols != "" {
		if v, err := strconv.Atoi(cols); err == nil && v > 0 {
			return v
		}
	}
	return 100
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeStateTable renders every project's sessions as one table, projects in
// name order.
func writeStateTable(w io.Writer, state *models.State, opts outputOptions) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.DrawBorder = true
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft},
		{Number: 4, Align: text.AlignLeft},
		{Number: 5, Align: text.AlignLeft},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignCenter},
	})
	tw.AppendHeader(table.Row{"Project", "Agent", "Session", "Zone", "Tool", "Last activity", "Active"})

	idWidth := 12
	if opts.Width >= 140 {
		idWidth = 36
	}

	rows := 0
	for _, name := range project.Names(state) {
		for _, s := range state.Projects[name].Agents {
			if !opts.All && !s.Active {
				continue
			}
			tool := s.Tool()
			if tool == "" {
				tool = "-"
			}
			tw.AppendRow(table.Row{
				name,
				s.AgentID,
				truncate(s.ID, idWidth),
				renderZone(s.CurrentZone, opts.Color),
				tool,
				formatAgo(opts.Now, s.LastActivity),
				activeMark(s.Active, opts.Color),
			})
			rows++
		}
	}
	if rows == 0 {
		tw.AppendRow(table.Row{"-", "-", "(no sessions)", "-", "-", "-", "-"})
	}
	tw.Render()
}

// writeSessionDetail renders one session with its recent log.
func writeSessionDetail(w io.Writer, s *models.Session, opts outputOptions) {
	label := func(l string) string { return paint(styleLabel, l, opts.Color) }

	fmt.Fprintf(w, "%s %s\n", paint(styleBrand, "Session", opts.Color), s.ID)
	fmt.Fprintf(w, "  %s  %s\n", label("Agent      "), s.AgentID)
	fmt.Fprintf(w, "  %s  %s\n", label("Project    "), s.Project)
	fmt.Fprintf(w, "  %s  %s\n", label("Zone       "), renderZone(s.CurrentZone, opts.Color))
	if tool := s.Tool(); tool != "" {
		fmt.Fprintf(w, "  %s  %s\n", label("Tool       "), tool)
	}
	fmt.Fprintf(w, "  %s  %s\n", label("Active     "), activeMark(s.Active, opts.Color))
	fmt.Fprintf(w, "  %s  %s\n", label("Started    "), formatTime(s.StartTime))
	fmt.Fprintf(w, "  %s  %s (%s)\n", label("Last active"), formatTime(s.LastActivity), formatAgo(opts.Now, s.LastActivity))
	if len(s.ToolsUsed) > 0 {
		fmt.Fprintf(w, "  %s  %v\n", label("Tools used "), s.ToolsUsed)
	}

	if len(s.RecentLogs) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", paint(styleBrand, "Recent activity", opts.Color))
	previewWidth := opts.Width - 24
	if previewWidth < 20 {
		previewWidth = 20
	}
	for _, entry := range s.RecentLogs {
		ts := entry.Time.Local().Format("15:04:05")
		switch entry.Kind {
		case models.LogKindTool:
			fmt.Fprintf(w, "  %s  %s %s\n", label(ts), renderZone(entry.Zone, opts.Color), entry.Tool)
		default:
			fmt.Fprintf(w, "  %s  %s\n", label(ts), truncate(oneLine(entry.Preview), previewWidth))
		}
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(time.RFC3339)
}

// formatAgo renders the age of t relative to now in a compact form.
func formatAgo(now time.Time, t *time.Time) string {
	if t == nil {
		return "never"
	}
	d := now.Sub(*t)
	switch {
	case d < 0:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func truncate(s string, width int) string {
	return ansi.Truncate(s, width, "…")
}

func oneLine(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			r = ' '
		}
		out = append(out, r)
	}
	return string(out)
}

func paint(style lipgloss.Style, s string, color bool) string {
	if !color {
		return s
	}
	return style.Render(s)
}

func renderZone(z models.Zone, color bool) string {
	style, ok := zoneStyles[z]
	if !ok {
		style = styleLabel
	}
	return paint(style, string(z), color)
}

func activeMark(active bool, color bool) string {
	if active {
		return paint(styleSuccess, "●", color)
	}
	return paint(styleHint, "○", color)
}
