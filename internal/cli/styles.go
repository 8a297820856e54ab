package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agentroom/agentroom/internal/models"
)

// Adaptive colors matching the TUI palette.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorOrange = lipgloss.AdaptiveColor{Light: "166", Dark: "208"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
	colorPurple = lipgloss.AdaptiveColor{Light: "91", Dark: "141"}
	colorBlue   = lipgloss.AdaptiveColor{Light: "25", Dark: "75"}
)

// Semantic styles for CLI output.
var (
	styleBrand   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleVersion = lipgloss.NewStyle().Foreground(colorGreen)
	styleLabel   = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	styleHint    = lipgloss.NewStyle().Foreground(colorDim)
)

// Zone badge styles.
var zoneStyles = map[models.Zone]lipgloss.Style{
	models.ZoneCoding:   lipgloss.NewStyle().Foreground(colorBlue),
	models.ZoneResearch: lipgloss.NewStyle().Foreground(colorPurple),
	models.ZoneMemory:   lipgloss.NewStyle().Foreground(colorCyan),
	models.ZoneDeploy:   lipgloss.NewStyle().Foreground(colorOrange),
	models.ZoneComms:    lipgloss.NewStyle().Foreground(colorYellow),
	models.ZoneIdle:     lipgloss.NewStyle().Foreground(colorDim),
}
