package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agentroom/agentroom/internal/models"
)

// Colors using AdaptiveColor for light/dark terminal support.
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

// Layout styles.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(lipgloss.AdaptiveColor{Light: "235", Dark: "236"})

	detailBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// List styles.
var (
	projectHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	selectedStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Background(lipgloss.AdaptiveColor{Light: "254", Dark: "237"})
	dimStyle           = lipgloss.NewStyle().Foreground(colorDim)
	activeStyle        = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	errorStyle         = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	warnStyle          = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	connectedStyle     = lipgloss.NewStyle().Foreground(colorGreen)
)

var zoneStyles = map[models.Zone]lipgloss.Style{
	models.ZoneCoding:   lipgloss.NewStyle().Foreground(colorBlue),
	models.ZoneResearch: lipgloss.NewStyle().Foreground(colorPurple),
	models.ZoneMemory:   lipgloss.NewStyle().Foreground(colorCyan),
	models.ZoneDeploy:   lipgloss.NewStyle().Foreground(colorOrange),
	models.ZoneComms:    lipgloss.NewStyle().Foreground(colorYellow),
	models.ZoneIdle:     dimStyle,
}

func zoneStyle(z models.Zone) lipgloss.Style {
	if style, ok := zoneStyles[z]; ok {
		return style
	}
	return dimStyle
}

func zoneBadge(z models.Zone) string {
	return zoneStyle(z).Render(string(z))
}
