package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/TobiSchelling/trendboard/internal/treemap"
)

// Colors used throughout the TUI.
var (
	ColorCyan    = lipgloss.Color("#00FFFF")
	ColorGray    = lipgloss.Color("#666666")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#FFFFFF")
	ColorYellow  = lipgloss.Color("#FFFF00")
	ColorRed     = lipgloss.Color("#d90000")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Padding(0, 1)

	TabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorDimGray).
			Padding(0, 1)

	CrumbStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDimGray).
			Padding(0, 1)
)

// sentimentStyle colors text with the treemap's sentiment scale.
func sentimentStyle(score float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(treemap.Color(score)))
}
