// Package tui renders a terminal progress dashboard for indexing runs.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette, carried from the cyberpunk theme used elsewhere in this
// code's ancestry.
var (
	ColorCyan    = lipgloss.Color("#00FFFF")
	ColorMagenta = lipgloss.Color("#FF00FF")
	ColorGreen   = lipgloss.Color("#00FF00")
	ColorYellow  = lipgloss.Color("#FFFF00")
	ColorDimText = lipgloss.Color("#666666")
	ColorHeaderBg = lipgloss.Color("#16213E")
	ColorBrightText = lipgloss.Color("#FFFFFF")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan).
			Background(ColorHeaderBg).
			Padding(0, 1).
			MarginBottom(1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorMagenta).
			Background(ColorHeaderBg).
			Padding(0, 2)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorCyan).
			Padding(1, 2)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorDimText).
			Width(18)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorBrightText).
			Bold(true)

	RunningStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	DoneStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	ProgressFullStyle = lipgloss.NewStyle().Foreground(ColorCyan)

	ProgressEmptyStyle = lipgloss.NewStyle().Foreground(ColorDimText)

	HelpStyle = lipgloss.NewStyle().Foreground(ColorDimText)

	SpinnerChars = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
)

// RenderLabelValue formats a label/value pair with consistent alignment.
func RenderLabelValue(label, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value) + "\n"
}
