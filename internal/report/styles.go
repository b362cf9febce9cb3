package report

import "github.com/charmbracelet/lipgloss"

// DefaultPadding is the horizontal padding inside the summary box.
const DefaultPadding = 2

// Theme holds the styles a report is rendered with.
type Theme struct {
	Box     lipgloss.Style
	Title   lipgloss.Style
	Label   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Dim     lipgloss.Style
}

// NewTheme builds the colored theme on renderer.
func NewTheme(renderer *lipgloss.Renderer) Theme {
	return Theme{
		Box: renderer.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(accentColorCode)).
			Padding(0, DefaultPadding),
		Title: renderer.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(primaryColorCode)),
		Label: renderer.NewStyle().
			Foreground(lipgloss.Color(highlightColorCode)).
			Bold(true),
		Success: renderer.NewStyle().
			Foreground(lipgloss.Color(successColorCode)).
			Bold(true),
		Warning: renderer.NewStyle().
			Foreground(lipgloss.Color(warningColorCode)),
		Error: renderer.NewStyle().
			Foreground(lipgloss.Color(errorColorCode)).
			Bold(true),
		Dim: renderer.NewStyle().
			Foreground(lipgloss.Color(dimColorCode)),
	}
}

// PlainTheme renders text without colors or borders, for pipes and log files.
func PlainTheme(renderer *lipgloss.Renderer) Theme {
	plain := renderer.NewStyle()

	return Theme{
		Box:     plain,
		Title:   plain,
		Label:   plain,
		Success: plain,
		Warning: plain,
		Error:   plain,
		Dim:     plain,
	}
}

// unexported constants.
const (
	accentColorCode    = "62"  // Blue
	dimColorCode       = "240" // Dark gray
	errorColorCode     = "196" // Red
	highlightColorCode = "86"  // Cyan
	primaryColorCode   = "205" // Pink/purple
	successColorCode   = "42"  // Green
	warningColorCode   = "226" // Yellow
)
