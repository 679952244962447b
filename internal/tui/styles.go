package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/user/sentineldash/internal/dashboard"
)

var (
	// Colors
	Primary   = lipgloss.Color("#38bdf8")
	Secondary = lipgloss.Color(dashboard.ThemeText)
	Subtle    = lipgloss.Color(dashboard.ThemeMuted)
	Title     = lipgloss.Color(dashboard.ThemeTitle)
	Success   = lipgloss.Color("#22c55e")
	Warning   = lipgloss.Color("#facc15")
	Error     = lipgloss.Color("#f87171")

	// Header styles
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Title).
			Background(lipgloss.Color("#0a122c")).
			Padding(0, 2).
			Align(lipgloss.Center)

	// Section styles
	SectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Subtle).
			Padding(0, 1)

	SectionTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(Primary)

	// Label and value styles
	LabelStyle = lipgloss.NewStyle().
			Foreground(Subtle)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// Status styles
	StatusStyle = lipgloss.NewStyle().
			Foreground(Success)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	// Dim style
	DimStyle = lipgloss.NewStyle().
			Foreground(Subtle).
			Italic(true)

	// Tab styles
	TabStyle = lipgloss.NewStyle().
			Foreground(Subtle).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(Title).
			Background(lipgloss.Color("#0e2a47")).
			Bold(true).
			Padding(0, 1)

	// Help style
	HelpStyle = lipgloss.NewStyle().
			MarginTop(1)
)

// RenderStatus returns the styled status line.
func RenderStatus(message string, isError bool) string {
	if message == "" {
		return ""
	}
	if isError {
		return ErrorStyle.Render("✗ " + message)
	}
	return StatusStyle.Render("✓ " + message)
}

// RenderBar renders a horizontal bar of width cells, filled in proportion
// to value/max.
func RenderBar(value, max float64, width int, color lipgloss.Color) string {
	if max <= 0 {
		max = 1
	}
	if width < 1 {
		width = 1
	}

	filled := int(value / max * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(color).Render(bar)
}

// themeColor turns a chart color into a terminal color. Only hex colors are
// supported; anything else falls back to the base text color.
func themeColor(c string) lipgloss.Color {
	if strings.HasPrefix(c, "#") {
		return lipgloss.Color(c)
	}
	return Secondary
}
