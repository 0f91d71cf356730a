package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	StatusDone = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ccff"))

	MetricValue = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ccff"))

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	seriesStyles = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#00ccff")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#ff00ff")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#8888ff")),
	}
)

// SeriesStyle returns the color style for the i-th species trace.
func SeriesStyle(i int) lipgloss.Style {
	return seriesStyles[i%len(seriesStyles)]
}

// ProgressBar renders a fixed-width bar for a 0..1 fraction.
func ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return StatusRunning.Render(bar)
}
