package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/okatsu/loom/internal/domain"
)

// Colors defines the color palette for terminal output.
var Colors = struct {
	Muted   lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color

	Open       lipgloss.Color
	InProgress lipgloss.Color
	Closed     lipgloss.Color
	Failed     lipgloss.Color
}{
	Muted:   lipgloss.Color("#636E72"), // Gray
	Error:   lipgloss.Color("#D63031"), // Red
	Success: lipgloss.Color("#00B894"), // Green
	Warning: lipgloss.Color("#FDCB6E"), // Yellow

	Open:       lipgloss.Color("#74B9FF"), // Light blue
	InProgress: lipgloss.Color("#FDCB6E"), // Yellow
	Closed:     lipgloss.Color("#00B894"), // Green
	Failed:     lipgloss.Color("#D63031"), // Red
}

var statusStyles = map[domain.Status]lipgloss.Style{
	domain.StatusOpen:       lipgloss.NewStyle().Foreground(Colors.Open),
	domain.StatusInProgress: lipgloss.NewStyle().Foreground(Colors.InProgress),
	domain.StatusClosed:     lipgloss.NewStyle().Foreground(Colors.Closed),
	domain.StatusFailed:     lipgloss.NewStyle().Foreground(Colors.Failed),
}

var (
	warningStyle = lipgloss.NewStyle().Foreground(Colors.Warning)
	mutedStyle   = lipgloss.NewStyle().Foreground(Colors.Muted)
	successStyle = lipgloss.NewStyle().Foreground(Colors.Success)
	errorStyle   = lipgloss.NewStyle().Foreground(Colors.Error)
)

// renderStatus returns the status name colored for terminal output.
func renderStatus(status domain.Status) string {
	style, ok := statusStyles[status]
	if !ok {
		return string(status)
	}
	return style.Render(string(status))
}
