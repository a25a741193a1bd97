package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#8BC34A")
	colorMuted  = lipgloss.Color("#6b7689")
	colorBorder = lipgloss.Color("#2a3850")
	colorCard   = lipgloss.Color("#5c3d8f")
	colorDrag   = lipgloss.Color("#FFC107")
	colorError  = lipgloss.Color("#e53935")
)

// Styles holds the lipgloss styles of the board.
type Styles struct {
	Title      lipgloss.Style
	Tab        lipgloss.Style
	ActiveTab  lipgloss.Style
	Status     lipgloss.Style
	Error      lipgloss.Style
	Label      lipgloss.Style
	CardBack   lipgloss.Style
	Dragging   lipgloss.Style
	Zone       lipgloss.Style
	ArmedZone  lipgloss.Style
	ZoneTitle  lipgloss.Style
	Placed     lipgloss.Style
	Reversed   lipgloss.Style
	Muted      lipgloss.Style
	DetailPane lipgloss.Style
}

func DefaultStyles() Styles {
	zone := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Width(zoneWidth - 2).
		Height(zoneHeight - 2)

	return Styles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Tab:        lipgloss.NewStyle().Foreground(colorMuted),
		ActiveTab:  lipgloss.NewStyle().Bold(true).Underline(true).Foreground(colorAccent),
		Status:     lipgloss.NewStyle().Foreground(colorMuted),
		Error:      lipgloss.NewStyle().Foreground(colorError),
		Label:      lipgloss.NewStyle().Bold(true),
		CardBack:   lipgloss.NewStyle().Foreground(colorCard),
		Dragging:   lipgloss.NewStyle().Foreground(colorDrag).Bold(true),
		Zone:       zone,
		ArmedZone:  zone.BorderForeground(colorDrag),
		ZoneTitle:  lipgloss.NewStyle().Bold(true),
		Placed:     lipgloss.NewStyle(),
		Reversed:   lipgloss.NewStyle().Italic(true),
		Muted:      lipgloss.NewStyle().Foreground(colorMuted),
		DetailPane: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(0, 1),
	}
}
