package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles derived from a theme.
type Styles struct {
	Trace  lipgloss.Style
	Scene  lipgloss.Style
	Panel  lipgloss.Style
	Header lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Help   lipgloss.Style
	Alert  lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Trace: lipgloss.NewStyle().
			Foreground(t.Trace).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),
		Scene: lipgloss.NewStyle().
			Foreground(t.Scene).
			Padding(0, 1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Border).
			Padding(0, 2).
			Width(40),
		Header: lipgloss.NewStyle().
			Foreground(t.Header).
			Bold(true).
			MarginBottom(1),
		Label: lipgloss.NewStyle().Foreground(t.Label).Width(14),
		Value: lipgloss.NewStyle().Foreground(t.Value).Bold(true),
		Help:  lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		Alert: lipgloss.NewStyle().Foreground(t.Alert).Bold(true),
	}
}

// Row renders a label/value pair on one line.
func (s Styles) Row(label, value string) string {
	return s.Label.Render(label) + s.Value.Render(value)
}

// Separator draws a muted rule with a center mark.
func (s Styles) Separator(width int) string {
	if width < 8 {
		return s.Help.UnsetMarginTop().Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return s.Help.UnsetMarginTop().UnsetItalic().Render(left + " ◆ " + right)
}

// ProgressBar renders a bar filled to percent of width.
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
