package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name   string
	Trace  lipgloss.Color
	Scene  lipgloss.Color
	Header lipgloss.Color
	Label  lipgloss.Color
	Value  lipgloss.Color
	Muted  lipgloss.Color
	Border lipgloss.Color
	Alert  lipgloss.Color
}

// Available themes
var (
	ThemePhosphor = Theme{
		Name:   "phosphor",
		Trace:  lipgloss.Color("#00ff00"),
		Scene:  lipgloss.Color("#c0c0c0"),
		Header: lipgloss.Color("#88ff88"),
		Label:  lipgloss.Color("#5f875f"),
		Value:  lipgloss.Color("#d7ffd7"),
		Muted:  lipgloss.Color("#005500"),
		Border: lipgloss.Color("#1c3d1c"),
		Alert:  lipgloss.Color("#ff0000"),
	}

	ThemeAmber = Theme{
		Name:   "amber",
		Trace:  lipgloss.Color("#ffb000"),
		Scene:  lipgloss.Color("#ffd27f"),
		Header: lipgloss.Color("#ffcc00"),
		Label:  lipgloss.Color("#8a6d3b"),
		Value:  lipgloss.Color("#fff0c0"),
		Muted:  lipgloss.Color("#5c4400"),
		Border: lipgloss.Color("#3d2e00"),
		Alert:  lipgloss.Color("#ff4444"),
	}

	ThemeCyberpunk = Theme{
		Name:   "cyberpunk",
		Trace:  lipgloss.Color("#00ffff"),
		Scene:  lipgloss.Color("#ff00ff"),
		Header: lipgloss.Color("#ffff00"),
		Label:  lipgloss.Color("#888899"),
		Value:  lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666666"),
		Border: lipgloss.Color("#444466"),
		Alert:  lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Trace:  lipgloss.Color("#ffffff"),
		Scene:  lipgloss.Color("#cccccc"),
		Header: lipgloss.Color("#ffffff"),
		Label:  lipgloss.Color("#888888"),
		Value:  lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#555555"),
		Border: lipgloss.Color("#333333"),
		Alert:  lipgloss.Color("#ff0000"),
	}

	// Default theme
	DefaultTheme = ThemePhosphor

	// All available themes
	Themes = []Theme{
		ThemePhosphor,
		ThemeAmber,
		ThemeCyberpunk,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return DefaultTheme
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return DefaultTheme
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
