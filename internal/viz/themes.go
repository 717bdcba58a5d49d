package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Muted     lipgloss.Color
}

var (
	ThemeCherenkov = Theme{
		Name:      "cherenkov",
		Primary:   lipgloss.Color("#00ffff"),
		Secondary: lipgloss.Color("#3399ff"),
		Accent:    lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#444466"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"), // Green phosphor
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Muted:     lipgloss.Color("#005500"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Muted:     lipgloss.Color("#888888"),
	}

	ThemeMeltdown = Theme{
		Name:      "meltdown",
		Primary:   lipgloss.Color("#ff6b00"),
		Secondary: lipgloss.Color("#feca57"),
		Accent:    lipgloss.Color("#ff0000"),
		Muted:     lipgloss.Color("#8b6b4c"),
	}

	CurrentTheme = ThemeCherenkov

	Themes = []Theme{
		ThemeCherenkov,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeMeltdown,
	}
)

// GetTheme returns a theme by name, or the default theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCherenkov
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
