package render

import (
	"github.com/charmbracelet/lipgloss"
)

// TUITheme is the color scheme of the chat widget
type TUITheme struct {
	Name        string
	Description string

	// Base colors
	Border lipgloss.Color

	// Bubble colors
	UserBubble lipgloss.Color // border of bubbles posted by the user
	BotBubble  lipgloss.Color // border of bubbles posted by the server side
	Loader     lipgloss.Color // progress bar fill

	// Accent colors
	Primary lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	// Text colors
	Text    lipgloss.Color
	TextDim lipgloss.Color
}

// Built-in TUI themes
var (
	// TokyoNightTheme is the default dark theme
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night - Dark theme with blue accents",

		Border: lipgloss.Color("#414868"),

		UserBubble: lipgloss.Color("#7aa2f7"),
		BotBubble:  lipgloss.Color("#bb9af7"),
		Loader:     lipgloss.Color("#7dcfff"),

		Primary: lipgloss.Color("#7aa2f7"),
		Success: lipgloss.Color("#9ece6a"),
		Warning: lipgloss.Color("#e0af68"),
		Error:   lipgloss.Color("#f7768e"),

		Text:    lipgloss.Color("#c0caf5"),
		TextDim: lipgloss.Color("#565f89"),
	}

	// CatppuccinMochaTheme is based on Catppuccin Mocha palette
	CatppuccinMochaTheme = TUITheme{
		Name:        "catppuccin",
		Description: "Catppuccin Mocha - Warm dark theme with pastel colors",

		Border: lipgloss.Color("#45475a"),

		UserBubble: lipgloss.Color("#89b4fa"), // Blue
		BotBubble:  lipgloss.Color("#cba6f7"), // Mauve
		Loader:     lipgloss.Color("#94e2d5"), // Teal

		Primary: lipgloss.Color("#89b4fa"),
		Success: lipgloss.Color("#a6e3a1"),
		Warning: lipgloss.Color("#f9e2af"),
		Error:   lipgloss.Color("#f38ba8"),

		Text:    lipgloss.Color("#cdd6f4"),
		TextDim: lipgloss.Color("#6c7086"),
	}

	// NordTheme is based on the Nord color palette
	NordTheme = TUITheme{
		Name:        "nord",
		Description: "Nord - Arctic-inspired theme with cool tones",

		Border: lipgloss.Color("#4c566a"),

		UserBubble: lipgloss.Color("#88c0d0"),
		BotBubble:  lipgloss.Color("#b48ead"),
		Loader:     lipgloss.Color("#8fbcbb"),

		Primary: lipgloss.Color("#88c0d0"),
		Success: lipgloss.Color("#a3be8c"),
		Warning: lipgloss.Color("#ebcb8b"),
		Error:   lipgloss.Color("#bf616a"),

		Text:    lipgloss.Color("#eceff4"),
		TextDim: lipgloss.Color("#7b88a1"),
	}
)

// DefaultTUITheme is used when the configured theme is unknown
var DefaultTUITheme = TokyoNightTheme

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, theme := range AvailableTUIThemes() {
		if theme.Name == name {
			return theme, true
		}
	}
	return TUITheme{}, false
}

// ResolveTUITheme returns the named theme or the default one
func ResolveTUITheme(name string) TUITheme {
	if theme, ok := GetTUIThemeByName(name); ok {
		return theme
	}
	return DefaultTUITheme
}

// AvailableTUIThemes returns a list of all available TUI themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{
		TokyoNightTheme,
		CatppuccinMochaTheme,
		NordTheme,
	}
}

// TUIThemeNames returns just the theme names for selection
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
