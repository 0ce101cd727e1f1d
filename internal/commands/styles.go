package commands

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/transcribechat/internal/render"
)

// Colors of the command output, taken from the configured widget theme
var (
	colorText    lipgloss.Color
	colorTextDim lipgloss.Color
	colorSuccess lipgloss.Color
	colorPrimary lipgloss.Color
	colorLoader  lipgloss.Color
	colorUser    lipgloss.Color
	colorBot     lipgloss.Color
	colorError   lipgloss.Color
)

var (
	userLineStyle lipgloss.Style
	botLineStyle  lipgloss.Style
	botLabelStyle lipgloss.Style
	dimStyle      lipgloss.Style
	successStyle  lipgloss.Style
	errorStyle    lipgloss.Style
	spinnerStyle  lipgloss.Style
)

func init() {
	applyTheme(render.DefaultTUITheme)
}

// applyTheme rebuilds the output styles so send, stop and config print in
// the same colors as the chat widget
func applyTheme(theme render.TUITheme) {
	colorText = theme.Text
	colorTextDim = theme.TextDim
	colorSuccess = theme.Success
	colorPrimary = theme.Primary
	colorLoader = theme.Loader
	colorUser = theme.UserBubble
	colorBot = theme.BotBubble
	colorError = theme.Error

	userLineStyle = lipgloss.NewStyle().Foreground(colorUser)
	botLineStyle = lipgloss.NewStyle().Foreground(colorText)
	botLabelStyle = lipgloss.NewStyle().Foreground(colorBot).Bold(true)
	dimStyle = lipgloss.NewStyle().Foreground(colorTextDim)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	errorStyle = lipgloss.NewStyle().Foreground(colorError)
	spinnerStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
}
