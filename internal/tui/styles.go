// Package tui provides the terminal chat widget for transcribechat.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/transcribechat/internal/errors"
	"github.com/diogo/transcribechat/internal/render"
)

// Color variables (updated from theme)
var (
	colorBorder     lipgloss.Color
	colorUserBubble lipgloss.Color
	colorBotBubble  lipgloss.Color
	colorLoader     lipgloss.Color
	colorPrimary    lipgloss.Color
	colorSuccess    lipgloss.Color
	colorWarning    lipgloss.Color
	colorError      lipgloss.Color
	colorText       lipgloss.Color
	colorTextDim    lipgloss.Color
)

// Style variables (rebuilt when theme changes)
var (
	headerStyle       lipgloss.Style
	titleStyle        lipgloss.Style
	subtitleStyle     lipgloss.Style
	hintStyle         lipgloss.Style
	messagesAreaStyle lipgloss.Style

	userBubbleStyle lipgloss.Style
	userLabelStyle  lipgloss.Style
	botBubbleStyle  lipgloss.Style
	botLabelStyle   lipgloss.Style
	percentStyle    lipgloss.Style

	inputPanelStyle lipgloss.Style
	sendIconStyle   lipgloss.Style
	stopIconStyle   lipgloss.Style
	loadingStyle    lipgloss.Style

	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style
	noticeStyle     lipgloss.Style

	errorStyle lipgloss.Style

	welcomeStyle      lipgloss.Style
	welcomeTitleStyle lipgloss.Style
	welcomeIconStyle  lipgloss.Style

	pickerBoxStyle   lipgloss.Style
	pickerTitleStyle lipgloss.Style
)

func init() {
	ApplyTheme(render.DefaultTUITheme)
}

// ApplyTheme refreshes all styles from theme
func ApplyTheme(theme render.TUITheme) {
	colorBorder = theme.Border
	colorUserBubble = theme.UserBubble
	colorBotBubble = theme.BotBubble
	colorLoader = theme.Loader
	colorPrimary = theme.Primary
	colorSuccess = theme.Success
	colorWarning = theme.Warning
	colorError = theme.Error
	colorText = theme.Text
	colorTextDim = theme.TextDim

	rebuildStyles()
}

// rebuildStyles creates all lipgloss styles with current color values
func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2).
		MarginBottom(1)

	titleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Italic(true)

	messagesAreaStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1)

	// User bubbles sit on the right, bot bubbles on the left
	userBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorUserBubble).
		Foreground(colorText).
		Padding(0, 1).
		MarginLeft(4)

	userLabelStyle = lipgloss.NewStyle().
		Foreground(colorUserBubble).
		Bold(true).
		MarginLeft(4)

	botBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBotBubble).
		Foreground(colorText).
		Padding(0, 1).
		MarginRight(4)

	botLabelStyle = lipgloss.NewStyle().
		Foreground(colorBotBubble).
		Bold(true)

	percentStyle = lipgloss.NewStyle().
		Foreground(colorLoader).
		Bold(true)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		MarginTop(1)

	sendIconStyle = lipgloss.NewStyle().
		Foreground(colorSuccess).
		Bold(true).
		MarginRight(1)

	stopIconStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true).
		MarginRight(1)

	loadingStyle = lipgloss.NewStyle().
		Foreground(colorLoader).
		Bold(true)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		MarginTop(1)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	noticeStyle = lipgloss.NewStyle().
		Foreground(colorSuccess).
		Italic(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)

	welcomeStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Align(lipgloss.Center)

	welcomeTitleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Align(lipgloss.Center)

	welcomeIconStyle = lipgloss.NewStyle().
		Foreground(colorBotBubble).
		Align(lipgloss.Center)

	pickerBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2)

	pickerTitleStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Bold(true).
		MarginBottom(1)
}

// FormatError returns a styled error message with the details carried by
// the typed errors of the client.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	detailStyle := lipgloss.NewStyle().Foreground(colorTextDim).PaddingLeft(2)
	tipStyle := lipgloss.NewStyle().Foreground(colorWarning).PaddingLeft(2)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %v", err)))

	if status := errors.GetHTTPStatus(err); status > 0 {
		sb.WriteString("\n")
		sb.WriteString(detailStyle.Render(fmt.Sprintf("HTTP Status: %d", status)))
	}

	if endpoint := errors.GetEndpoint(err); endpoint != "" {
		sb.WriteString("\n")
		sb.WriteString(detailStyle.Render(fmt.Sprintf("Endpoint: %s", endpoint)))
	}

	if body := strings.TrimSpace(errors.GetResponseBody(err)); body != "" {
		sb.WriteString("\n")
		sb.WriteString(detailStyle.Render(truncate(body, 200)))
	}

	switch {
	case errors.IsBusyError(err):
		sb.WriteString("\n")
		sb.WriteString(tipStyle.Render("Tip: the server is transcribing another file, wait for it to finish"))
	case errors.IsTimeoutError(err):
		sb.WriteString("\n")
		sb.WriteString(tipStyle.Render("Tip: raise request_timeout_seconds for long recordings"))
	case errors.IsNetworkError(err):
		sb.WriteString("\n")
		sb.WriteString(tipStyle.Render("Tip: check that the transcription server is running (see --server)"))
	case errors.IsUploadError(err):
		sb.WriteString("\n")
		sb.WriteString(tipStyle.Render("Tip: check that the file exists and is readable"))
	case errors.IsParseError(err):
		sb.WriteString("\n")
		sb.WriteString(tipStyle.Render("Tip: the server did not answer with the expected JSON"))
	}

	return sb.String()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
