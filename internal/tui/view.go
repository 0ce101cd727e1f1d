package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/transcribechat/internal/models"
	"github.com/diogo/transcribechat/internal/render"
)

// View renders the widget
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	if m.picking {
		return m.picker.View()
	}

	var sections []string
	contentWidth := m.width - 4

	// Header
	headerContent := lipgloss.JoinHorizontal(
		lipgloss.Center,
		titleStyle.Render("✦ Transcribe Chat"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.serverURL()),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	// Messages
	var messagesContent string
	if len(m.messages) == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	messagesPanel := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent)
	sections = append(sections, messagesPanel)

	// Input
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(m.renderInput()))

	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.notice != "" {
		sections = append(sections, noticeStyle.Render(m.notice))
	}
	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) serverURL() string {
	if m.client == nil {
		return ""
	}
	return m.client.BaseURL()
}

// renderWelcome renders the empty message log
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	icon := welcomeIconStyle.Width(width).Render("♪")
	title := welcomeTitleStyle.Width(width).Render("Transcribe an audio file")
	subtitle := welcomeStyle.Width(width).Render("Type a path or press Ctrl+O to browse, then Enter to send")

	content := lipgloss.JoinVertical(lipgloss.Center, "", icon, "", title, "", subtitle, "")

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

// renderInput renders the message box with the send/stop button
func (m Model) renderInput() string {
	if m.processing {
		button := stopIconStyle.Render("■")
		return lipgloss.JoinHorizontal(lipgloss.Center, button, m.spinner.View(), " ", m.input.View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, sendIconStyle.Render("➤"), m.input.View())
}

// renderStatusBar renders the shortcuts available in the current state
func (m Model) renderStatusBar(width int) string {
	var items []string
	for _, b := range m.keys.shortcuts(m.processing) {
		help := b.Help()
		items = append(items, lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(help.Key),
			statusDescStyle.Render(" "+help.Desc),
		))
	}
	items = append(items, statusKeyStyle.Render("↑↓")+statusDescStyle.Render(" Scroll"))

	bar := strings.Join(items, "  │  ")
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// bubbleWidth is the widest a chat bubble may grow
func (m Model) bubbleWidth() int {
	w := m.viewport.Width * 3 / 4
	if w < 20 {
		w = 20
	}
	return w
}

// refresh re-renders the message log into the viewport and scrolls to the
// newest bubble
func (m *Model) refresh() {
	if !m.ready {
		return
	}

	var content strings.Builder
	bubbleWidth := m.bubbleWidth()
	var prev models.Kind

	for i := range m.messages {
		msg := &m.messages[i]
		if i > 0 {
			content.WriteString("\n")
		}

		// Label only when the sender changes
		if msg.kind != prev {
			content.WriteString(m.renderLabel(msg.kind))
			content.WriteString("\n")
			prev = msg.kind
		}

		content.WriteString(m.renderBubble(msg, bubbleWidth))
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
	m.viewport.GotoBottom()
}

func (m Model) renderLabel(kind models.Kind) string {
	if kind == models.KindUser {
		label := userLabelStyle.Render("⬤ " + m.str.UserLabel)
		return lipgloss.PlaceHorizontal(m.viewport.Width, lipgloss.Right, label)
	}
	return botLabelStyle.Render("♪ " + m.str.BotLabel)
}

func (m Model) renderBubble(msg *chatMessage, width int) string {
	body := m.bubbleBody(msg, width-4)

	if msg.kind == models.KindUser {
		bubble := userBubbleStyle.MaxWidth(width).Render(body)
		return lipgloss.PlaceHorizontal(m.viewport.Width, lipgloss.Right, bubble)
	}
	return botBubbleStyle.MaxWidth(width).Render(body)
}

// bubbleBody returns the text inside a bubble. Finished transcript sentences
// go through glamour once and are cached per width.
func (m Model) bubbleBody(msg *chatMessage, width int) string {
	switch {
	case msg.loader:
		bar := m.bar
		bar.Width = max(10, width-6)
		return bar.ViewAs(float64(msg.percent)/100) + percentStyle.Render(fmt.Sprintf(" %d%%", msg.percent))

	case msg.markdown && !msg.animating:
		if msg.rendered == "" || msg.renderedWidth != width {
			msg.rendered = render.Bubble(msg.text, m.opts.Render.WithWidth(width))
			msg.renderedWidth = width
		}
		return msg.rendered

	case msg.animating:
		return lipgloss.NewStyle().Width(width).Render(msg.text + "▌")
	}

	return lipgloss.NewStyle().MaxWidth(width).Render(msg.text)
}
