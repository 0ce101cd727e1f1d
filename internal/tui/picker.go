package tui

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/transcribechat/internal/audio"
)

// FilePickerModel is the overlay used to choose an audio file
type FilePickerModel struct {
	picker filepicker.Model

	// Result
	selected  string
	confirmed bool
	cancelled bool

	width  int
	height int
}

// NewFilePickerModel creates a picker rooted at dir, listing audio files only.
// An empty dir means the working directory.
func NewFilePickerModel(dir string) FilePickerModel {
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		} else {
			dir = "."
		}
	}

	fp := filepicker.New()
	fp.CurrentDirectory = dir
	fp.AllowedTypes = audio.SupportedExtensions()
	fp.AutoHeight = true
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.Styles.Selected = fp.Styles.Selected.Foreground(colorPrimary)
	fp.Styles.Cursor = fp.Styles.Cursor.Foreground(colorPrimary)
	fp.Styles.Directory = fp.Styles.Directory.Foreground(colorBotBubble)

	return FilePickerModel{picker: fp}
}

// Init reads the starting directory
func (m FilePickerModel) Init() tea.Cmd {
	return m.picker.Init()
}

// Update handles messages and updates the model
func (m FilePickerModel) Update(msg tea.Msg) (FilePickerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// leave room for the box border, padding and title
		msg.Height -= 8
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			m.cancelled = true
			m.confirmed = true
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.selected = path
		m.confirmed = true
	}

	return m, cmd
}

// View renders the picker overlay
func (m FilePickerModel) View() string {
	width := m.width - 8
	if width < 40 {
		width = 40
	}

	title := pickerTitleStyle.Render("Select an audio file")
	dir := hintStyle.Render(filepath.Clean(m.picker.CurrentDirectory))
	hints := statusKeyStyle.Render("↑↓") + statusDescStyle.Render(" Navigate") + "  │  " +
		statusKeyStyle.Render("Enter") + statusDescStyle.Render(" Select") + "  │  " +
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" Cancel")

	content := lipgloss.JoinVertical(lipgloss.Left, title, dir, "", m.picker.View(), "", hints)
	return pickerBoxStyle.Width(width).Render(content)
}

// IsConfirmed returns whether the picker was closed
func (m FilePickerModel) IsConfirmed() bool {
	return m.confirmed
}

// IsCancelled returns whether the picker was closed without a selection
func (m FilePickerModel) IsCancelled() bool {
	return m.cancelled
}

// Selected returns the chosen path
func (m FilePickerModel) Selected() string {
	return m.selected
}
