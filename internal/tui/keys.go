package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
)

// keyMap holds the chat widget key bindings
type keyMap struct {
	Action key.Binding // send the selected file, or stop while processing
	Cancel key.Binding
	Quit   key.Binding
	Browse key.Binding
	Clear  key.Binding
	Copy   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Action: key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Send")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Quit")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("Ctrl+C", "Quit")),
		Browse: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("Ctrl+O", "Browse")),
		Clear:  key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("Ctrl+X", "Clear")),
		Copy:   key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("Ctrl+Y", "Copy")),
	}
}

// shortcuts returns the bindings shown in the status bar for the current state
func (k keyMap) shortcuts(processing bool) []key.Binding {
	if processing {
		action := k.Action
		action.SetHelp("Enter", "Stop")
		cancel := k.Cancel
		cancel.SetHelp("Esc", "Stop")
		return []key.Binding{action, cancel, k.Quit}
	}
	return []key.Binding{k.Action, k.Browse, k.Clear, k.Copy, k.Cancel}
}

// scrollKeyMap limits viewport scrolling to keys the message box does not use
func scrollKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		Up:       key.NewBinding(key.WithKeys("up")),
		Down:     key.NewBinding(key.WithKeys("down")),
	}
}
