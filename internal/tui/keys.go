package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the password prompt.
type KeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// HelpText returns a formatted help string.
func (k KeyMap) HelpText() string {
	return k.Submit.Help().Key + " " + k.Submit.Help().Desc + " • " +
		k.Cancel.Help().Key + " " + k.Cancel.Help().Desc
}
