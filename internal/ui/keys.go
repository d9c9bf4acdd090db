package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the shell's bindings.
type keyMap struct {
	Send  key.Binding
	Style key.Binding
	Retry key.Binding
	Copy  key.Binding
	Clear key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Send: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "reply"),
	),
	Style: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "switch style"),
	),
	Retry: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("Ctrl+r", "retry"),
	),
	Copy: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("Ctrl+y", "copy"),
	),
	Clear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "clear"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+w", "ctrl+c"),
		key.WithHelp("Ctrl+w", "quit"),
	),
}

// inputKeys are shown while composing a message. Retry is offered after a
// failed generation.
func (k keyMap) inputKeys(failed bool) []key.Binding {
	if failed {
		return []key.Binding{k.Send, k.Retry, k.Style, k.Quit}
	}
	return []key.Binding{k.Send, k.Style, k.Quit}
}

// responseKeys are shown while a reply is on screen.
func (k keyMap) responseKeys(inFlight bool) []key.Binding {
	if inFlight {
		return []key.Binding{k.Clear, k.Quit}
	}
	return []key.Binding{k.Copy, k.Retry, k.Clear, k.Quit}
}

// bindingHelp adapts a binding slice to help.KeyMap.
type bindingHelp []key.Binding

func (b bindingHelp) ShortHelp() []key.Binding  { return b }
func (b bindingHelp) FullHelp() [][]key.Binding { return [][]key.Binding{b} }
