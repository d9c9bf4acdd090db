package ui

import (
	"github.com/VarunSharma3520/Reply/internal/config"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// NewTextInput creates the message field. It starts focused.
func NewTextInput() textinput.Model {
	ti := textinput.New()

	ti.Placeholder = "Message..."
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(config.MainColorForeground))

	return ti
}
