package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/VarunSharma3520/Reply/internal/config"
)

var (
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(config.MainColorForeground))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(config.MainColorBackgroundMute))
	promptStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("170"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(config.ErrorColor))
)
