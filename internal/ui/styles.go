// Package ui provides the terminal user interface components for the Reply application.
// This file contains style definitions for various UI elements using the lipgloss library.
package ui

import (
	"github.com/VarunSharma3520/Reply/internal/config"
	"github.com/charmbracelet/lipgloss"
)

// Global style definitions for consistent theming across the application.
var (
	// titleStyle defines the styling for the application title/header.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(config.MainColorBackground)).
			Background(lipgloss.Color(config.MainColorForeground)).
			PaddingRight(4).
			PaddingLeft(4).
			AlignVertical(lipgloss.Center)

	// helpStyle defines the styling for help/instruction text.
	helpStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color(config.MainColorBackgroundMute))

	// styleBadge renders the selected tone next to the input.
	styleBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color(config.MainColorForeground)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(config.MainColorBackgroundMute)).
			Padding(0, 1)

	// responseStyle frames the streamed reply.
	responseStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(config.MainColorForeground)).
			Padding(0, 1)

	// errorStyle is used for the error line under the main view
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(config.ErrorColor))

	// statusStyle defines the styling for status messages
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Italic(true)
)
