package ui

import (
	"fmt"
	"strings"

	"github.com/VarunSharma3520/Reply/internal/reply"
	"github.com/VarunSharma3520/Reply/internal/types"
)

// View renders the input or the response view, the error line and the status bar.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Reply"))
	sb.WriteString("\n\n")

	switch m.mode() {
	case types.ModeResponse:
		sb.WriteString(m.renderResponse())
	default:
		sb.WriteString(m.renderInput())
	}

	if m.State.HasError() {
		sb.WriteString("\n")
		sb.WriteString(errorStyle.Render(m.State.Err))
	}

	if m.StatusMsg != "" {
		sb.WriteString("\n")
		sb.WriteString(statusStyle.Render(m.StatusMsg))
	}

	sb.WriteString("\n")
	return sb.String()
}

func (m Model) renderInput() string {
	badge := styleBadge.Render(fmt.Sprintf("%s %s", m.Style.Icon(), m.Style.Label()))
	help := helpStyle.Render(m.Help.View(bindingHelp(keys.inputKeys(m.State.Status == reply.Failed))))
	return fmt.Sprintf("%s\n%s\n\n%s\n", m.TextInput.View(), badge, help)
}

func (m Model) renderResponse() string {
	header := helpStyle.Render(fmt.Sprintf("%s %s reply", m.LastStyle.Icon(), m.LastStyle.Label()))
	if m.State.InFlight {
		header = helpStyle.Render("Generating…")
	}
	body := responseStyle.Width(m.width).Render(m.Viewport.View())
	help := helpStyle.Render(m.Help.View(bindingHelp(keys.responseKeys(m.State.InFlight))))
	return fmt.Sprintf("%s\n%s\n\n%s\n", header, body, help)
}
