// Package ui provides the terminal user interface components for the Reply application.
// This file handles the update loop and message handling for the Bubble Tea TUI.
package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/VarunSharma3520/Reply/internal/clipboard"
	"github.com/VarunSharma3520/Reply/internal/history"
	"github.com/VarunSharma3520/Reply/internal/reply"
	"github.com/VarunSharma3520/Reply/internal/types"
)

const statusDuration = 3 * time.Second

// Init starts the cursor blink, the availability check and the state subscription.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		checkAvailabilityCmd(m.Session),
		waitForState(m.updates),
	)
}

func checkAvailabilityCmd(s *reply.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return types.AvailabilityMsg(s.CheckAvailability(ctx))
	}
}

// waitForState blocks until the session publishes a new state.
func waitForState(ch <-chan reply.State) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return types.SubscriptionClosedMsg{}
		}
		return types.StateMsg(st)
	}
}

// Update handles key presses, focus changes and session updates.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.BlurMsg:
		// Losing focus dismisses the result, like hiding the panel.
		m.Session.Clear()

	case types.StateMsg:
		return m, tea.Batch(m.applyState(reply.State(msg)), waitForState(m.updates))

	case types.SubscriptionClosedMsg:
		m.updates = nil

	case types.AvailabilityMsg:
		m.Logger.Info("availability checked", map[string]interface{}{
			"kind":   msg.Kind.String(),
			"reason": msg.Reason,
		})

	case types.StatusMsg:
		return m, m.setStatus(msg.Message, msg.Duration)

	case types.ClearStatusMsg:
		if msg.ID == m.statusID {
			m.StatusMsg = ""
		}
	}

	return m, nil
}

// applyState stores the new state and saves completed replies once.
func (m *Model) applyState(st reply.State) tea.Cmd {
	m.State = st
	m.Viewport.SetContent(lipgloss.NewStyle().Width(m.Viewport.Width).Render(st.Text))
	m.Viewport.GotoBottom()

	// A fast stream can reach Completed without the Generating state ever
	// being observed, so saves are keyed by generation.
	if st.Status == reply.Completed && st.Text != "" && st.Generation != m.savedGen {
		m.savedGen = st.Generation
		return m.saveCmd(m.LastInput, m.LastStyle.Label(), st.Text)
	}
	return nil
}

func (m *Model) saveCmd(input, styleLabel, text string) tea.Cmd {
	if m.History == nil {
		return nil
	}
	saver := m.History
	log := m.Logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := saver.Save(ctx, input, styleLabel, text); err != nil {
			if errors.Is(err, history.ErrNotIndexed) {
				log.Warn("reply saved without index", map[string]interface{}{"error": err.Error()})
				return types.StatusMsg{Message: "Reply saved (not indexed)", Duration: statusDuration}
			}
			log.Error("failed to save reply", err, nil)
			return types.StatusMsg{Message: "Failed to save reply", Duration: statusDuration}
		}
		return types.StatusMsg{Message: "Reply saved to history", Duration: statusDuration}
	}
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.shutdown()
		return m, tea.Quit

	case key.Matches(msg, keys.Clear):
		if m.State.InFlight || m.showingResponse() || m.State.HasError() {
			m.Session.Clear()
			return m, nil
		}
		m.shutdown()
		return m, tea.Quit
	}

	if m.showingResponse() {
		return m.handleResponseKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Send):
		m.generate()
		return m, nil

	case key.Matches(msg, keys.Style):
		m.Style = m.Style.Next()
		return m, nil

	case key.Matches(msg, keys.Retry):
		// After a failure the reply text is gone, so retry lives on the input view.
		if m.State.Status == reply.Failed && !m.State.InFlight && m.LastInput != "" {
			m.Session.Retry(m.LastInput, m.LastStyle)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.TextInput, cmd = m.TextInput.Update(msg)
	return m, cmd
}

func (m *Model) handleResponseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Retry):
		if !m.State.InFlight && m.LastInput != "" {
			m.Session.Retry(m.LastInput, m.LastStyle)
		}
		return m, nil

	case key.Matches(msg, keys.Copy):
		if m.State.InFlight {
			return m, nil
		}
		text := m.State.Text
		if err := clipboard.Copy(m.Clipboard, text); err != nil {
			m.Logger.Error("copy failed", err, nil)
			return m, m.setStatus(err.Error(), statusDuration)
		}
		m.Session.Clear()
		return m, m.setStatus("Copied to clipboard", statusDuration)
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// generate starts a reply for the current input. Empty input is ignored.
func (m *Model) generate() {
	input := strings.TrimSpace(m.TextInput.Value())
	if input == "" || m.State.InFlight {
		return
	}
	m.LastInput = input
	m.LastStyle = m.Style
	m.Session.Generate(input, m.Style)
}

func (m *Model) resize(width, height int) {
	w := width - 4
	if w < 20 {
		w = 20
	}
	h := height - 10
	if h < 3 {
		h = 3
	}
	m.width = w
	m.TextInput.Width = w - 4
	m.Viewport.Width = w - 2
	m.Viewport.Height = h
	m.Help.Width = w
	m.Viewport.SetContent(lipgloss.NewStyle().Width(m.Viewport.Width).Render(m.State.Text))
}

// setStatus shows msg and schedules its removal. A zero duration keeps it.
func (m *Model) setStatus(msg string, d time.Duration) tea.Cmd {
	m.statusID++
	m.StatusMsg = msg
	if d <= 0 {
		return nil
	}
	id := m.statusID
	return tea.Tick(d, func(time.Time) tea.Msg {
		return types.ClearStatusMsg{ID: id}
	})
}

// shutdown stops listening to the session and cancels any in-flight stream.
func (m *Model) shutdown() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.Session.Close()
}
