// Package ui provides the terminal user interface components for the Reply application.
// This file defines the main application model and its collaborators.
package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/VarunSharma3520/Reply/internal/clipboard"
	"github.com/VarunSharma3520/Reply/internal/history"
	"github.com/VarunSharma3520/Reply/internal/logger"
	"github.com/VarunSharma3520/Reply/internal/reply"
	"github.com/VarunSharma3520/Reply/internal/style"
	"github.com/VarunSharma3520/Reply/internal/types"
)

// Saver persists completed replies. *history.Store satisfies it.
type Saver interface {
	Save(ctx context.Context, input, styleLabel, reply string) (history.Record, error)
}

// Model is the Bubble Tea model for the reply panel. It renders the session
// state and forwards user intents to the session; it never mutates the
// generation state itself.
type Model struct {
	TextInput textinput.Model
	Viewport  viewport.Model
	Help      help.Model

	Session   *reply.Session
	Clipboard clipboard.Writer
	History   Saver
	Logger    *logger.Logger

	Style     style.Style
	LastInput string
	LastStyle style.Style
	State     reply.State

	updates     <-chan reply.State
	unsubscribe func()
	// savedGen is the last generation whose reply went to history.
	savedGen uint64

	StatusMsg string
	statusID  int

	width int
}

// Options configures InitialModel.
type Options struct {
	Session   *reply.Session
	Clipboard clipboard.Writer
	History   Saver
	Logger    *logger.Logger
	Style     style.Style
}

// InitialModel creates the shell model and subscribes it to the session.
//
// Example:
//
//	session := reply.New(generator, log)
//	p := tea.NewProgram(ui.InitialModel(ui.Options{Session: session}))
func InitialModel(opts Options) *Model {
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.System{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	updates, unsubscribe := opts.Session.Subscribe()

	vp := viewport.New(60, 12)

	return &Model{
		TextInput:   NewTextInput(),
		Viewport:    vp,
		Help:        help.New(),
		Session:     opts.Session,
		Clipboard:   opts.Clipboard,
		History:     opts.History,
		Logger:      opts.Logger,
		Style:       opts.Style,
		LastStyle:   opts.Style,
		State:       opts.Session.Snapshot(),
		updates:     updates,
		unsubscribe: unsubscribe,
		width:       60,
	}
}

// mode mirrors the panel: the response view replaces the input view as soon
// as there is reply text.
func (m Model) mode() types.ScreenMode {
	if m.State.Text != "" {
		return types.ModeResponse
	}
	return types.ModeInput
}

func (m Model) showingResponse() bool {
	return m.mode() == types.ModeResponse
}
