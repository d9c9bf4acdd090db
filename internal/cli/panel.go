package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/VarunSharma3520/Reply/internal/clipboard"
	"github.com/VarunSharma3520/Reply/internal/reply"
	"github.com/VarunSharma3520/Reply/internal/ui"
)

// runPanel starts the interactive shell.
func runPanel(ctx context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	// the panel runs its own availability check on start
	session := reply.New(a.gen, a.log)
	defer session.Close()

	var clip clipboard.Writer = clipboard.System{}
	model := ui.InitialModel(ui.Options{
		Session:   session,
		Clipboard: clip,
		History:   a.history,
		Logger:    a.log,
		Style:     a.cfg.DefaultStyle(),
	})

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithOutput(os.Stdout),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		a.log.Error("panel exited with error", err, nil)
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}
