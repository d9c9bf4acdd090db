// Package clipboard copies replies to the system clipboard.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Writer puts text on a clipboard.
type Writer interface {
	WriteAll(text string) error
}

// System is the OS clipboard.
type System struct{}

// WriteAll copies text to the OS clipboard.
func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not supported on this system")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}

// Memory is an in-process clipboard, used when no OS clipboard is available.
type Memory struct {
	Text string
}

// WriteAll stores text.
func (m *Memory) WriteAll(text string) error {
	m.Text = text
	return nil
}

// Copy writes text through w. Empty text is ignored.
func Copy(w Writer, text string) error {
	if text == "" {
		return nil
	}
	return w.WriteAll(text)
}
