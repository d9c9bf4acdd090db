// Package types holds the Bubble Tea messages shared by the shell.
package types

import (
	"time"

	"github.com/VarunSharma3520/Reply/internal/llm"
	"github.com/VarunSharma3520/Reply/internal/reply"
)

// ScreenMode is the view the shell is showing.
type ScreenMode string

const (
	ModeInput    ScreenMode = "input"
	ModeResponse ScreenMode = "response"
)

// StateMsg carries a new session state from the subscription.
type StateMsg reply.State

// SubscriptionClosedMsg is sent when the session stops publishing.
type SubscriptionClosedMsg struct{}

// AvailabilityMsg carries the result of the startup availability check.
type AvailabilityMsg llm.Availability

// StatusMsg represents a status message to be displayed in the UI
type StatusMsg struct {
	Message  string
	Duration time.Duration
}

// ClearStatusMsg removes the status line if it still shows the message with this id.
type ClearStatusMsg struct{ ID int }
