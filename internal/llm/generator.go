// Package llm talks to the text generation backend. It exposes a small
// Generator interface that yields cumulative snapshots of the reply and an
// Ollama implementation built on parakeet.
package llm

import (
	"context"
	"errors"
)

// ErrStreamCanceled is returned when a stream stops because its context ended.
var ErrStreamCanceled = errors.New("stream canceled")

// AvailabilityKind enumerates why the backend can or cannot be used.
type AvailabilityKind int

const (
	Available AvailabilityKind = iota
	UnsupportedDevice
	FeatureDisabled
	ModelNotReady
	UnknownUnavailable
)

func (k AvailabilityKind) String() string {
	switch k {
	case Available:
		return "available"
	case UnsupportedDevice:
		return "unsupported device"
	case FeatureDisabled:
		return "feature disabled"
	case ModelNotReady:
		return "model not ready"
	default:
		return "unavailable"
	}
}

// Availability is the backend's report on whether generation can run.
// Reason is only meaningful for UnknownUnavailable.
type Availability struct {
	Kind   AvailabilityKind
	Reason string
}

// OK reports whether generation can run.
func (a Availability) OK() bool { return a.Kind == Available }

// Request is a single generation call.
type Request struct {
	SystemInstructions string
	Prompt             string
}

// Snapshot is one step of a streamed reply. Text always holds the whole reply
// generated so far, not the latest delta. A snapshot with Err set is the last
// one on its channel.
type Snapshot struct {
	Text string
	Err  error
}

// Generator is the external text generation capability.
type Generator interface {
	// Availability queries the backend once.
	Availability(ctx context.Context) Availability
	// Stream starts a generation. The returned channel is closed when the
	// reply is complete, after an error snapshot, or when ctx ends.
	Stream(ctx context.Context, req Request) (<-chan Snapshot, error)
}
