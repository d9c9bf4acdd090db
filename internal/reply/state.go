package reply

// Status is the lifecycle stage of the current generation.
type Status int

const (
	Idle Status = iota
	Generating
	Completed
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Generating:
		return "generating"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of the session.
type State struct {
	Status Status
	// Text is the reply so far. Empty unless Generating or Completed.
	Text string
	// Err is the user-facing error message, empty when there is none.
	Err string
	// InFlight is true while a stream is being consumed.
	InFlight       bool
	ModelAvailable bool
	// Generation numbers the Generate call that produced Status and Text.
	// It is zero until the first generation starts.
	Generation uint64
}

// HasError reports whether an error message is set.
func (s State) HasError() bool { return s.Err != "" }
