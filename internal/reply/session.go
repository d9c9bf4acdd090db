// Package reply owns the generation session: it turns a message and a style
// into a streamed reply and exposes the evolving state to the shell.
package reply

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/VarunSharma3520/Reply/internal/llm"
	"github.com/VarunSharma3520/Reply/internal/logger"
	"github.com/VarunSharma3520/Reply/internal/style"
)

// ErrModelUnavailable is reported when Generate runs before the model is usable.
var ErrModelUnavailable = errors.New("model not available")

const (
	modelUnavailableMsg = "Model not available"
	streamErrPrefix     = "Error generating response: "
)

// Session is the single writer of the generation state. All methods are safe
// for concurrent use; at most one generation is in flight at a time and
// starting a new one cancels the previous stream.
type Session struct {
	gen    llm.Generator
	logger *logger.Logger

	mu     sync.Mutex
	state  State
	seq    uint64
	cancel context.CancelFunc
	subs   map[int]chan State
	nextID int
	closed bool
}

// New creates an idle session backed by gen.
func New(gen llm.Generator, log *logger.Logger) *Session {
	if log == nil {
		log = logger.Nop()
	}
	return &Session{
		gen:    gen,
		logger: log,
		subs:   make(map[int]chan State),
	}
}

// AvailabilityMessage maps an availability report to the text shown to the user.
// It returns "" when the model is available.
func AvailabilityMessage(a llm.Availability) string {
	switch a.Kind {
	case llm.Available:
		return ""
	case llm.UnsupportedDevice:
		return "Device not eligible for on-device generation"
	case llm.FeatureDisabled:
		return "Please enable generation in settings"
	case llm.ModelNotReady:
		return "Model is downloading or not ready"
	default:
		return "Model unavailable: " + a.Reason
	}
}

// CheckAvailability queries the backend once and records the result.
func (s *Session) CheckAvailability(ctx context.Context) llm.Availability {
	a := s.gen.Availability(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return a
	}

	s.state.ModelAvailable = a.OK()
	if msg := AvailabilityMessage(a); msg != "" {
		s.state.Err = msg
		s.logger.Warn("model unavailable", map[string]interface{}{
			"kind":   a.Kind.String(),
			"reason": a.Reason,
		})
	}
	s.publishLocked()
	return a
}

// Ready returns ErrModelUnavailable unless the last availability check passed.
func (s *Session) Ready() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.ModelAvailable {
		return ErrModelUnavailable
	}
	return nil
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe returns a channel that receives the latest state after every
// change, starting with the current one. A slow reader only misses
// intermediate states. The returned function unsubscribes.
func (s *Session) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan State, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	ch <- s.state

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// publishLocked pushes the current state to every subscriber, replacing any
// state they have not read yet. Callers must hold s.mu.
func (s *Session) publishLocked() {
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s.state
	}
}

// Generate starts streaming a reply to input in the given style. It returns
// immediately; the returned channel is closed once this generation has
// finished, failed, been superseded, or was rejected.
func (s *Session) Generate(input string, st style.Style) <-chan struct{} {
	done := make(chan struct{})

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(done)
		return done
	}
	if !s.state.ModelAvailable {
		s.state.Err = modelUnavailableMsg
		s.state.InFlight = false
		s.publishLocked()
		s.mu.Unlock()
		close(done)
		return done
	}

	s.cancelLocked()
	s.seq++
	seq := s.seq
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.state.Status = Generating
	s.state.Generation = seq
	s.state.Text = ""
	s.state.Err = ""
	s.state.InFlight = true
	s.publishLocked()
	s.mu.Unlock()

	s.logger.Info("generation started", map[string]interface{}{
		"seq":   seq,
		"style": st.Label(),
	})

	go func() {
		defer close(done)
		defer cancel()
		s.run(ctx, seq, input, st)
	}()

	return done
}

// Retry regenerates the reply; prior output is discarded.
func (s *Session) Retry(input string, st style.Style) <-chan struct{} {
	return s.Generate(input, st)
}

// Clear cancels any in-flight stream and resets to Idle.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.cancelLocked()
	s.seq++
	s.state.Status = Idle
	s.state.Text = ""
	s.state.Err = ""
	s.state.InFlight = false
	s.publishLocked()
}

// Close cancels in-flight work and closes all subscriptions.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancelLocked()
	s.seq++
	s.state.InFlight = false
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

func (s *Session) cancelLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// run consumes one stream. Every write is guarded by seq so a superseded
// generation can never touch the state again.
func (s *Session) run(ctx context.Context, seq uint64, input string, st style.Style) {
	stream, err := s.gen.Stream(ctx, llm.Request{
		SystemInstructions: st.Instructions(),
		Prompt:             style.BuildPrompt(input, st),
	})
	if err != nil {
		s.fail(seq, err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case snap, open := <-stream:
			if !open {
				if ctx.Err() != nil {
					return
				}
				if s.update(seq, func(state *State) {
					state.Status = Completed
					state.InFlight = false
				}) {
					s.logger.Info("generation completed", map[string]interface{}{"seq": seq})
				}
				return
			}
			if snap.Err != nil {
				if errors.Is(snap.Err, llm.ErrStreamCanceled) || ctx.Err() != nil {
					return
				}
				s.fail(seq, snap.Err)
				return
			}
			if ctx.Err() != nil {
				return
			}
			if !s.update(seq, func(state *State) {
				state.Text = snap.Text
			}) {
				return
			}
		}
	}
}

func (s *Session) fail(seq uint64, err error) {
	if s.update(seq, func(state *State) {
		state.Status = Failed
		state.Text = ""
		state.Err = fmt.Sprintf("%s%v", streamErrPrefix, err)
		state.InFlight = false
	}) {
		s.logger.Error("generation failed", err, map[string]interface{}{"seq": seq})
	}
}

// update applies fn if seq is still the current generation and publishes the
// result. It reports whether the update was applied.
func (s *Session) update(seq uint64, fn func(*State)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || seq != s.seq {
		return false
	}
	fn(&s.state)
	s.publishLocked()
	return true
}
