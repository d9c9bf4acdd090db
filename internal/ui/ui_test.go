package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/VarunSharma3520/Reply/internal/clipboard"
	"github.com/VarunSharma3520/Reply/internal/history"
	"github.com/VarunSharma3520/Reply/internal/llm"
	"github.com/VarunSharma3520/Reply/internal/reply"
	"github.com/VarunSharma3520/Reply/internal/style"
	"github.com/VarunSharma3520/Reply/internal/types"
)

// scriptedGenerator replays the same cumulative chunks for every request.
type scriptedGenerator struct {
	chunks []string
	err    error

	mu       sync.Mutex
	requests []llm.Request
}

func (g *scriptedGenerator) Availability(ctx context.Context) llm.Availability {
	return llm.Availability{Kind: llm.Available}
}

func (g *scriptedGenerator) Stream(ctx context.Context, req llm.Request) (<-chan llm.Snapshot, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)

	ch := make(chan llm.Snapshot, len(g.chunks)+1)
	for _, c := range g.chunks {
		ch <- llm.Snapshot{Text: c}
	}
	if g.err != nil {
		ch <- llm.Snapshot{Err: g.err}
	}
	g.mu.Unlock()
	close(ch)
	return ch, nil
}

func (g *scriptedGenerator) setErr(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

func (g *scriptedGenerator) requestCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

type fakeSaver struct {
	mu    sync.Mutex
	saved []string
	err   error
}

func (f *fakeSaver) Save(ctx context.Context, input, styleLabel, text string) (history.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return history.Record{}, f.err
	}
	f.saved = append(f.saved, input+"|"+styleLabel+"|"+text)
	return history.Record{Input: input, Style: styleLabel, Reply: text}, nil
}

func newTestModel(t *testing.T, gen *scriptedGenerator) (*Model, *clipboard.Memory, *fakeSaver) {
	t.Helper()
	session := reply.New(gen, nil)
	session.CheckAvailability(context.Background())
	t.Cleanup(session.Close)

	clip := &clipboard.Memory{}
	saver := &fakeSaver{}
	m := InitialModel(Options{
		Session:   session,
		Clipboard: clip,
		History:   saver,
		Style:     style.Casual,
	})
	return m, clip, saver
}

// pump feeds session updates into the model until cond holds.
func pump(t *testing.T, m *Model, cond func(reply.State) bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond(m.State) {
		msgs := make(chan tea.Msg, 1)
		go func(ch <-chan reply.State) { msgs <- waitForState(ch)() }(m.updates)
		select {
		case msg := <-msgs:
			m.Update(msg)
		case <-deadline:
			t.Fatalf("state never reached, last = %+v", m.State)
		}
	}
}

func press(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestEnterGeneratesReply(t *testing.T) {
	gen := &scriptedGenerator{chunks: []string{"Sure", "Sure, see", "Sure, see you then!"}}
	m, _, _ := newTestModel(t, gen)

	m.TextInput.SetValue("Lunch at noon?")
	m.Update(press(tea.KeyEnter))

	pump(t, m, func(st reply.State) bool { return st.Status == reply.Completed })

	if m.State.Text != "Sure, see you then!" {
		t.Errorf("Text = %q", m.State.Text)
	}
	if gen.requestCount() != 1 {
		t.Fatalf("requests = %d, want 1", gen.requestCount())
	}
	if got := gen.requests[0].Prompt; got != "Write a casual, friendly message response to: Lunch at noon?" {
		t.Errorf("Prompt = %q", got)
	}
	if !strings.Contains(m.View(), "Sure, see you then!") {
		t.Errorf("View does not show the reply:\n%s", m.View())
	}
}

func TestEnterIgnoresEmptyInput(t *testing.T) {
	gen := &scriptedGenerator{chunks: []string{"x"}}
	m, _, _ := newTestModel(t, gen)

	m.TextInput.SetValue("   ")
	m.Update(press(tea.KeyEnter))

	if gen.requestCount() != 0 {
		t.Errorf("requests = %d, want 0", gen.requestCount())
	}
}

func TestTabSwitchesStyle(t *testing.T) {
	gen := &scriptedGenerator{chunks: []string{"Dear team"}}
	m, _, _ := newTestModel(t, gen)

	m.Update(press(tea.KeyTab))
	if m.Style != style.Professional {
		t.Fatalf("Style = %v, want Professional", m.Style)
	}
	if !strings.Contains(m.View(), "Professional") {
		t.Error("View does not show the selected style")
	}

	m.TextInput.SetValue("Status update?")
	m.Update(press(tea.KeyEnter))
	pump(t, m, func(st reply.State) bool { return st.Status == reply.Completed })

	if got := gen.requests[0].SystemInstructions; got != style.Professional.Instructions() {
		t.Errorf("SystemInstructions = %q", got)
	}
}

func TestCopyThenClears(t *testing.T) {
	gen := &scriptedGenerator{chunks: []string{"Hello!"}}
	m, clip, _ := newTestModel(t, gen)

	m.TextInput.SetValue("Hi")
	m.Update(press(tea.KeyEnter))
	pump(t, m, func(st reply.State) bool { return st.Status == reply.Completed })

	_, cmd := m.Update(press(tea.KeyCtrlY))
	if cmd == nil {
		t.Error("copy should schedule the status line removal")
	}
	if clip.Text != "Hello!" {
		t.Errorf("clipboard = %q, want Hello!", clip.Text)
	}
	if m.StatusMsg != "Copied to clipboard" {
		t.Errorf("StatusMsg = %q", m.StatusMsg)
	}

	pump(t, m, func(st reply.State) bool { return st.Status == reply.Idle })
	if m.State.Text != "" {
		t.Errorf("Text after copy = %q", m.State.Text)
	}
}

type brokenClipboard struct{}

func (brokenClipboard) WriteAll(string) error { return errors.New("no clipboard") }

func TestCopyFailureKeepsReply(t *testing.T) {
	gen := &scriptedGenerator{chunks: []string{"Hello!"}}
	m, _, _ := newTestModel(t, gen)
	m.Clipboard = brokenClipboard{}

	m.TextInput.SetValue("Hi")
	m.Update(press(tea.KeyEnter))
	pump(t, m, func(st reply.State) bool { return st.Status == reply.Completed })

	m.Update(press(tea.KeyCtrlY))
	if m.Session.Snapshot().Status != reply.Completed {
		t.Error("failed copy should not clear the reply")
	}
	if m.StatusMsg == "" {
		t.Error("failed copy should show a status message")
	}
}

func TestRetryRegenerates(t *testing.T) {
	gen := &scriptedGenerator{chunks: []string{"One"}}
	m, _, _ := newTestModel(t, gen)

	m.TextInput.SetValue("Ping")
	m.Update(press(tea.KeyEnter))
	pump(t, m, func(st reply.State) bool { return st.Status == reply.Completed })

	m.Update(press(tea.KeyCtrlR))
	pump(t, m, func(st reply.State) bool { return st.Status == reply.Completed && gen.requestCount() == 2 })

	if gen.requests[0] != gen.requests[1] {
		t.Errorf("retry sent %+v, first call sent %+v", gen.requests[1], gen.requests[0])
	}
}

func TestBlurClears(t *testing.T) {
	gen := &scriptedGenerator{chunks: []string{"Reply"}}
	m, _, _ := newTestModel(t, gen)

	m.TextInput.SetValue("Hi")
	m.Update(press(tea.KeyEnter))
	pump(t, m, func(st reply.State) bool { return st.Status == reply.Completed })

	m.Update(tea.BlurMsg{})
	pump(t, m, func(st reply.State) bool { return st.Status == reply.Idle })
}

func TestEscape(t *testing.T) {
	gen := &scriptedGenerator{chunks: []string{"Reply"}}
	m, _, _ := newTestModel(t, gen)

	m.TextInput.SetValue("Hi")
	m.Update(press(tea.KeyEnter))
	pump(t, m, func(st reply.State) bool { return st.Status == reply.Completed })

	if _, cmd := m.Update(press(tea.KeyEsc)); isQuit(cmd) {
		t.Fatal("Esc with a reply on screen should clear, not quit")
	}
	pump(t, m, func(st reply.State) bool { return st.Status == reply.Idle })

	if _, cmd := m.Update(press(tea.KeyEsc)); !isQuit(cmd) {
		t.Error("Esc on an empty panel should quit")
	}
}

func TestStreamErrorShown(t *testing.T) {
	gen := &scriptedGenerator{chunks: []string{"Par"}, err: errors.New("model crashed")}
	m, _, saver := newTestModel(t, gen)

	m.TextInput.SetValue("Hi")
	m.Update(press(tea.KeyEnter))
	pump(t, m, func(st reply.State) bool { return st.Status == reply.Failed })

	view := m.View()
	if !strings.Contains(view, "Error generating response: model crashed") {
		t.Errorf("View does not show the error:\n%s", view)
	}
	if len(saver.saved) != 0 {
		t.Error("failed replies must not be saved")
	}
}

func TestCompletedReplySavedOnce(t *testing.T) {
	gen := &scriptedGenerator{}
	m, _, saver := newTestModel(t, gen)
	m.LastInput = "Hi"
	m.LastStyle = style.Professional

	cmd := m.applyState(reply.State{Status: reply.Completed, Text: "Hello.", Generation: 1})
	if cmd == nil {
		t.Fatal("completed state should trigger a save")
	}
	msg, ok := cmd().(types.StatusMsg)
	if !ok || msg.Message != "Reply saved to history" {
		t.Errorf("save returned %+v", msg)
	}
	if len(saver.saved) != 1 || saver.saved[0] != "Hi|Professional|Hello." {
		t.Errorf("saved = %v", saver.saved)
	}

	if cmd := m.applyState(reply.State{Status: reply.Completed, Text: "Hello.", Generation: 1}); cmd != nil {
		t.Error("the same completion should not be saved twice")
	}
}

func TestStatusExpires(t *testing.T) {
	m, _, _ := newTestModel(t, &scriptedGenerator{})

	m.Update(types.StatusMsg{Message: "first", Duration: time.Second})
	firstID := m.statusID
	m.Update(types.StatusMsg{Message: "second", Duration: time.Second})

	m.Update(types.ClearStatusMsg{ID: firstID})
	if m.StatusMsg != "second" {
		t.Errorf("stale clear removed newer status: %q", m.StatusMsg)
	}
	m.Update(types.ClearStatusMsg{ID: m.statusID})
	if m.StatusMsg != "" {
		t.Errorf("StatusMsg = %q, want empty", m.StatusMsg)
	}
}

// settle waits until the session has finished its nth request and returns the
// one state left in the subscription, the way a slow shell would see it.
func settle(t *testing.T, m *Model, gen *scriptedGenerator, n int) reply.State {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		st := m.Session.Snapshot()
		if gen.requestCount() == n && !st.InFlight && st.Status == reply.Completed {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("generation %d never completed, state = %+v", n, st)
		}
		time.Sleep(time.Millisecond)
	}
	select {
	case st := <-m.updates:
		return st
	case <-time.After(2 * time.Second):
		t.Fatal("no state published")
		return reply.State{}
	}
}

func runSave(t *testing.T, cmd tea.Cmd) types.StatusMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a save")
	}
	msg, ok := cmd().(types.StatusMsg)
	if !ok {
		t.Fatalf("save returned %T", msg)
	}
	return msg
}

func TestRetriedReplySaved(t *testing.T) {
	gen := &scriptedGenerator{chunks: []string{"One"}}
	m, _, saver := newTestModel(t, gen)

	m.TextInput.SetValue("Ping")
	m.Update(press(tea.KeyEnter))
	runSave(t, m.applyState(settle(t, m, gen, 1)))

	// The retry finishes before the shell reads again, so the only state it
	// sees is a Completed with the same text as before.
	m.Update(press(tea.KeyCtrlR))
	st := settle(t, m, gen, 2)
	if st.Status != reply.Completed || st.Text != "One" {
		t.Fatalf("state after retry = %+v", st)
	}
	runSave(t, m.applyState(st))

	want := []string{"Ping|Casual|One", "Ping|Casual|One"}
	if strings.Join(saver.saved, ",") != strings.Join(want, ",") {
		t.Errorf("saved = %v, want %v", saver.saved, want)
	}
	if cmd := m.applyState(st); cmd != nil {
		t.Error("the retried reply should only be saved once")
	}
}

func TestSaveWithoutIndexShowsStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "saved", want: "Reply saved to history"},
		{name: "not indexed", err: fmt.Errorf("%w: qdrant down", history.ErrNotIndexed), want: "Reply saved (not indexed)"},
		{name: "write failed", err: errors.New("disk full"), want: "Failed to save reply"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, saver := newTestModel(t, &scriptedGenerator{})
			saver.err = tt.err
			m.LastInput = "Hi"

			msg := runSave(t, m.applyState(reply.State{Status: reply.Completed, Text: "Hello.", Generation: 1}))
			if msg.Message != tt.want {
				t.Errorf("status = %q, want %q", msg.Message, tt.want)
			}
		})
	}
}

func TestRetryAfterFailure(t *testing.T) {
	gen := &scriptedGenerator{chunks: []string{"Par"}, err: errors.New("model crashed")}
	m, _, _ := newTestModel(t, gen)

	m.TextInput.SetValue("Hi")
	m.Update(press(tea.KeyEnter))
	pump(t, m, func(st reply.State) bool { return st.Status == reply.Failed })

	if m.showingResponse() {
		t.Fatal("a failed reply should leave the input view on screen")
	}
	if !strings.Contains(m.View(), "retry") {
		t.Errorf("input view should offer retry after a failure:\n%s", m.View())
	}

	gen.setErr(nil)
	m.Update(press(tea.KeyCtrlR))
	pump(t, m, func(st reply.State) bool { return st.Status == reply.Completed })

	if gen.requestCount() != 2 {
		t.Fatalf("requests = %d, want 2", gen.requestCount())
	}
	if gen.requests[0] != gen.requests[1] {
		t.Errorf("retry sent %+v, first call sent %+v", gen.requests[1], gen.requests[0])
	}
}

func TestRetryIgnoredOnInputViewWithoutFailure(t *testing.T) {
	gen := &scriptedGenerator{chunks: []string{"x"}}
	m, _, _ := newTestModel(t, gen)

	m.TextInput.SetValue("Hi")
	m.Update(press(tea.KeyCtrlR))

	if gen.requestCount() != 0 {
		t.Errorf("requests = %d, want 0", gen.requestCount())
	}
}
