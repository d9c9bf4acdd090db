package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func chatLine(content string, done bool) string {
	b, _ := json.Marshal(map[string]interface{}{
		"model":   "gemma3:1b",
		"message": map[string]string{"role": "assistant", "content": content},
		"done":    done,
	})
	return string(b) + "\n"
}

func newOllamaServer(t *testing.T, chat http.HandlerFunc, tags http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	if chat != nil {
		mux.HandleFunc("/api/chat", chat)
	}
	if tags != nil {
		mux.HandleFunc("/api/tags", tags)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func collect(t *testing.T, ch <-chan Snapshot) []Snapshot {
	t.Helper()
	var got []Snapshot
	timeout := time.After(5 * time.Second)
	for {
		select {
		case s, ok := <-ch:
			if !ok {
				return got
			}
			got = append(got, s)
		case <-timeout:
			t.Fatal("timed out waiting for stream")
		}
	}
}

func TestStreamEmitsCumulativeSnapshots(t *testing.T) {
	var gotMessages []map[string]string
	srv := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []map[string]string `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotMessages = body.Messages

		w.Header().Set("Content-Type", "application/x-ndjson")
		for _, part := range []string{"Hi", " there", "!"} {
			fmt.Fprint(w, chatLine(part, false))
		}
		fmt.Fprint(w, chatLine("", true))
	}, nil)

	g := NewOllamaGenerator(OllamaOptions{APIURL: srv.URL, Model: "gemma3:1b", Temperature: 0.5})
	ch, err := g.Stream(context.Background(), Request{SystemInstructions: "be nice", Prompt: "say hi"})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	got := collect(t, ch)
	want := []string{"Hi", "Hi there", "Hi there!"}
	if len(got) != len(want) {
		t.Fatalf("got %d snapshots %+v, want %d", len(got), got, len(want))
	}
	for i, s := range got {
		if s.Err != nil {
			t.Fatalf("snapshot %d unexpected error: %v", i, s.Err)
		}
		if s.Text != want[i] {
			t.Errorf("snapshot %d = %q, want %q", i, s.Text, want[i])
		}
	}

	if len(gotMessages) != 2 {
		t.Fatalf("server got %d messages, want 2", len(gotMessages))
	}
	if gotMessages[0]["role"] != "system" || gotMessages[0]["content"] != "be nice" {
		t.Errorf("system message = %v", gotMessages[0])
	}
	if gotMessages[1]["role"] != "user" || gotMessages[1]["content"] != "say hi" {
		t.Errorf("user message = %v", gotMessages[1])
	}
}

func TestStreamReportsServerError(t *testing.T) {
	srv := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model exploded", http.StatusInternalServerError)
	}, nil)

	g := NewOllamaGenerator(OllamaOptions{APIURL: srv.URL, Model: "gemma3:1b"})
	ch, err := g.Stream(context.Background(), Request{Prompt: "hello"})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	got := collect(t, ch)
	if len(got) == 0 || got[len(got)-1].Err == nil {
		t.Fatalf("expected a terminal error snapshot, got %+v", got)
	}
}

func TestStreamRejectsEmptyPrompt(t *testing.T) {
	g := NewOllamaGenerator(OllamaOptions{Model: "gemma3:1b"})
	if _, err := g.Stream(context.Background(), Request{}); err == nil {
		t.Error("expected error for empty prompt")
	}
}

func TestStreamStopsOnCancel(t *testing.T) {
	release := make(chan struct{})
	srv := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatLine("first", false))
		w.(http.Flusher).Flush()
		<-release
		fmt.Fprint(w, chatLine(" second", false))
		fmt.Fprint(w, chatLine("", true))
	}, nil)
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	g := NewOllamaGenerator(OllamaOptions{APIURL: srv.URL, Model: "gemma3:1b"})
	ch, err := g.Stream(ctx, Request{Prompt: "hello"})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	select {
	case s := <-ch:
		if s.Text != "first" {
			t.Fatalf("first snapshot = %+v", s)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for first snapshot")
	}

	cancel()
	release <- struct{}{}

	for s := range ch {
		if s.Err != nil {
			t.Errorf("canceled stream should not report an error, got %v", s.Err)
		}
		if s.Text == "first second" {
			t.Errorf("received snapshot after cancel: %q", s.Text)
		}
	}
}

func TestAvailability(t *testing.T) {
	tagsBody := `{"models":[{"name":"gemma3:1b","model":"gemma3:1b"},{"name":"llama3:latest","model":"llama3:latest"}]}`

	tests := []struct {
		name     string
		model    string
		disabled bool
		status   int
		body     string
		want     AvailabilityKind
	}{
		{name: "available", model: "gemma3:1b", status: http.StatusOK, body: tagsBody, want: Available},
		{name: "latest tag implied", model: "llama3", status: http.StatusOK, body: tagsBody, want: Available},
		{name: "model missing", model: "qwen3", status: http.StatusOK, body: tagsBody, want: ModelNotReady},
		{name: "disabled", model: "gemma3:1b", disabled: true, status: http.StatusOK, body: tagsBody, want: FeatureDisabled},
		{name: "not an ollama server", model: "gemma3:1b", status: http.StatusNotFound, body: "", want: UnsupportedDevice},
		{name: "server error", model: "gemma3:1b", status: http.StatusBadGateway, body: "", want: UnknownUnavailable},
		{name: "garbage body", model: "gemma3:1b", status: http.StatusOK, body: "<html>", want: UnknownUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newOllamaServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			g := NewOllamaGenerator(OllamaOptions{APIURL: srv.URL, Model: tt.model, Disabled: tt.disabled})
			got := g.Availability(context.Background())
			if got.Kind != tt.want {
				t.Errorf("Availability() = %v (%q), want %v", got.Kind, got.Reason, tt.want)
			}
			if got.Kind == UnknownUnavailable && got.Reason == "" {
				t.Error("UnknownUnavailable should carry a reason")
			}
		})
	}
}

func TestAvailabilityUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	g := NewOllamaGenerator(OllamaOptions{APIURL: url, Model: "gemma3:1b"})
	got := g.Availability(context.Background())
	if got.Kind != UnknownUnavailable || got.Reason == "" {
		t.Errorf("Availability() = %+v, want UnknownUnavailable with reason", got)
	}
}
