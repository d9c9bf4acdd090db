package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/parakeet-nest/parakeet/completion"
	"github.com/parakeet-nest/parakeet/enums/option"
	pkllm "github.com/parakeet-nest/parakeet/llm"

	"github.com/VarunSharma3520/Reply/internal/logger"
)

// OllamaGenerator streams chat completions from an Ollama server.
type OllamaGenerator struct {
	apiURL      string
	model       string
	temperature float64
	disabled    bool
	httpClient  *http.Client
	logger      *logger.Logger
}

// OllamaOptions configures NewOllamaGenerator.
type OllamaOptions struct {
	APIURL      string
	Model       string
	Temperature float64
	// Disabled makes Availability report FeatureDisabled.
	Disabled bool
	Logger   *logger.Logger
}

// NewOllamaGenerator creates a generator for the given server and model.
func NewOllamaGenerator(opts OllamaOptions) *OllamaGenerator {
	if opts.APIURL == "" {
		opts.APIURL = "http://localhost:11434"
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &OllamaGenerator{
		apiURL:      strings.TrimRight(opts.APIURL, "/"),
		model:       opts.Model,
		temperature: opts.Temperature,
		disabled:    opts.Disabled,
		httpClient:  &http.Client{Timeout: 5 * time.Second},
		logger:      opts.Logger,
	}
}

type tagsResponse struct {
	Models []struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	} `json:"models"`
}

// Availability checks that the server answers and has the model pulled.
func (g *OllamaGenerator) Availability(ctx context.Context) Availability {
	if g.disabled {
		return Availability{Kind: FeatureDisabled}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiURL+"/api/tags", nil)
	if err != nil {
		return Availability{Kind: UnknownUnavailable, Reason: err.Error()}
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Error("ollama availability check failed", err, map[string]interface{}{"api_url": g.apiURL})
		return Availability{Kind: UnknownUnavailable, Reason: fmt.Sprintf("cannot reach %s", g.apiURL)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Availability{Kind: UnsupportedDevice}
	case resp.StatusCode != http.StatusOK:
		return Availability{Kind: UnknownUnavailable, Reason: "ollama API returned " + resp.Status}
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return Availability{Kind: UnknownUnavailable, Reason: fmt.Sprintf("failed to decode model list: %v", err)}
	}

	for _, m := range tags.Models {
		if sameModel(m.Name, g.model) || sameModel(m.Model, g.model) {
			return Availability{Kind: Available}
		}
	}

	g.logger.Warn("model not pulled", map[string]interface{}{"model": g.model})
	return Availability{Kind: ModelNotReady}
}

// sameModel treats "llama3" and "llama3:latest" as the same model.
func sameModel(have, want string) bool {
	if have == "" || want == "" {
		return false
	}
	if have == want {
		return true
	}
	if !strings.Contains(want, ":") {
		return have == want+":latest"
	}
	return false
}

// Stream launches a parakeet ChatStream and forwards cumulative snapshots.
func (g *OllamaGenerator) Stream(ctx context.Context, req Request) (<-chan Snapshot, error) {
	if req.Prompt == "" {
		return nil, fmt.Errorf("empty prompt")
	}

	q := pkllm.Query{
		Model: g.model,
		Messages: []pkllm.Message{
			{Role: "system", Content: req.SystemInstructions},
			{Role: "user", Content: req.Prompt},
		},
		Options: pkllm.SetOptions(map[string]interface{}{
			string(option.Temperature): g.temperature,
		}),
		Stream: true,
	}

	out := make(chan Snapshot, 16)

	go func() {
		defer close(out)

		defer func() {
			if r := recover(); r != nil {
				g.logger.Error("stream panic", fmt.Errorf("%v", r), nil)
				send(ctx, out, Snapshot{Err: fmt.Errorf("stream panic: %v", r)})
			}
		}()

		var full strings.Builder
		_, err := completion.ChatStream(g.apiURL, q, func(ans pkllm.Answer) error {
			select {
			case <-ctx.Done():
				return ErrStreamCanceled
			default:
			}

			if s := ans.Message.Content; s != "" {
				full.WriteString(s)
				if !send(ctx, out, Snapshot{Text: full.String()}) {
					return ErrStreamCanceled
				}
			}
			return nil
		})

		if err != nil {
			if ctx.Err() != nil {
				g.logger.Debug("stream canceled", map[string]interface{}{"model": g.model})
				return
			}
			g.logger.Error("chat stream failed", err, map[string]interface{}{"model": g.model})
			send(ctx, out, Snapshot{Err: err})
			return
		}

		g.logger.Info("chat stream completed", map[string]interface{}{
			"model":  g.model,
			"length": full.Len(),
		})
	}()

	return out, nil
}

// send delivers s unless ctx ends first.
func send(ctx context.Context, ch chan<- Snapshot, s Snapshot) bool {
	select {
	case ch <- s:
		return true
	case <-ctx.Done():
		return false
	}
}
