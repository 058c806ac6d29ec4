package vision

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/spotter-ai/go-spotter/internal/httpc"
)

// Ollama analyzes images with a local vision model (llava, minicpm-v)
// served by Ollama. Useful as an offline fallback behind Gemini.
type Ollama struct {
	client *api.Client
	model  string
}

// NewOllama creates an analyzer for the Ollama server at host.
func NewOllama(host, model string) (*Ollama, error) {
	parsed, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("vision: invalid ollama host: %w", err)
	}
	if model == "" {
		model = "llava"
	}

	base := &url.URL{Scheme: parsed.Scheme, Host: parsed.Host}
	return &Ollama{
		client: api.NewClient(base, httpc.Client),
		model:  model,
	}, nil
}

// Available reports whether the client was constructed.
// Connectivity problems surface as Identify errors.
func (o *Ollama) Available() bool {
	return o.client != nil
}

// Name identifies the backend.
func (o *Ollama) Name() string { return "ollama" }

// Identify sends the image and prompt to the vision model.
func (o *Ollama) Identify(ctx context.Context, jpeg []byte, prompt string) (string, error) {
	if !o.Available() {
		return "", ErrUnavailable
	}

	// Local vision models on CPU can be slow; bound the call if the
	// caller hasn't.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 120*time.Second)
		defer cancel()
	}

	stream := false
	req := &api.ChatRequest{
		Model: o.model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: prompt,
				Images:  []api.ImageData{api.ImageData(jpeg)},
			},
		},
		Stream: &stream,
	}

	var answer string
	err := o.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		answer = resp.Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("vision: ollama chat: %w", err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", ErrEmptyAnswer
	}
	return answer, nil
}

// Verify Ollama implements Analyzer at compile time.
var _ Analyzer = (*Ollama)(nil)
