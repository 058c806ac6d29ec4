package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spotter-ai/go-spotter/internal/httpc"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s"

// Gemini calls the Gemini generateContent API to analyze an image.
type Gemini struct {
	apiKey string
	model  string
	client *http.Client
}

// NewGemini creates a Gemini analyzer. An empty API key yields an
// analyzer that reports itself unavailable.
func NewGemini(apiKey, model string) *Gemini {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Gemini{
		apiKey: apiKey,
		model:  model,
		client: httpc.Client,
	}
}

// Available reports whether an API key is configured.
func (g *Gemini) Available() bool {
	return g.apiKey != ""
}

// Name identifies the backend.
func (g *Gemini) Name() string { return "gemini" }

// Identify sends the image and prompt to Gemini and returns the answer text.
func (g *Gemini) Identify(ctx context.Context, jpeg []byte, prompt string) (string, error) {
	if !g.Available() {
		return "", ErrUnavailable
	}

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": prompt},
					{"inline_data": map[string]string{
						"mime_type": "image/jpeg",
						"data":      base64.StdEncoding.EncodeToString(jpeg),
					}},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":     0.7,
			"maxOutputTokens": 500,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("vision: marshal payload: %w", err)
	}

	url := fmt.Sprintf(geminiEndpoint, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("vision: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("vision: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    truncate(string(respBody), 200),
			Provider:   g.Name(),
		}
	}

	var result geminiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("vision: decode response: %w", err)
	}
	if result.Error.Message != "" {
		return "", &APIError{
			StatusCode: result.Error.Code,
			Message:    result.Error.Message,
			Provider:   g.Name(),
		}
	}

	if len(result.Candidates) > 0 && len(result.Candidates[0].Content.Parts) > 0 {
		answer := strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text)
		if answer != "" {
			return answer, nil
		}
	}
	return "", ErrEmptyAnswer
}

// geminiResponse is the response structure from the Gemini API.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// truncate shortens a string to maxLen characters.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// Verify Gemini implements Analyzer at compile time.
var _ Analyzer = (*Gemini)(nil)
