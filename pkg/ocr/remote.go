package ocr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spotter-ai/go-spotter/internal/httpc"
	"github.com/spotter-ai/go-spotter/pkg/detect"
	"github.com/spotter-ai/go-spotter/pkg/geometry"
)

// Remote reads text via an HTTP OCR service. The service accepts a JPEG
// crop and responds with recognized lines and per-line confidences.
type Remote struct {
	url           string
	minConfidence float64
	client        *http.Client
	logger        *slog.Logger
}

// NewRemote creates a client for the OCR service at url.
// Lines below minConfidence are discarded.
func NewRemote(url string, minConfidence float64) *Remote {
	return &Remote{
		url:           strings.TrimRight(url, "/"),
		minConfidence: minConfidence,
		client:        httpc.Client,
		logger:        slog.Default().With("component", "ocr.remote"),
	}
}

// ocrResponse is the service's recognition result.
type ocrResponse struct {
	Lines []struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	} `json:"lines"`
}

// ReadText crops the box region and returns the recognized text.
func (r *Remote) ReadText(frame detect.Frame, box geometry.Box) (string, error) {
	text, _, err := r.readWithConfidence(frame, box)
	return text, err
}

// readWithConfidence returns joined text plus the mean line confidence.
func (r *Remote) readWithConfidence(frame detect.Frame, box geometry.Box) (string, float64, error) {
	crop, err := CropRegion(frame, box)
	if err == ErrEmptyRegion {
		return "", 0, nil
	}
	if err != nil {
		return "", 0, fmt.Errorf("ocr: crop: %w", err)
	}

	req, err := http.NewRequest("POST", r.url+"/ocr", bytes.NewReader(crop))
	if err != nil {
		return "", 0, fmt.Errorf("ocr: create request: %w", err)
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("ocr: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", 0, fmt.Errorf("ocr: service error %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var result ocrResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", 0, fmt.Errorf("ocr: decode response: %w", err)
	}

	var texts []string
	var confSum float64
	for _, line := range result.Lines {
		if line.Confidence <= r.minConfidence {
			continue
		}
		texts = append(texts, line.Text)
		confSum += line.Confidence
	}
	if len(texts) == 0 {
		return "", 0, nil
	}
	return strings.TrimSpace(strings.Join(texts, " ")), confSum / float64(len(texts)), nil
}

// Enrich attaches text and text confidence to every detection.
func (r *Remote) Enrich(frame detect.Frame, dets []detect.Detection) []detect.Detection {
	enriched := make([]detect.Detection, len(dets))
	for i, d := range dets {
		text, conf, err := r.readWithConfidence(frame, d.Box)
		if err != nil {
			r.logger.Warn("enrich failed for box", "class", d.Class, "error", err)
		}
		d.Text = text
		d.TextConfidence = conf
		enriched[i] = d
	}
	return enriched
}

// truncate shortens a string to maxLen characters.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// Verify Remote implements Reader at compile time.
var _ Reader = (*Remote)(nil)
