// Package depth defines the optional depth-estimation contract.
// When no estimator is configured, direction guidance falls back to
// box-area heuristics with the same phrase vocabulary.
package depth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/spotter-ai/go-spotter/internal/httpc"
	"github.com/spotter-ai/go-spotter/pkg/detect"
	"github.com/spotter-ai/go-spotter/pkg/geometry"
)

// Estimator estimates how far a boxed object is from the camera.
type Estimator interface {
	// BoxDepth returns a normalized depth in [0,1] (0 near, 1 far) for
	// the box region, or false when no estimate is available.
	BoxDepth(frame detect.Frame, box geometry.Box) (float64, bool)
}

// Noop is the estimator used when no depth service is configured.
type Noop struct{}

// BoxDepth always reports no estimate.
func (Noop) BoxDepth(detect.Frame, geometry.Box) (float64, bool) {
	return 0, false
}

// Remote queries an HTTP depth-estimation service (MiDaS behind a small
// wrapper in our deployment).
type Remote struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewRemote creates a client for the depth service at url.
func NewRemote(url string) *Remote {
	return &Remote{
		url:    strings.TrimRight(url, "/"),
		client: httpc.Client,
		logger: slog.Default().With("component", "depth.remote"),
	}
}

type depthRequest struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

type depthResponse struct {
	Depth float64 `json:"depth"`
}

// BoxDepth posts the frame and box to the service. Failures are logged and
// reported as "no estimate" so guidance degrades to the area fallback.
func (r *Remote) BoxDepth(frame detect.Frame, box geometry.Box) (float64, bool) {
	meta, _ := json.Marshal(depthRequest{X1: box.X1, Y1: box.Y1, X2: box.X2, Y2: box.Y2})

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/depth?box=%s", r.url, url.QueryEscape(string(meta))), bytes.NewReader(frame.JPEG))
	if err != nil {
		return 0, false
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Debug("depth request failed", "error", err)
		return 0, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Debug("depth service error", "status", resp.StatusCode)
		return 0, false
	}

	var result depthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		r.logger.Debug("depth decode failed", "error", err)
		return 0, false
	}
	if result.Depth < 0 || result.Depth > 1 {
		return 0, false
	}
	return result.Depth, true
}

// Verify implementations at compile time.
var (
	_ Estimator = Noop{}
	_ Estimator = (*Remote)(nil)
)
