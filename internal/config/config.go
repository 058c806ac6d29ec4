// Package config provides configuration loading for go-spotter commands.
//
// Configuration comes from an optional YAML file plus environment variables
// for secrets. Everything has a working default so the app can start with no
// config file at all.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	LogLevel string `yaml:"log_level"`

	Camera     CameraConfig     `yaml:"camera"`
	Detector   DetectorConfig   `yaml:"detector"`
	OCR        OCRConfig        `yaml:"ocr"`
	Depth      DepthConfig      `yaml:"depth"`
	Vision     VisionConfig     `yaml:"vision"`
	Speech     SpeechConfig     `yaml:"speech"`
	Recognizer RecognizerConfig `yaml:"recognizer"`
	Find       FindConfig       `yaml:"find"`
	Identify   IdentifyConfig   `yaml:"identify"`
	Web        WebConfig        `yaml:"web"`

	// Mirror compensates for a mirrored webcam feed so spoken
	// left/right matches the user's physical left/right.
	Mirror bool `yaml:"mirror"`

	// AvoidClass is the detection class excluded from candidate and
	// largest-box selection.
	AvoidClass string `yaml:"avoid_class"`

	// TopK is the maximum number of candidate boxes considered per frame
	// in find mode.
	TopK int `yaml:"top_k"`
}

// CameraConfig controls local capture.
type CameraConfig struct {
	Device int `yaml:"device"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Skip processes every Nth frame. Raw frames in between are only
	// displayed, never analyzed.
	Skip int `yaml:"skip"`
}

// DetectorConfig controls the YOLO object detector.
type DetectorConfig struct {
	ModelPath        string  `yaml:"model_path"`
	ConfidenceThresh float32 `yaml:"confidence"`
	NMSThresh        float32 `yaml:"nms"`
}

// OCRConfig points at the text-recognition service.
type OCRConfig struct {
	URL string `yaml:"url"`

	// MinConfidence filters OCR lines below this confidence.
	MinConfidence float64 `yaml:"min_confidence"`
}

// DepthConfig points at the optional depth-estimation service.
// An empty URL disables depth; direction falls back to box area.
type DepthConfig struct {
	URL string `yaml:"url"`
}

// VisionConfig selects the product-analysis backend chain.
type VisionConfig struct {
	GeminiModel string `yaml:"gemini_model"`
	OllamaModel string `yaml:"ollama_model"`
	OllamaHost  string `yaml:"ollama_host"`
}

// SpeechConfig controls announcement delivery.
type SpeechConfig struct {
	// ThrottleWindow is the minimum time before an unchanged
	// announcement may be re-spoken.
	ThrottleWindow time.Duration `yaml:"throttle_window"`

	// QueueSize bounds pending announcements; enqueue never blocks.
	QueueSize int `yaml:"queue_size"`

	VoiceID string `yaml:"voice_id"`
	ModelID string `yaml:"model_id"`
}

// RecognizerConfig points at the speech-to-text gateway.
// An empty URL falls back to keyboard input on stdin.
type RecognizerConfig struct {
	URL string `yaml:"url"`
}

// FindConfig controls find-mode behavior.
type FindConfig struct {
	// AnnounceGuidance re-announces the direction phrase every frame
	// while locked. Off by default: announce once, then track silently.
	AnnounceGuidance bool `yaml:"announce_guidance"`
}

// IdentifyConfig controls what-mode behavior.
type IdentifyConfig struct {
	// WaitFrames is how many processed frames to wait before
	// identifying, giving the user time to steady the camera.
	WaitFrames int `yaml:"wait_frames"`
}

// WebConfig controls the remote status/command API.
type WebConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    string `yaml:"port"`
}

// Default returns the working default configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Camera: CameraConfig{
			Device: 0,
			Width:  640,
			Height: 480,
			Skip:   2,
		},
		Detector: DetectorConfig{
			ModelPath:        "models/yolov8n.onnx",
			ConfidenceThresh: 0.5,
			NMSThresh:        0.45,
		},
		OCR: OCRConfig{
			MinConfidence: 0.5,
		},
		Vision: VisionConfig{
			GeminiModel: "gemini-2.0-flash",
			OllamaModel: "llava",
		},
		Speech: SpeechConfig{
			ThrottleWindow: time.Second,
			QueueSize:      64,
			ModelID:        "eleven_turbo_v2",
		},
		Find:     FindConfig{AnnounceGuidance: false},
		Identify: IdentifyConfig{WaitFrames: 40},
		Web: WebConfig{
			Enabled: true,
			Port:    "8080",
		},
		Mirror:     true,
		AvoidClass: "person",
		TopK:       2,
	}
}

// Load reads a YAML config file over the defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// GeminiAPIKey returns the Gemini key from GEMINI_API_KEY.
func GeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

// ElevenAPIKey returns the ElevenLabs key from ELEVEN_API_KEY.
func ElevenAPIKey() string {
	return os.Getenv("ELEVEN_API_KEY")
}

// OllamaHost returns the Ollama host, preferring the config value,
// then OLLAMA_HOST, then the local default.
func OllamaHost(configured string) string {
	if configured != "" {
		return configured
	}
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		return host
	}
	return "http://127.0.0.1:11434"
}
