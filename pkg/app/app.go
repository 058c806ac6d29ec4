// Package app wires the collaborators together and runs the main
// frame-processing loop.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gocv.io/x/gocv"

	"github.com/spotter-ai/go-spotter/internal/config"
	"github.com/spotter-ai/go-spotter/pkg/announce"
	"github.com/spotter-ai/go-spotter/pkg/command"
	"github.com/spotter-ai/go-spotter/pkg/depth"
	"github.com/spotter-ai/go-spotter/pkg/detect"
	"github.com/spotter-ai/go-spotter/pkg/hud"
	"github.com/spotter-ai/go-spotter/pkg/modes"
	"github.com/spotter-ai/go-spotter/pkg/ocr"
	"github.com/spotter-ai/go-spotter/pkg/session"
	"github.com/spotter-ai/go-spotter/pkg/tracker"
	"github.com/spotter-ai/go-spotter/pkg/tts"
	"github.com/spotter-ai/go-spotter/pkg/vision"
	"github.com/spotter-ai/go-spotter/pkg/web"
)

// Options holds collaborators the config file cannot describe.
type Options struct {
	// Play delivers synthesized audio to the output device. When nil, or
	// when no TTS key is configured, announcements are logged instead.
	Play tts.PlayFunc
}

// App owns the wired components and the main loop.
type App struct {
	cfg    config.Config
	logger *slog.Logger

	detector detect.Detector
	queue    *announce.Queue
	coord    *modes.Coordinator
	state    *session.State
	overlay  *hud.Overlay
	server   *web.Server

	source   command.Source
	listener *command.Listener

	ttsProvider tts.Provider
}

// New builds the full collaborator graph from config.
func New(cfg config.Config, opts Options) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: slog.Default().With("component", "app"),
		state:  session.New(),
	}

	detector, err := detect.NewYOLO(detect.YOLOConfig{
		ModelPath:        cfg.Detector.ModelPath,
		ConfidenceThresh: cfg.Detector.ConfidenceThresh,
		NMSThresh:        cfg.Detector.NMSThresh,
		InputWidth:       640,
		InputHeight:      640,
	})
	if err != nil {
		return nil, err
	}
	a.detector = detector

	speaker, provider, err := buildSpeaker(cfg, opts.Play)
	if err != nil {
		detector.Close()
		return nil, err
	}
	a.ttsProvider = provider
	a.queue = announce.NewQueue(speaker,
		announce.WithThrottleWindow(cfg.Speech.ThrottleWindow),
		announce.WithQueueSize(cfg.Speech.QueueSize),
	)

	var reader ocr.Reader
	if cfg.OCR.URL != "" {
		reader = ocr.NewRemote(cfg.OCR.URL, cfg.OCR.MinConfidence)
	} else {
		reader = ocr.Disabled{}
	}

	var estimator depth.Estimator = depth.Noop{}
	if cfg.Depth.URL != "" {
		estimator = depth.NewRemote(cfg.Depth.URL)
	}

	analyzer, err := buildAnalyzer(cfg)
	if err != nil {
		a.queue.Close()
		detector.Close()
		return nil, err
	}

	find := modes.NewFind(a.queue, tracker.New(), estimator, reader, modes.FindConfig{
		AvoidClass:       cfg.AvoidClass,
		TopK:             cfg.TopK,
		Mirror:           cfg.Mirror,
		AnnounceGuidance: cfg.Find.AnnounceGuidance,
	})
	identify := modes.NewIdentify(a.queue, reader, modes.IdentifyConfig{
		AvoidClass: cfg.AvoidClass,
		Mirror:     cfg.Mirror,
		WaitFrames: cfg.Identify.WaitFrames,
	})
	read := modes.NewRead(a.queue, reader, modes.ReadConfig{AvoidClass: cfg.AvoidClass})
	analyze := modes.NewAnalyze(a.queue, analyzer, "")

	cmds := make(chan command.Command, 8)
	a.coord = modes.NewCoordinator(a.queue, cmds, find, identify, read, analyze)

	if cfg.Recognizer.URL != "" {
		a.source = command.NewWSSource(cfg.Recognizer.URL)
	} else {
		a.source = command.NewKeyboardSource()
		a.logger.Info("no recognizer configured, reading commands from stdin")
	}
	a.listener = command.NewListener(a.source, cmds)

	a.overlay = hud.New()
	if cfg.Web.Enabled {
		a.server = web.NewServer(cfg.Web.Port, a.state, cmds)
	}

	return a, nil
}

// buildSpeaker returns the queue's speech backend: ElevenLabs behind the
// Speaker adapter when a key and playback sink exist, log-only otherwise.
func buildSpeaker(cfg config.Config, play tts.PlayFunc) (announce.Speaker, tts.Provider, error) {
	key := config.ElevenAPIKey()
	if key == "" || cfg.Speech.VoiceID == "" || play == nil {
		return announce.NewLogSpeaker(), nil, nil
	}

	provider, err := tts.NewElevenLabs(
		tts.WithAPIKey(key),
		tts.WithVoice(cfg.Speech.VoiceID),
		tts.WithModel(cfg.Speech.ModelID),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("app: build tts: %w", err)
	}
	return tts.NewSpeaker(provider, play), provider, nil
}

// buildAnalyzer chains Gemini and Ollama; whichever is configured and
// available answers first.
func buildAnalyzer(cfg config.Config) (vision.Analyzer, error) {
	var analyzers []vision.Analyzer

	if key := config.GeminiAPIKey(); key != "" {
		analyzers = append(analyzers, vision.NewGemini(key, cfg.Vision.GeminiModel))
	}
	if cfg.Vision.OllamaModel != "" {
		ollama, err := vision.NewOllama(config.OllamaHost(cfg.Vision.OllamaHost), cfg.Vision.OllamaModel)
		if err != nil {
			return nil, fmt.Errorf("app: build ollama analyzer: %w", err)
		}
		analyzers = append(analyzers, ollama)
	}

	if len(analyzers) == 0 {
		// Details mode will answer with a spoken configuration error.
		return nil, nil
	}
	return vision.NewChain(analyzers...)
}

// Run opens the camera and drives the main loop until quit or ctx cancel.
func (a *App) Run(ctx context.Context) error {
	cam, err := gocv.OpenVideoCapture(a.cfg.Camera.Device)
	if err != nil {
		return fmt.Errorf("app: open camera %d: %w", a.cfg.Camera.Device, err)
	}
	defer cam.Close()
	cam.Set(gocv.VideoCaptureFrameWidth, float64(a.cfg.Camera.Width))
	cam.Set(gocv.VideoCaptureFrameHeight, float64(a.cfg.Camera.Height))

	listenCtx, stopListen := context.WithCancel(ctx)
	defer stopListen()
	go a.listener.Run(listenCtx)

	if a.server != nil {
		a.server.StartAsync()
		defer a.server.Shutdown()
	}
	defer a.close()

	a.queue.SayNow("spotter is ready.")
	a.logger.Info("main loop started",
		"width", a.cfg.Camera.Width,
		"height", a.cfg.Camera.Height,
		"skip", a.cfg.Camera.Skip,
	)

	img := gocv.NewMat()
	defer img.Close()

	skip := a.cfg.Camera.Skip
	if skip < 1 {
		skip = 1
	}

	var seq uint64
	for ctx.Err() == nil {
		if ok := cam.Read(&img); !ok || img.Empty() {
			time.Sleep(10 * time.Millisecond)
			continue
		}

		seq++
		if seq%uint64(skip) != 0 {
			continue
		}

		frame, err := encodeFrame(img, seq)
		if err != nil {
			a.logger.Warn("frame encode failed", "error", err)
			continue
		}

		dets, err := a.detector.Detect(frame)
		if err != nil {
			a.logger.Warn("detection failed", "error", err)
			dets = nil
		}

		res := a.coord.Tick(dets, frame)
		a.state.Update(res)
		if res.Quit {
			a.logger.Info("quit requested")
			return nil
		}

		a.overlay.Draw(&img, dets, res)
		a.publish(img)
	}
	return ctx.Err()
}

// publish streams the overlaid frame and snapshot to web clients.
func (a *App) publish(img gocv.Mat) {
	if a.server == nil {
		return
	}
	a.server.BroadcastStatus(a.state.Get())

	buf, err := gocv.IMEncode(".jpg", img)
	if err != nil {
		a.logger.Warn("hud frame encode failed", "error", err)
		return
	}
	defer buf.Close()

	jpeg := make([]byte, len(buf.GetBytes()))
	copy(jpeg, buf.GetBytes())
	a.server.SendCameraFrame(jpeg)
}

// encodeFrame converts a Mat into the immutable frame handed to handlers.
func encodeFrame(img gocv.Mat, seq uint64) (detect.Frame, error) {
	buf, err := gocv.IMEncode(".jpg", img)
	if err != nil {
		return detect.Frame{}, err
	}
	defer buf.Close()

	jpeg := make([]byte, len(buf.GetBytes()))
	copy(jpeg, buf.GetBytes())

	return detect.Frame{
		JPEG:   jpeg,
		Width:  img.Cols(),
		Height: img.Rows(),
		Seq:    seq,
	}, nil
}

func (a *App) close() {
	a.queue.Close()
	if a.ttsProvider != nil {
		a.ttsProvider.Close()
	}
	if err := a.detector.Close(); err != nil {
		a.logger.Warn("detector close failed", "error", err)
	}
	if closer, ok := a.source.(interface{ Close() error }); ok {
		closer.Close()
	}
}
