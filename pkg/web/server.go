// Package web exposes the remote front end: an HTTP API that injects
// commands and reads the session snapshot, plus websocket streams for
// status updates and the camera feed.
package web

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/spotter-ai/go-spotter/pkg/command"
	"github.com/spotter-ai/go-spotter/pkg/hub"
	"github.com/spotter-ai/go-spotter/pkg/session"
)

// Server is the assistant's web front end. It only injects commands and
// observes the session snapshot; it never touches handler state.
type Server struct {
	app    *fiber.App
	port   string
	logger *slog.Logger

	state    *session.State
	commands chan<- command.Command

	statusHub *hub.Hub
	cameraHub *hub.Hub
}

// NewServer wires routes. commands is the same channel the recognizer
// feeds; the coordinator drains both producers identically.
func NewServer(port string, state *session.State, commands chan<- command.Command) *Server {
	s := &Server{
		port:      port,
		logger:    slog.Default().With("component", "web"),
		state:     state,
		commands:  commands,
		statusHub: hub.New("status"),
		cameraHub: hub.New("camera"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Spotter",
		DisableStartupMessage: true,
	})

	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Post("/find", s.handleFind)
	api.Post("/what", s.handleAction(command.ActionWhat))
	api.Post("/read", s.handleAction(command.ActionRead))
	api.Post("/details", s.handleAction(command.ActionDetails))
	api.Post("/stop", s.handleAction(command.ActionStop))

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))

	s.app = app
	return s
}

// Start runs the hubs and listens. Blocks until shutdown.
func (s *Server) Start() error {
	go s.statusHub.Run()
	go s.cameraHub.Run()

	s.logger.Info("web front end listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// StartAsync runs Start in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			s.logger.Error("web server stopped", "error", err)
		}
	}()
}

// Shutdown stops the server and tears down the broadcast hubs.
func (s *Server) Shutdown() error {
	err := s.app.Shutdown()
	s.statusHub.Stop()
	s.cameraHub.Stop()
	return err
}

// BroadcastStatus pushes a snapshot to all status stream clients.
func (s *Server) BroadcastStatus(snap session.Snapshot) {
	if err := s.statusHub.BroadcastJSON(snap); err != nil {
		s.logger.Warn("status broadcast failed", "error", err)
	}
}

// SendCameraFrame pushes a JPEG frame to all camera stream clients.
func (s *Server) SendCameraFrame(jpeg []byte) {
	s.cameraHub.BroadcastBinary(jpeg)
}
