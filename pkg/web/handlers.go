package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/spotter-ai/go-spotter/pkg/command"
	"github.com/spotter-ai/go-spotter/pkg/hub"
)

// handleStatus returns the session snapshot.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.state.Get())
}

// FindRequest is the body for POST /api/find.
type FindRequest struct {
	Query string `json:"query"`
}

// handleFind injects a find command. An empty query is a client error
// rather than a silently dropped command.
func (s *Server) handleFind(c *fiber.Ctx) error {
	var req FindRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "query is required",
		})
	}

	return s.inject(c, command.Command{Action: command.ActionFind, Argument: query})
}

// handleAction injects an argument-less command.
func (s *Server) handleAction(action command.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return s.inject(c, command.Command{Action: action})
	}
}

func (s *Server) inject(c *fiber.Ctx, cmd command.Command) error {
	if !command.Offer(s.commands, cmd) {
		s.logger.Warn("command channel full", "action", cmd.Action)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "command channel full",
		})
	}
	return c.JSON(fiber.Map{"action": cmd.Action, "queued": true})
}

// handleStatusWS streams session snapshots.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	// Seed the new client with the current snapshot before live updates.
	c.WriteJSON(s.state.Get())
	hub.NewClient(s.statusHub, c).Run()
}

// handleCameraWS streams JPEG frames.
func (s *Server) handleCameraWS(c *websocket.Conn) {
	hub.NewClient(s.cameraHub, c).Run()
}
