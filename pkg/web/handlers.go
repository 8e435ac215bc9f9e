package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/termcam/pkg/hub"
)

// handleStatus returns the pipeline's current state.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.statsMu.RLock()
	stats := s.lastStats
	s.statsMu.RUnlock()

	return c.JSON(fiber.Map{
		"capture":        s.captures(),
		"render":         stats,
		"uptime_seconds": int(time.Since(s.startedAt).Seconds()),
		"ws_clients":     s.statsHub.ClientCount(),
	})
}

// handleConfig returns the effective configuration.
func (s *Server) handleConfig(c *fiber.Ctx) error {
	return c.JSON(s.cfg)
}

// handleSnapshot writes the currently displayed grid to disk.
func (s *Server) handleSnapshot(c *fiber.Ctx) error {
	if s.OnSnapshot == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "snapshot not configured",
		})
	}

	path, err := s.OnSnapshot()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"path": path})
}

// handleStatsWS streams stats reports to a websocket client.
func (s *Server) handleStatsWS(conn *websocket.Conn) {
	client := hub.NewClient(s.statsHub, conn)
	client.Run() // Blocks until connection closes
}
