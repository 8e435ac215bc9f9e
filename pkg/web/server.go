// Package web provides a small stats dashboard for the capture
// pipeline. It serves pipeline status and a live stats feed; rendered
// frames never leave the process.
package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/termcam/internal/config"
	"github.com/teslashibe/termcam/internal/log"
	"github.com/teslashibe/termcam/pkg/capture"
	"github.com/teslashibe/termcam/pkg/hub"
	"github.com/teslashibe/termcam/pkg/render"
)

// Server is the dashboard server.
type Server struct {
	app  *fiber.App
	port string

	cfg      config.Config
	captures func() capture.Status

	statsMu   sync.RWMutex
	lastStats render.Stats

	statsHub  *hub.Hub
	startedAt time.Time

	// OnSnapshot persists the currently displayed grid and returns the
	// written file path.
	OnSnapshot func() (string, error)
}

// NewServer creates a dashboard server. captureStatus supplies the
// supervisor's live status snapshot.
func NewServer(port string, cfg config.Config, captureStatus func() capture.Status) *Server {
	s := &Server{
		port:      port,
		cfg:       cfg,
		captures:  captureStatus,
		statsHub:  hub.New("stats"),
		startedAt: time.Now(),
	}

	app := fiber.New(fiber.Config{
		AppName:               "termcam dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/config", s.handleConfig)
	api.Post("/snapshot", s.handleSnapshot)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/stats", websocket.New(s.handleStatsWS))

	s.app = app
	return s
}

// Start starts the web server and blocks.
func (s *Server) Start() error {
	log.Info("stats dashboard listening", "addr", "http://localhost:"+s.port)
	go s.statsHub.Run()
	return s.app.Listen(":" + s.port)
}

// StartAsync starts the web server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("web server error", "err", err)
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// PushStats records the latest scheduler report and broadcasts it to
// websocket clients.
func (s *Server) PushStats(stats render.Stats) {
	s.statsMu.Lock()
	s.lastStats = stats
	s.statsMu.Unlock()

	if err := s.statsHub.BroadcastJSON(stats); err != nil {
		log.Warn("stats broadcast failed", "err", err)
	}
}
