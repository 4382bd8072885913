// Package web provides the dashboard server: status and parameter
// inspection over HTTP plus a live status stream over websocket.
package web

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/avosc/avosc/internal/log"
	"github.com/avosc/avosc/pkg/avatar"
	"github.com/avosc/avosc/pkg/hub"
)

// Status is the dashboard's composed pipeline snapshot.
type Status struct {
	Source      string  `json:"source"`
	Online      bool    `json:"online"`
	Avatar      string  `json:"avatar"`
	Calibration string  `json:"calibration"`
	Slow        bool    `json:"slow"`
	Progress    float64 `json:"progress"`
	Ticks       uint64  `json:"ticks"`
	Skipped     uint64  `json:"skipped"`
	Recv        uint64  `json:"recv"`
	Sent        uint64  `json:"sent"`
	Drops       uint64  `json:"drops"`
	Bound       int     `json:"bound"`
}

// Deps are the pipeline surfaces the dashboard exposes.
type Deps struct {
	Status      func() Status
	Store       *avatar.Store
	Feedback    *avatar.Feedback
	Recalibrate func()
}

// Server is the dashboard server.
type Server struct {
	app  *fiber.App
	addr string
	deps Deps

	statusHub *hub.Hub
}

// NewServer builds the dashboard on addr (host:port or :port).
func NewServer(addr string, deps Deps) *Server {
	s := &Server{
		addr:      addr,
		deps:      deps,
		statusHub: hub.New("status"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "avosc dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	app.Get("/", s.handleIndex)

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/params", s.handleParams)
	api.Post("/recalibrate", s.handleRecalibrate)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	s.app = app
	return s
}

// Run serves until ctx is canceled. The status hub and its broadcast
// feed run alongside the listener.
func (s *Server) Run(ctx context.Context) error {
	go s.statusHub.Run(ctx)
	go s.publishLoop(ctx)

	log.Info("dashboard listening", "addr", s.addr)
	errc := make(chan error, 1)
	go func() { errc <- s.app.Listen(s.addr) }()

	select {
	case <-ctx.Done():
		return s.app.Shutdown()
	case err := <-errc:
		return fmt.Errorf("dashboard listen: %w", err)
	}
}

// publishLoop pushes status snapshots to websocket clients at 2 Hz;
// the hub replays the latest one to clients as they join.
func (s *Server) publishLoop(ctx context.Context) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.deps.Status != nil {
				s.statusHub.Publish(s.deps.Status())
			}
		}
	}
}
