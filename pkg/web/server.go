// Package web provides the live dashboard and control API for squatcam.
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/squatcam/internal/log"
	"github.com/teslashibe/squatcam/pkg/hub"
	"github.com/teslashibe/squatcam/pkg/session"
)

// Server exposes the REST/websocket surface and doubles as the
// session's event sink: counting events fan out to every connected
// dashboard client.
type Server struct {
	app  *fiber.App
	addr string

	sess *session.Session

	eventHub  *hub.Hub
	cameraHub *hub.Hub
}

// NewServer creates the dashboard server. The session is attached
// separately (SetSession) because the session needs the server as its
// emitter.
func NewServer(addr string) *Server {
	s := &Server{
		addr:      addr,
		eventHub:  hub.New("events"),
		cameraHub: hub.New("camera"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "squatcam",
		DisableStartupMessage: true,
	})

	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Post("/session/start", s.handleStart)
	api.Post("/session/stop", s.handleStop)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events", websocket.New(s.handleEventsWS))
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))

	app.Static("/", "./web")

	s.app = app
	return s
}

// SetSession attaches the counting session controlled by the API.
func (s *Server) SetSession(sess *session.Session) {
	s.sess = sess
}

// Start runs the hubs and listens. Blocks until shutdown.
func (s *Server) Start() error {
	go s.eventHub.Run()
	go s.cameraHub.Run()

	log.Info("dashboard listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// StartAsync runs Start in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("web server failed", "error", err)
		}
	}()
}

// Shutdown gracefully stops the listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// eventEnvelope is the JSON wrapper sent on /ws/events.
type eventEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Emit implements session.Emitter: fire-and-forget fan-out to dashboard
// clients.
func (s *Server) Emit(event string, payload any) {
	if err := s.eventHub.BroadcastJSON(eventEnvelope{Event: event, Data: payload}); err != nil {
		log.Warn("encoding event", "event", event, "error", err)
	}
}

// Frame implements session.FrameSink: JPEG preview frames for the
// dashboard.
func (s *Server) Frame(jpeg []byte) {
	s.cameraHub.BroadcastBinary(jpeg)
}

func (s *Server) handleEventsWS(c *websocket.Conn) {
	hub.NewClient(s.eventHub, c).Run()
}

func (s *Server) handleCameraWS(c *websocket.Conn) {
	hub.NewClient(s.cameraHub, c).Run()
}
