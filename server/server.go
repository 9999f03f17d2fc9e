package server

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twilio/twilio-go/twiml"
	"go.uber.org/zap"

	"github.com/mrsingh-rishi/call-assist/call"
	"github.com/mrsingh-rishi/call-assist/metrics"
	"github.com/mrsingh-rishi/call-assist/model"
)

//go:generate mockgen -destination=../mocks/server.go -package=mocks github.com/mrsingh-rishi/call-assist/server Placer

// DefaultGreeting is spoken before the beep.
const DefaultGreeting = "Hello, I am your AI button assistant. You can start speaking after the beep."

// Placer places the outbound call for the device button.
type Placer interface {
	Dial(ctx context.Context) (string, error)
}

// LatestReader exposes the most recent pipeline result.
type LatestReader interface {
	Read() model.Latest
}

type Config struct {
	// StreamURL is the wss:// address of the /media endpoint.
	StreamURL string
	Greeting  string
	// ListenWindow is how long the call stays open after the beep.
	ListenWindow time.Duration
}

// Deps are the collaborators behind the routes.
type Deps struct {
	Placer   Placer
	Latest   LatestReader
	Registry *call.Registry
	Starter  call.Starter
	Gatherer prometheus.Gatherer
	Logger   *zap.SugaredLogger
	Metrics  *metrics.Metrics
}

type Server struct {
	app  *fiber.App
	cfg  Config
	deps Deps
}

func New(cfg Config, deps Deps) *Server {
	if cfg.Greeting == "" {
		cfg.Greeting = DefaultGreeting
	}
	if cfg.ListenWindow <= 0 {
		cfg.ListenWindow = 60 * time.Second
	}

	s := &Server{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
		}),
		cfg:  cfg,
		deps: deps,
	}
	s.routes()
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) routes() {
	s.app.Use(recover.New())

	s.app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Backend is alive")
	})

	s.app.Post("/button", s.handleButton)

	s.app.Post("/voice", s.handleVoice)
	s.app.Get("/voice", s.handleVoice)

	s.app.Get("/latest-answer", func(c *fiber.Ctx) error {
		return c.JSON(s.deps.Latest.Read())
	})

	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{})))

	// Middleware to require WebSocket upgrade on /media
	s.app.Use("/media", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	s.app.Get("/media", websocket.New(func(conn *websocket.Conn) {
		defer conn.Close()
		s.deps.Logger.Info("🔗 Media stream connected")
		call.NewCollector(s.deps.Registry, s.deps.Starter, s.deps.Logger, s.deps.Metrics).Serve(conn)
		s.deps.Logger.Info("❌ Media WS closed")
	}))
}

func (s *Server) handleButton(c *fiber.Ctx) error {
	s.deps.Logger.Info("🔘 Button pressed, placing call")

	sid, err := s.deps.Placer.Dial(c.UserContext())
	if err != nil {
		s.deps.Logger.Errorw("Error placing call", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to place call"})
	}
	return c.JSON(fiber.Map{"ok": true, "callSid": sid})
}

func (s *Server) handleVoice(c *fiber.Ctx) error {
	body, err := s.voiceTwiML()
	if err != nil {
		s.deps.Logger.Errorw("Failed to render TwiML", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	c.Type("xml")
	return c.SendString(body)
}

// voiceTwiML starts a one-way media stream, greets the caller and keeps the
// call open for the listen window.
func (s *Server) voiceTwiML() (string, error) {
	window := strconv.Itoa(int(s.cfg.ListenWindow / time.Second))
	return twiml.Voice([]twiml.Element{
		&twiml.VoiceStart{
			InnerElements: []twiml.Element{
				&twiml.VoiceStream{Url: s.cfg.StreamURL},
			},
		},
		&twiml.VoiceSay{Message: s.cfg.Greeting},
		&twiml.VoicePause{Length: "1"},
		&twiml.VoiceSay{Message: "Beep."},
		&twiml.VoicePause{Length: window},
	})
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Serve serves on an existing listener until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	return s.app.Listener(ln)
}

// Shutdown stops accepting connections and waits up to timeout for open
// requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	return s.app.ShutdownWithTimeout(timeout)
}
