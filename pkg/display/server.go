// Package display exposes the particle stream over HTTP and websockets.
// Displays subscribe to /ws/display for JPEG frames; controllers drive
// the simulation through /ws/control with JSON command messages.
package display

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	wsv2 "github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-ada/internal/log"
	"github.com/teslashibe/go-ada/pkg/pattern"
	"github.com/teslashibe/go-ada/pkg/protocol"
	"github.com/teslashibe/go-ada/pkg/stream"
)

// Server is the display-facing HTTP and websocket server.
type Server struct {
	app   *fiber.App
	port  string
	sched *stream.Scheduler
}

// NewServer wires the routes around a scheduler.
func NewServer(port string, sched *stream.Scheduler) *Server {
	s := &Server{
		port:  port,
		sched: sched,
	}

	app := fiber.New(fiber.Config{
		AppName:               "Ada Display",
		DisableStartupMessage: true,
	})

	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/patterns", s.handlePatterns)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if wsv2.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/display", wsv2.New(s.handleDisplay))
	app.Get("/ws/control", websocket.New(s.handleControl))

	s.app = app
	return s
}

// Start starts the server and blocks.
func (s *Server) Start() error {
	log.Info("display server listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("display server stopped", "error", err)
		}
	}()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// handleStatus returns the current stream snapshot
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.sched.Status())
}

// handlePatterns lists the built-in pattern names
func (s *Server) handlePatterns(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"patterns": pattern.Names(),
		"default":  pattern.DefaultName,
	})
}

// handleDisplay registers the connection as a frame consumer.
// Blocks for the lifetime of the connection.
func (s *Server) handleDisplay(c *wsv2.Conn) {
	s.sched.ServeDisplay(c)
}

// handleControl processes command messages from a controller. A status
// snapshot is sent on connect and after every get_status request.
func (s *Server) handleControl(c *websocket.Conn) {
	if err := s.sendStatus(c); err != nil {
		return
	}

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			return
		}

		msg, err := protocol.ParseMessage(data)
		if err != nil {
			log.Warn("malformed control message", "error", err)
			continue
		}

		s.dispatch(c, msg)
	}
}

func (s *Server) dispatch(c *websocket.Conn, msg *protocol.Message) {
	switch msg.Type {
	case protocol.TypeSetConfig:
		patch, err := msg.GetConfigPatch()
		if err != nil {
			log.Warn("bad set_config payload", "error", err)
			return
		}
		s.sched.ApplyConfig(*patch)

	case protocol.TypeSetEmotion:
		emotion, err := msg.GetEmotionData()
		if err != nil {
			log.Warn("bad set_emotion payload", "error", err)
			return
		}
		if err := s.sched.SetEmotion(*emotion); err != nil {
			log.Warn("set_emotion rejected", "error", err)
		}

	case protocol.TypeSetMode:
		mode, err := msg.GetModeData()
		if err != nil {
			log.Warn("bad set_mode payload", "error", err)
			return
		}
		if err := s.sched.SetMode(mode.Mode); err != nil {
			log.Warn("set_mode rejected", "error", err)
		}

	case protocol.TypeLoadPattern:
		pat, err := msg.GetPatternData()
		if err != nil {
			log.Warn("bad load_pattern payload", "error", err)
			return
		}
		if err := s.sched.LoadPattern(pat.Name); err != nil {
			log.Warn("load_pattern rejected", "name", pat.Name, "error", err)
		}

	case protocol.TypeUploadImage:
		img, err := msg.GetImageData()
		if err != nil {
			log.Warn("bad upload_image payload", "error", err)
			return
		}
		rgb, err := img.DecodeImageData()
		if err != nil {
			log.Warn("bad upload_image encoding", "error", err)
			return
		}
		if err := s.sched.UploadImage(img.Width, img.Height, rgb); err != nil {
			log.Warn("upload_image rejected", "error", err)
		}

	case protocol.TypeClear:
		s.sched.Clear()

	case protocol.TypeSetFPS:
		fps, err := msg.GetFPSData()
		if err != nil {
			log.Warn("bad set_fps payload", "error", err)
			return
		}
		s.sched.SetFPS(fps.FPS)

	case protocol.TypeSetQuality:
		quality, err := msg.GetQualityData()
		if err != nil {
			log.Warn("bad set_quality payload", "error", err)
			return
		}
		s.sched.SetQuality(quality.Quality)

	case protocol.TypeGetStatus:
		if err := s.sendStatus(c); err != nil {
			log.Warn("status reply failed", "error", err)
		}

	case protocol.TypePing:
		pong, err := protocol.NewPongMessage()
		if err != nil {
			return
		}
		if err := s.writeMessage(c, pong); err != nil {
			log.Warn("pong reply failed", "error", err)
		}

	default:
		log.Warn("unknown control message", "type", msg.Type)
	}
}

func (s *Server) sendStatus(c *websocket.Conn) error {
	msg, err := protocol.NewStatusMessage(s.sched.Status())
	if err != nil {
		return err
	}
	return s.writeMessage(c, msg)
}

func (s *Server) writeMessage(c *websocket.Conn, msg *protocol.Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}
	return c.WriteMessage(websocket.TextMessage, data)
}
