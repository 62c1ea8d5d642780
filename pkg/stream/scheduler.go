// Package stream drives the particle simulation at a fixed cadence and
// fans rendered JPEG frames out to connected displays over websockets.
//
// All simulation state is owned by the scheduler goroutine. External
// callers interact through command closures and never touch the field or
// configs directly, so the hot path needs no locks.
package stream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-ada/internal/log"
	"github.com/teslashibe/go-ada/pkg/particle"
	"github.com/teslashibe/go-ada/pkg/pattern"
	"github.com/teslashibe/go-ada/pkg/protocol"
)

const (
	// MinFPS and MaxFPS bound the streaming frame rate
	MinFPS = 1
	MaxFPS = 30

	// DefaultFPS is the frame rate used when none is configured
	DefaultFPS = 30

	// maxDT caps the simulation step after stalls so physics stays stable
	maxDT = 0.1

	// patternSize is the edge length of generated pattern images
	patternSize = 128

	// reportInterval is how often throughput is logged while streaming
	reportInterval = 10 * time.Second
)

// FrameRenderer turns the current field state into an encoded frame.
// *render.Renderer satisfies this.
type FrameRenderer interface {
	Render(f *particle.Field, cfg particle.Config) ([]byte, error)
	SetQuality(q int)
	Quality() int
}

// Scheduler owns the particle field and runs the render loop. Streaming
// is demand-driven: the loop ticks only while at least one display is
// connected and sits idle otherwise.
type Scheduler struct {
	field    *particle.Field
	renderer FrameRenderer

	current particle.Config
	target  particle.Config
	emotion particle.EmotionalState
	fps     int

	clients map[*Client]bool
	cmds    chan func()
	join    chan *Client
	leave   chan *Client

	statusMu sync.RWMutex
	status   protocol.StatusData

	lastTick time.Time

	// throughput counters, reset every reportInterval
	frames   int
	frameLen int64
	reportAt time.Time
}

// New creates a scheduler around an existing field and renderer.
func New(field *particle.Field, renderer FrameRenderer, fps int) *Scheduler {
	cfg := particle.DefaultConfig()
	s := &Scheduler{
		field:    field,
		renderer: renderer,
		current:  cfg,
		target:   cfg,
		emotion:  particle.EmotionalState{Mode: particle.ModeIdle},
		fps:      clampFPS(fps),
		clients:  make(map[*Client]bool),
		cmds:     make(chan func(), 64),
		join:     make(chan *Client, 16),
		leave:    make(chan *Client, 16),
	}
	s.publishStatus(false)
	return s
}

// Run executes the scheduler loop until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.lastTick = time.Now()
	s.reportAt = time.Now()

	for {
		if len(s.clients) == 0 {
			select {
			case <-ctx.Done():
				s.closeAll()
				return ctx.Err()
			case fn := <-s.cmds:
				fn()
				s.publishStatus(false)
			case c := <-s.join:
				s.addClient(c)
			case c := <-s.leave:
				s.removeClient(c)
			}
			continue
		}

		tickStart := time.Now()
		dt := tickStart.Sub(s.lastTick).Seconds()
		if dt > maxDT {
			dt = maxDT
		}
		s.lastTick = tickStart

		s.drainControl()

		s.current.StepToward(s.target, dt)
		s.field.Update(dt, s.current)

		frame, err := s.renderer.Render(s.field, s.current)
		if err != nil {
			// Skip the frame but keep pacing; displays hold the last
			// frame they received
			log.Error("frame render failed", "error", err)
		} else {
			s.fanOut(frame)
		}

		s.publishStatus(true)
		s.maybeReport(tickStart)

		interval := time.Second / time.Duration(s.fps)
		if sleep := interval - time.Since(tickStart); sleep > 0 {
			select {
			case <-ctx.Done():
				s.closeAll()
				return ctx.Err()
			case <-time.After(sleep):
			}
		} else if ctx.Err() != nil {
			s.closeAll()
			return ctx.Err()
		}
	}
}

// ServeDisplay registers the connection and pumps frames to it.
// Blocks until the connection closes. Call from the websocket handler.
func (s *Scheduler) ServeDisplay(conn *websocket.Conn) {
	c := newClient(s, conn)
	s.join <- c
	c.Run()
}

// =============================================================================
// Commands
//
// Each command is queued as a closure and applied by the scheduler
// goroutine between ticks, never mid-frame.
// =============================================================================

// SetEmotion merges the update into the emotional state and retargets the
// particle config. Nil fields keep their previous value.
func (s *Scheduler) SetEmotion(data protocol.EmotionData) error {
	if data.Mode != "" && !particle.Mode(data.Mode).Valid() {
		return fmt.Errorf("invalid mode %q", data.Mode)
	}
	s.enqueue(func() {
		if data.Valence != nil {
			s.emotion.Valence = *data.Valence
		}
		if data.Arousal != nil {
			s.emotion.Arousal = *data.Arousal
		}
		if data.Certainty != nil {
			s.emotion.Certainty = *data.Certainty
		}
		if data.Mode != "" {
			s.emotion.Mode = particle.Mode(data.Mode)
		}
		s.emotion = s.emotion.Clamp()
		s.target = particle.MapEmotion(s.emotion)
	})
	return nil
}

// SetMode changes the conversational mode, keeping valence, arousal and
// certainty as they are.
func (s *Scheduler) SetMode(mode string) error {
	return s.SetEmotion(protocol.EmotionData{Mode: mode})
}

// ApplyConfig overrides target config fields directly, bypassing the
// emotion mapping until the next emotional state update.
func (s *Scheduler) ApplyConfig(patch protocol.ConfigPatch) {
	s.enqueue(func() {
		patch.Apply(&s.target)
	})
}

// LoadPattern repopulates the field from a built-in pattern.
func (s *Scheduler) LoadPattern(name string) error {
	gen, err := pattern.Get(name)
	if err != nil {
		return err
	}
	s.enqueue(func() {
		rgb := gen(patternSize, patternSize)
		n := s.field.PopulateImage(rgb, patternSize, patternSize, s.target)
		log.Info("pattern loaded", "name", name, "particles", n)
	})
	return nil
}

// UploadImage repopulates the field from raw RGB bytes.
func (s *Scheduler) UploadImage(width, height int, rgb []byte) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid image dimensions %dx%d", width, height)
	}
	s.enqueue(func() {
		n := s.field.PopulateImage(rgb, width, height, s.target)
		log.Info("image loaded", "width", width, "height", height, "particles", n)
	})
	return nil
}

// Clear fades the field out.
func (s *Scheduler) Clear() {
	s.enqueue(func() {
		s.field.Clear()
	})
}

// SetFPS changes the streaming frame rate, clamped to [MinFPS, MaxFPS].
func (s *Scheduler) SetFPS(fps int) {
	s.enqueue(func() {
		s.fps = clampFPS(fps)
	})
}

// SetQuality changes the JPEG encode quality.
func (s *Scheduler) SetQuality(quality int) {
	s.enqueue(func() {
		s.renderer.SetQuality(quality)
	})
}

// Status returns the most recent state snapshot.
func (s *Scheduler) Status() protocol.StatusData {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

// ClientCount returns the number of connected displays.
func (s *Scheduler) ClientCount() int {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status.Clients
}

func (s *Scheduler) enqueue(fn func()) {
	select {
	case s.cmds <- fn:
	default:
		log.Warn("command queue full, dropping command")
	}
}

// =============================================================================
// Loop internals (scheduler goroutine only)
// =============================================================================

// drainControl applies any pending commands and membership changes
// without blocking the frame cadence.
func (s *Scheduler) drainControl() {
	for {
		select {
		case fn := <-s.cmds:
			fn()
		case c := <-s.join:
			s.addClient(c)
		case c := <-s.leave:
			s.removeClient(c)
		default:
			return
		}
	}
}

func (s *Scheduler) addClient(c *Client) {
	s.clients[c] = true

	// Give a freshly connected display something to show
	if !s.field.HasImage() && !s.field.Clearing() {
		rgb := pattern.Default(patternSize, patternSize)
		s.field.PopulateImage(rgb, patternSize, patternSize, s.target)
	}

	// Reset pacing so the first frame ships immediately
	s.lastTick = time.Now()
	s.publishStatus(true)
	log.Info("display connected", "id", c.id, "clients", len(s.clients))
}

func (s *Scheduler) removeClient(c *Client) {
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.send)
	s.publishStatus(len(s.clients) > 0)
	log.Info("display disconnected", "id", c.id, "clients", len(s.clients))
}

func (s *Scheduler) fanOut(frame []byte) {
	for c := range s.clients {
		select {
		case c.send <- frame:
		default:
			// Client's buffer is full - they're too slow to keep up
			delete(s.clients, c)
			close(c.send)
			log.Warn("dropping slow display client", "id", c.id, "clients", len(s.clients))
		}
	}
	s.frames++
	s.frameLen += int64(len(frame))
}

func (s *Scheduler) closeAll() {
	for c := range s.clients {
		delete(s.clients, c)
		close(c.send)
	}
	s.publishStatus(false)
}

func (s *Scheduler) publishStatus(streaming bool) {
	snapshot := protocol.StatusData{
		Streaming:     streaming,
		Clients:       len(s.clients),
		ParticleCount: s.field.Len(),
		FPS:           s.fps,
		Quality:       s.renderer.Quality(),
		Emotion:       s.emotion,
		Current:       s.current,
		Target:        s.target,
	}

	s.statusMu.Lock()
	s.status = snapshot
	s.statusMu.Unlock()
}

func (s *Scheduler) maybeReport(now time.Time) {
	elapsed := now.Sub(s.reportAt)
	if elapsed < reportInterval {
		return
	}

	avgFrame := int64(0)
	if s.frames > 0 {
		avgFrame = s.frameLen / int64(s.frames)
	}
	log.Info("stream report",
		"fps", float64(s.frames)/elapsed.Seconds(),
		"avg_frame_bytes", avgFrame,
		"particles", s.field.Len(),
		"clients", len(s.clients),
	)

	s.frames = 0
	s.frameLen = 0
	s.reportAt = now
}

func clampFPS(fps int) int {
	if fps < MinFPS {
		return MinFPS
	}
	if fps > MaxFPS {
		return MaxFPS
	}
	return fps
}
