// Ada display server - emotional particle renderer
// Streams JPEG frames to belly displays and accepts control commands
package main

import (
	"context"
	"errors"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teslashibe/go-ada/internal/config"
	"github.com/teslashibe/go-ada/internal/log"
	"github.com/teslashibe/go-ada/pkg/display"
	"github.com/teslashibe/go-ada/pkg/particle"
	"github.com/teslashibe/go-ada/pkg/render"
	"github.com/teslashibe/go-ada/pkg/stream"
)

func main() {
	cfg := parseFlags()
	log.Init(cfg.LogLevel)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	field := particle.NewField(cfg.Width, cfg.Height, rand.New(rand.NewSource(seed)))
	field.PopulateStartup(particle.DefaultConfig())

	renderer := render.New(cfg.Width, cfg.Height, rand.New(rand.NewSource(seed+1)))
	renderer.SetQuality(cfg.Quality)
	renderer.SetGlow(cfg.Glow)

	sched := stream.New(field, renderer, cfg.FPS)
	server := display.NewServer(cfg.Port, sched)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	server.StartAsync()
	log.Info("ada display ready",
		"port", cfg.Port,
		"canvas", cfg.Width,
		"fps", cfg.FPS,
		"quality", cfg.Quality,
	)

	err := sched.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("scheduler stopped", "error", err)
	}

	if err := server.Shutdown(); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	log.Info("ada display stopped")
}

// parseFlags merges the config file, environment and command line.
func parseFlags() config.Config {
	configPath := flag.String("config", "ada.yaml", "Path to YAML config file")
	port := flag.String("port", "", "Listen port (overrides config)")
	fps := flag.Int("fps", 0, "Stream frame rate (overrides config)")
	quality := flag.Int("quality", 0, "JPEG quality (overrides config)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Init("info")
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if *port != "" {
		cfg.Port = *port
	}
	if *fps != 0 {
		cfg.FPS = *fps
	}
	if *quality != 0 {
		cfg.Quality = *quality
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		log.Init("info")
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}
