package main

import (
	"context"
	"errors"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tomz197/invaders/internal/audio"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/loop"
)

const (
	screenWidth  = 960
	screenHeight = 640
)

func main() {
	logger := config.NewLogger(os.Stderr, "desktop")

	tuning, err := config.TuningFromEnv()
	if err != nil {
		logger.Fatal("failed to load tuning", "err", err)
	}

	var sink loop.AudioSink = audio.Nop{}
	sm := audio.NewSoundManager()
	if err := sm.Initialize(); err != nil {
		logger.Warn("audio unavailable, continuing silently", "err", err)
	} else {
		defer sm.Cleanup()
		sink = sm
	}

	g, err := newGame(&tuning, sink, logger)
	if err != nil {
		logger.Fatal("failed to create game", "err", err)
	}
	// A window has no camera to fail, but the engine still boots through the
	// same startup path as the terminal frontends.
	if err := g.boot(context.Background()); err != nil {
		logger.Fatal("startup failed", "err", err)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Invaders")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatal("game error", "err", err)
	}
}
