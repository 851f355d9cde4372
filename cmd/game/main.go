package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/tomz197/invaders/internal/audio"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/loop"
	"github.com/tomz197/invaders/internal/loop/client"
	"github.com/tomz197/invaders/internal/loop/server"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// stdout is the game screen, so logs only go to a file when asked for
	logger := log.New(io.Discard)
	if path := config.GetEnv("INVADERS_LOG", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger = config.NewLogger(f, "invaders")
	}

	tuning, err := config.TuningFromEnv()
	if err != nil {
		return err
	}

	var sink loop.AudioSink = audio.Nop{}
	sm := audio.NewSoundManager()
	if err := sm.Initialize(); err != nil {
		logger.Warn("audio unavailable, continuing silently", "err", err)
	} else {
		defer sm.Cleanup()
		sink = sm
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := client.NewClient(server.NewServer(logger), bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Username: config.GetEnv("USER", "player"),
		Tuning:   &tuning,
		Audio:    sink,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	return c.Run(ctx)
}
