package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/tomz197/invaders/internal/audio"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/loop/client"
	"github.com/tomz197/invaders/internal/loop/server"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"

	drainTimeout    = 15 * time.Second // Players get this long to finish after the notice
	shutdownTimeout = 5 * time.Second
)

func main() {
	logger := config.NewLogger(os.Stderr, "ssh")
	if err := run(logger); err != nil {
		logger.Fatal("arcade stopped", "err", err)
	}
}

func run(logger *log.Logger) error {
	addr := net.JoinHostPort(config.GetEnv("SSH_HOST", defaultHost), config.GetEnv("SSH_PORT", defaultPort))
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)

	tuning, err := config.TuningFromEnv()
	if err != nil {
		return err
	}

	a := &arcade{
		server: server.NewServer(logger.WithPrefix("arcade")),
		tuning: tuning,
		log:    logger,
	}

	opts := []ssh.Option{
		wish.WithAddress(addr),
		wish.WithMiddleware(
			a.play,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Keystrokes are tiny; don't let Nagle batch them
		ssh.WrapConn(func(_ ssh.Context, conn net.Conn) net.Conn {
			if tcp, ok := conn.(*net.TCPConn); ok {
				_ = tcp.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("create ssh server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("arcade open", "addr", addr, "hostKey", hostKeyPath)
		serveErr <- s.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, ssh.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("closing arcade", "players", a.server.Players())
	a.server.Shutdown(drainTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// arcade holds what every SSH session shares: the session registry with its
// leaderboard, and the tuning. Each session runs its own engine.
type arcade struct {
	server *server.Server
	tuning config.Tuning
	log    *log.Logger
}

// play is the wish middleware running one game per session.
func (a *arcade) play(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		defer next(sess)

		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "A terminal is required: connect with ssh -t")
			return
		}
		logger := a.log.With("user", sess.User())
		logger.Info("session started", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		size := &windowSize{width: pty.Window.Width, height: pty.Window.Height}
		go func() {
			for win := range winCh {
				size.set(win.Width, win.Height)
			}
		}()

		c, err := client.NewClient(a.server, bufio.NewReader(sess), sess, client.ClientOptions{
			TermSizeFunc: size.get,
			Username:     sess.User(),
			Tuning:       &a.tuning,
			Audio:        audio.NewBell(sess),
			Logger:       logger,
		})
		if err != nil {
			logger.Error("cannot create client", "err", err)
			return
		}
		if err := c.Run(sess.Context()); err != nil {
			logger.Error("session failed", "err", err)
		}
		logger.Info("session ended")
	}
}

// windowSize follows the PTY size through window-change requests.
type windowSize struct {
	mu            sync.RWMutex
	width, height int
}

func (s *windowSize) set(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
}

func (s *windowSize) get() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}
