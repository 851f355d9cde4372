// Package client runs one player's game in a terminal: it reads keys, drives
// a private engine, and renders the scene and HUD with the half-block canvas.
package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	gameconfig "github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/loop"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/loop/server"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/physics"
)

const noticeSeconds = 4.0

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	engine       *loop.Engine
	scene        *object.Scene
	hud          *hud
	camera       *TerminalCamera
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	log          *log.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Tuning       *gameconfig.Tuning // nil uses the defaults
	Audio        loop.AudioSink     // nil is silent
	Logger       *log.Logger        // nil discards
	Seed         int64              // 0 seeds from the clock
}

// NewClient creates a client registered with the given server.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) (*Client, error) {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	state := NewClientState(object.NewScreen(config.ViewWidth, config.ViewHeight))
	state.termSizeFunc = termSizeFunc

	scene := object.NewScene(rng)
	h := &hud{}
	engine, err := loop.NewEngine(loop.Options{
		Tuning:    opts.Tuning,
		Assets:    scene,
		Presenter: h,
		Audio:     opts.Audio,
		Projector: viewProjector(state.Camera, state.View),
		Logger:    logger,
		Rand:      rng,
	})
	if err != nil {
		return nil, err
	}

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.ViewWidth, config.ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)

	handle := gs.RegisterClient(opts.Username)

	return &Client{
		server:       gs,
		handle:       handle,
		engine:       engine,
		scene:        scene,
		hud:          h,
		camera:       NewTerminalCamera(state.Camera, termSizeFunc),
		state:        state,
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		log:          logger.With("user", handle.Username),
	}, nil
}

// viewProjector maps world positions to logical view coordinates, reporting
// positions outside the view as off-screen.
func viewProjector(cam *object.Camera, view object.Screen) loop.Projector {
	return loop.ProjectorFunc(func(p physics.Vec3) (float64, float64, bool) {
		x, y, _, ok := cam.Project(p, view)
		if !ok || x < 0 || y < 0 || x >= float64(view.Width) || y >= float64(view.Height) {
			return 0, 0, false
		}
		return x, y, true
	})
}

// Run starts the client loop. Blocks until the client quits, the context is
// cancelled, or the server closes the session.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer c.server.UnregisterClient(c.handle.ID)
	defer c.engine.Stop()

	c.boot(ctx)

	lastTime := time.Now()
	for c.state.Running && ctx.Err() == nil {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()
		c.processServerEvents()
		c.updateScreen()

		switch c.state.GameState {
		case GameStateStart:
			c.updateStartState()
		case GameStatePlaying:
			c.updatePlayingState()
		case GameStateOver:
			c.updateOverState()
		case GameStateError:
			c.updateErrorState(ctx)
		case GameStateShutdown:
			c.updateShutdownState()
		}

		c.scene.Update(c.state.delta)
		c.hud.update(c.state.delta.Seconds())

		if err := c.drawFrame(); err != nil {
			return fmt.Errorf("draw frame: %w", err)
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// boot opens the camera, landing on the title screen or the error screen.
func (c *Client) boot(ctx context.Context) {
	if err := c.engine.Boot(ctx, c.camera); err != nil {
		c.state.GameState = GameStateError
		return
	}
	c.hud.startupErr = nil
	c.state.GameState = GameStateStart
}

// processInput reads keys and tracks inactivity.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if len(c.state.Input.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.log.Info("disconnecting inactive player")
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if c.state.Input.Quit || c.state.Input.Closed {
		c.state.Running = false
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventHighScore:
				c.hud.setNotice(fmt.Sprintf("%s placed #%d with %d points", event.Username, event.Rank, event.Score), noticeSeconds)
			case server.EventServerShutdown:
				c.engine.Stop()
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(max(termWidth, 1), config.MaxTermWidth)
	renderHeight = min(max(termHeight, 1), config.MaxTermHeight)
	offsetCol = max(0, (termWidth-renderWidth)/2)
	offsetRow = max(0, (termHeight-renderHeight)/2)
	return
}

// updateStartState handles the title screen.
func (c *Client) updateStartState() {
	if c.state.Input.Fire || c.state.Input.Enter {
		c.startGame()
	}
}

// updatePlayingState steers the camera, fires, and ticks the engine.
func (c *Client) updatePlayingState() {
	in := c.state.Input
	if in.Escape {
		c.engine.Stop()
		c.state.GameState = GameStateStart
		return
	}

	step := config.SteerRate * c.state.delta.Seconds()
	var yaw, pitch float64
	if in.Left {
		yaw -= step
	}
	if in.Right {
		yaw += step
	}
	if in.Up {
		pitch += step
	}
	if in.Down {
		pitch -= step
	}
	c.state.Camera.Steer(yaw, pitch)
	if in.Center {
		c.state.Camera.Reset()
	}
	if in.Fire {
		c.engine.Fire()
	}

	c.engine.Tick(min(c.state.delta, config.MaxFrameDelta))

	if c.hud.consumeGameOver() {
		c.finishGame()
	}
}

// finishGame records the result and shows the summary.
func (c *Client) finishGame() {
	c.state.Rank = c.server.RecordScore(c.handle.ID, c.hud.summary)
	c.state.GameState = GameStateOver
	c.state.restartDelay = config.RestartDelaySeconds
	input.ResetKeyInput(c.inputStream)
}

// updateOverState handles the game over screen.
func (c *Client) updateOverState() {
	c.state.restartDelay = max(0, c.state.restartDelay-c.state.delta.Seconds())
	if c.state.Input.Escape {
		c.engine.Stop()
		c.state.GameState = GameStateStart
		return
	}
	if (c.state.Input.Fire || c.state.Input.Enter) && c.state.restartDelay <= 0 {
		c.startGame()
	}
}

// updateErrorState retries startup on request.
func (c *Client) updateErrorState(ctx context.Context) {
	if c.state.Input.Retry || c.state.Input.Enter {
		input.ResetKeyInput(c.inputStream)
		c.boot(ctx)
	}
}

// startGame starts or restarts the game.
func (c *Client) startGame() {
	input.ResetKeyInput(c.inputStream)
	c.hud.reset(c.engine.Tuning().Game.MaxLives)
	c.state.Camera.Reset()
	c.state.Rank = 0

	if err := c.engine.Start(); err != nil {
		c.log.Error("cannot start game", "err", err)
		c.hud.startupErr = err
		c.state.GameState = GameStateError
		return
	}
	c.state.GameState = GameStatePlaying
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
