package client

import (
	"time"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/object"
)

// GameState represents the current screen for a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Active gameplay
	GameStateOver                      // Lives exhausted, show summary and restart prompt
	GameStateError                     // Camera could not be opened, offer retry
	GameStateShutdown                  // Server is shutting down
)

// ClientState holds per-player presentation state (input, camera, screen).
// Game counters live in the engine and reach the client through the HUD.
type ClientState struct {
	Input         input.Input
	View          object.Screen     // Viewport dimensions
	Camera        *object.Camera    // Steered by arrow keys, fires the cannon
	GameState     GameState         // This client's screen
	prevGameState GameState         // Screen drawn last frame
	Running       bool              // Client loop running
	Rank          int               // Leaderboard rank of the last finished game, 0 if none
	termSizeFunc  draw.TermSizeFunc // Function to get terminal size
	delta         time.Duration     // Frame delta time
	shutdownTimer float64           // Countdown before auto-disconnect on shutdown
	restartDelay  float64           // Seconds until restart keys are accepted
	isInactive    bool              // Whether the client is in inactive warning state
	wasInactive   bool
}

// NewClientState creates a new initialized client state.
func NewClientState(view object.Screen) *ClientState {
	return &ClientState{
		View:          view,
		Camera:        object.NewCamera(),
		GameState:     GameStateStart,
		prevGameState: GameStateStart,
		Running:       true,
	}
}
