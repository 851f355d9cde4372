package loop

// Phase is the top-level game state.
type Phase int

const (
	PhaseIdle     Phase = iota // Not started, stopped, or waiting for startup
	PhasePlaying               // Ticking
	PhaseGameOver              // Lives exhausted, waiting for restart
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "game over"
	default:
		return "idle"
	}
}

// Stats is a read-only snapshot of the game counters.
type Stats struct {
	Phase       Phase
	Score       int
	Lives       int
	Wave        int
	Kills       int
	Combo       int // Hits in the current combo window
	Multiplier  int // Current combo multiplier, the one the latest hit scored with
	Live        int // Live aliens in the formation
	Projectiles int // Projectiles in flight
}

// Summary is reported to the presenter when the game ends.
type Summary struct {
	Score int
	Wave  int
	Kills int
}
