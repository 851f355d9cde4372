package loop

import "github.com/tomz197/invaders/internal/physics"

// Popup describes where a score gain should be displayed.
type Popup struct {
	Points     int // Points gained by this hit (after the multiplier)
	Multiplier int
	X, Y       float64 // Screen position in the projector's coordinates
	OnScreen   bool    // False when no projector is set or the hit is off-view
}

// Presenter receives everything the player should see. Calls are made from
// inside Tick, Start, Fire or Boot on the caller's goroutine.
type Presenter interface {
	Score(total int, popup Popup)
	Wave(n int)
	LifeLost(lives int)
	Combo(count int)
	GameOver(summary Summary)
	StartupFailed(err error)
}

// NopPresenter ignores every notification.
type NopPresenter struct{}

func (NopPresenter) Score(int, Popup) {}
func (NopPresenter) Wave(int) {}
func (NopPresenter) LifeLost(int) {}
func (NopPresenter) Combo(int) {}
func (NopPresenter) GameOver(Summary) {}
func (NopPresenter) StartupFailed(error) {}

// Compile-time check that NopPresenter implements Presenter.
var _ Presenter = NopPresenter{}

// Cue names a sound effect.
type Cue string

const (
	CueShoot        Cue = "shoot"
	CueExplosion    Cue = "explosion"
	CueHit          Cue = "hit"
	CueGameOver     Cue = "gameOver"
	CueWaveComplete Cue = "waveComplete"
)

// AudioSink plays cues. Play must not block the tick.
type AudioSink interface {
	Play(cue Cue)
}

// Projector converts world positions to screen coordinates for popups.
type Projector interface {
	Project(p physics.Vec3) (x, y float64, ok bool)
}

// ProjectorFunc adapts a function to Projector.
type ProjectorFunc func(p physics.Vec3) (x, y float64, ok bool)

// Project implements Projector.
func (f ProjectorFunc) Project(p physics.Vec3) (float64, float64, bool) {
	return f(p)
}
