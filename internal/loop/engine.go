// Package loop is the game-state engine: it ticks the formation and the
// cannon, turns their results into score, lives and waves, and drives the
// Idle -> Playing -> GameOver state machine.
package loop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/object"
)

// Options configures an Engine. Every field is optional.
type Options struct {
	Tuning    *config.Tuning       // nil uses config.DefaultTuning
	Assets    object.AssetProvider // nil renders nothing
	Presenter Presenter            // nil uses NopPresenter
	Audio     AudioSink            // nil is silent
	Projector Projector            // nil reports popups as off-screen
	Logger    *log.Logger          // nil discards
	Rand      *rand.Rand           // nil is seeded from the clock
}

// Engine owns all core game state. It is not safe for concurrent use: Tick,
// Fire, Start, Stop and Restart must be called from one goroutine.
type Engine struct {
	tuning    config.Tuning
	presenter Presenter
	audio     AudioSink
	projector Projector
	log       *log.Logger

	formation *object.Formation
	cannon    *object.Cannon
	scheduler Scheduler
	combo     Combo
	comboTask *Task
	spawnTask *Task

	phase  Phase
	booted bool
	now    time.Duration // Engine clock, advanced only by Tick

	score int
	lives int
	wave  int
	kills int
}

// NewEngine creates an idle engine. It fails only on invalid tuning.
func NewEngine(opts Options) (*Engine, error) {
	tuning := config.DefaultTuning()
	if opts.Tuning != nil {
		tuning = *opts.Tuning
	}
	if err := tuning.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuning: %w", err)
	}

	presenter := opts.Presenter
	if presenter == nil {
		presenter = NopPresenter{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	e := &Engine{
		tuning:    tuning,
		presenter: presenter,
		audio:     opts.Audio,
		projector: opts.Projector,
		log:       logger,
		formation: object.NewFormation(tuning.Formation, opts.Assets, opts.Rand),
		cannon:    object.NewCannon(tuning.Cannon, nil),
		combo: Combo{
			Timeout:       tuning.Game.ComboTimeout,
			MaxMultiplier: tuning.Game.MaxMultiplier,
		},
		lives: tuning.Game.MaxLives,
		wave:  1,
	}
	return e, nil
}

// Boot opens the viewpoint. The primary facing is tried first and the
// fallback once; if both fail the joined causes are wrapped in ErrStartup,
// reported to the presenter, and the engine stays idle. Calling Boot again
// retries the same sequence.
func (e *Engine) Boot(ctx context.Context, src CameraSource) error {
	if src == nil {
		err := fmt.Errorf("%w: no camera source", ErrStartup)
		e.presenter.StartupFailed(err)
		return err
	}

	vp, primaryErr := src.Open(ctx, FacingEnvironment)
	if primaryErr == nil && vp == nil {
		primaryErr = errors.New("camera source returned no viewpoint")
	}
	if primaryErr != nil {
		e.log.Warn("primary camera unavailable, trying fallback", "facing", FacingEnvironment, "err", primaryErr)

		var fallbackErr error
		vp, fallbackErr = src.Open(ctx, FacingUser)
		if fallbackErr == nil && vp == nil {
			fallbackErr = errors.New("camera source returned no viewpoint")
		}
		if fallbackErr != nil {
			err := fmt.Errorf("%w: %w", ErrStartup, errors.Join(primaryErr, fallbackErr))
			e.log.Error("startup failed", "err", err)
			e.presenter.StartupFailed(err)
			return err
		}
	}

	e.cannon.SetViewpoint(vp)
	e.booted = true
	e.log.Debug("engine booted")
	return nil
}

// Start begins a new game from Idle or GameOver. It is a no-op while playing.
func (e *Engine) Start() error {
	if !e.booted {
		return ErrNotBooted
	}
	if e.phase == PhasePlaying {
		return nil
	}

	e.teardown()
	e.score = 0
	e.kills = 0
	e.lives = e.tuning.Game.MaxLives
	e.wave = 1
	e.phase = PhasePlaying
	e.formation.Spawn(e.wave)

	e.log.Info("game started", "lives", e.lives)
	e.presenter.Wave(e.wave)
	e.presenter.Combo(0)
	return nil
}

// Stop halts the game and returns to Idle. Pending deferred work is cancelled.
func (e *Engine) Stop() {
	if e.phase == PhaseIdle {
		return
	}
	e.phase = PhaseIdle
	e.teardown()
	e.log.Debug("game stopped")
}

// Restart stops the current game and immediately starts a new one.
func (e *Engine) Restart() error {
	e.Stop()
	return e.Start()
}

// Fire shoots from the viewpoint. Reports whether a projectile was spawned.
func (e *Engine) Fire() bool {
	if e.phase != PhasePlaying {
		return false
	}
	if !e.cannon.Fire(e.now) {
		return false
	}
	e.play(CueShoot)
	return true
}

// Tick advances the game by dt. It does nothing unless playing.
func (e *Engine) Tick(dt time.Duration) {
	if e.phase != PhasePlaying || dt < 0 {
		return
	}
	e.now += dt
	e.scheduler.Run(e.now)

	if e.formation.Update(dt) == object.StatusGrounded {
		e.loseLife()
		if e.phase != PhasePlaying {
			return
		}
	}

	for _, target := range e.cannon.Update(e.now, dt, e.formation.Live()) {
		e.award(target)
	}

	if e.formation.Cleared() && e.spawnTask == nil {
		e.completeWave()
	}
}

// award destroys a hit alien and scores it.
func (e *Engine) award(target *object.Alien) {
	points := e.formation.Destroy(target)
	if points == 0 {
		return
	}
	e.kills++
	multiplier := e.combo.Hit(e.now)
	gained := points * multiplier
	e.score += gained

	popup := Popup{Points: gained, Multiplier: multiplier}
	if e.projector != nil {
		popup.X, popup.Y, popup.OnScreen = e.projector.Project(target.Position())
	}
	e.presenter.Score(e.score, popup)
	e.presenter.Combo(e.combo.Count())
	e.play(CueExplosion)

	e.comboTask.Cancel()
	e.comboTask = e.scheduler.After(e.now, e.combo.Timeout, e.expireCombo)
}

func (e *Engine) expireCombo() {
	e.comboTask = nil
	if e.combo.Expire(e.now) {
		e.presenter.Combo(0)
	}
}

// completeWave advances the wave counter and spawns the next formation
// after WaveDelay, unless the game stops first.
func (e *Engine) completeWave() {
	e.wave++
	e.log.Info("wave cleared", "next", e.wave, "score", e.score)
	e.presenter.Wave(e.wave)
	e.play(CueWaveComplete)

	gen := e.scheduler.Generation()
	e.spawnTask = e.scheduler.After(e.now, e.tuning.Game.WaveDelay, func() {
		e.spawnTask = nil
		if e.phase != PhasePlaying || e.scheduler.Generation() != gen {
			return
		}
		e.formation.Spawn(e.wave)
	})
}

// loseLife handles the formation reaching the ground.
func (e *Engine) loseLife() {
	e.lives = max(0, e.lives-1)
	e.log.Info("life lost", "lives", e.lives, "wave", e.wave)
	e.presenter.LifeLost(e.lives)
	e.play(CueHit)

	if e.lives == 0 {
		e.gameOver()
		return
	}
	e.cannon.Clear()
	e.formation.Spawn(e.wave)
}

func (e *Engine) gameOver() {
	e.phase = PhaseGameOver
	e.teardown()

	summary := Summary{Score: e.score, Wave: e.wave, Kills: e.kills}
	e.log.Info("game over", "score", summary.Score, "wave", summary.Wave, "kills", summary.Kills)
	e.play(CueGameOver)
	e.presenter.GameOver(summary)
}

// teardown releases the formation and projectiles and cancels deferred work.
// Safe to call repeatedly.
func (e *Engine) teardown() {
	e.scheduler.Reset()
	e.comboTask = nil
	e.spawnTask = nil
	e.combo.Reset()
	e.cannon.Clear()
	e.formation.Clear()
}

func (e *Engine) play(cue Cue) {
	if e.audio != nil {
		e.audio.Play(cue)
	}
}

// Phase returns the current game state.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Booted reports whether a viewpoint has been opened.
func (e *Engine) Booted() bool {
	return e.booted
}

// Now returns the engine clock.
func (e *Engine) Now() time.Duration {
	return e.now
}

// Stats returns a snapshot of the game counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Phase:       e.phase,
		Score:       e.score,
		Lives:       e.lives,
		Wave:        e.wave,
		Kills:       e.kills,
		Combo:       e.combo.Count(),
		Multiplier:  e.combo.Multiplier(),
		Live:        e.formation.LiveCount(),
		Projectiles: e.cannon.Count(),
	}
}

// Formation exposes the formation for rendering and tests.
func (e *Engine) Formation() *object.Formation {
	return e.formation
}

// Cannon exposes the cannon for rendering and tests.
func (e *Engine) Cannon() *object.Cannon {
	return e.cannon
}

// Tuning returns the parameters the engine runs with.
func (e *Engine) Tuning() config.Tuning {
	return e.tuning
}
