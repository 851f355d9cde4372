package loop_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/loop"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/physics"
)

const frame = 16 * time.Millisecond

// aimer is a viewpoint the tests point straight down -Z at a chosen alien.
type aimer struct {
	pos physics.Vec3
}

func (a *aimer) Position() physics.Vec3 { return a.pos }
func (a *aimer) Forward() physics.Vec3 { return physics.Vec3{Z: -1} }

func (a *aimer) at(target *object.Alien) {
	p := target.Position()
	a.pos = physics.Vec3{X: p.X, Y: p.Y}
}

type recorder struct {
	totals    []int
	popups    []loop.Popup
	waves     []int
	lives     []int
	combos    []int
	summaries []loop.Summary
	failures  []error
}

func (r *recorder) Score(total int, popup loop.Popup) {
	r.totals = append(r.totals, total)
	r.popups = append(r.popups, popup)
}
func (r *recorder) Wave(n int) { r.waves = append(r.waves, n) }
func (r *recorder) LifeLost(lives int) { r.lives = append(r.lives, lives) }
func (r *recorder) Combo(count int) { r.combos = append(r.combos, count) }
func (r *recorder) GameOver(s loop.Summary) { r.summaries = append(r.summaries, s) }
func (r *recorder) StartupFailed(err error) { r.failures = append(r.failures, err) }

type cues []loop.Cue

func (c *cues) Play(cue loop.Cue) { *c = append(*c, cue) }

func (c cues) count(cue loop.Cue) int {
	n := 0
	for _, x := range c {
		if x == cue {
			n++
		}
	}
	return n
}

// stillTuning keeps the formation practically motionless so shots aimed at
// an alien's spawn position land.
func stillTuning() config.Tuning {
	t := config.DefaultTuning()
	t.Formation.BaseSpeed = 1e-6
	t.Formation.WobbleBob = 0
	return t
}

type harness struct {
	engine *loop.Engine
	view   *aimer
	rec    *recorder
	cues   *cues
}

func newHarness(t *testing.T, tuning config.Tuning) *harness {
	t.Helper()
	h := &harness{view: &aimer{}, rec: &recorder{}, cues: &cues{}}
	e, err := loop.NewEngine(loop.Options{
		Tuning:    &tuning,
		Presenter: h.rec,
		Audio:     h.cues,
		Projector: loop.ProjectorFunc(func(p physics.Vec3) (float64, float64, bool) {
			return p.X, p.Y, true
		}),
		Rand: rand.New(rand.NewSource(1)),
	})
	require.NoError(t, err)
	require.NoError(t, e.Boot(context.Background(), loop.StaticCamera(h.view)))
	h.engine = e
	return h
}

// shoot fires at the alien and ticks until the projectile is gone.
func (h *harness) shoot(t *testing.T, target *object.Alien) {
	t.Helper()
	h.view.at(target)
	require.True(t, h.engine.Fire(), "fire should be accepted")
	for i := 0; i < 200 && h.engine.Cannon().Count() > 0; i++ {
		h.engine.Tick(frame)
	}
	require.Zero(t, h.engine.Cannon().Count())
}

func (h *harness) tickFor(d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		h.engine.Tick(frame)
	}
}

func TestEngineStartsIdle(t *testing.T) {
	e, err := loop.NewEngine(loop.Options{})
	require.NoError(t, err)

	assert.Equal(t, loop.PhaseIdle, e.Phase())
	assert.False(t, e.Fire())
	assert.ErrorIs(t, e.Start(), loop.ErrNotBooted)

	e.Tick(frame)
	assert.Zero(t, e.Now())
}

func TestNewEngineRejectsInvalidTuning(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.Game.MaxLives = 0

	_, err := loop.NewEngine(loop.Options{Tuning: &tuning})
	assert.Error(t, err)
}

func TestEngineStart(t *testing.T) {
	h := newHarness(t, config.DefaultTuning())
	require.NoError(t, h.engine.Start())

	s := h.engine.Stats()
	assert.Equal(t, loop.PhasePlaying, s.Phase)
	assert.Equal(t, 3, s.Lives)
	assert.Equal(t, 1, s.Wave)
	assert.Equal(t, 55, s.Live)
	assert.Equal(t, []int{1}, h.rec.waves)

	// Starting again while playing changes nothing
	require.NoError(t, h.engine.Start())
	assert.Equal(t, []int{1}, h.rec.waves)
}

func TestEngineHitScoresTierPoints(t *testing.T) {
	h := newHarness(t, stillTuning())
	require.NoError(t, h.engine.Start())

	target := h.engine.Formation().At(0, 5)
	h.shoot(t, target)

	s := h.engine.Stats()
	assert.False(t, target.Alive())
	assert.Equal(t, 30, s.Score)
	assert.Equal(t, 1, s.Kills)
	assert.Equal(t, 54, s.Live)
	assert.Equal(t, []int{30}, h.rec.totals)
	require.Len(t, h.rec.popups, 1)
	assert.Equal(t, 30, h.rec.popups[0].Points)
	assert.True(t, h.rec.popups[0].OnScreen)
	assert.Equal(t, 1, h.cues.count(loop.CueShoot))
	assert.Equal(t, 1, h.cues.count(loop.CueExplosion))
}

func TestEngineComboMultiplier(t *testing.T) {
	h := newHarness(t, stillTuning())
	require.NoError(t, h.engine.Start())

	f := h.engine.Formation()
	for col := 2; col <= 8; col++ {
		h.shoot(t, f.At(0, col))
	}

	// 30 points each at multipliers 1..5, then capped at 5
	assert.Equal(t, []int{30, 90, 180, 300, 450, 600, 750}, h.rec.totals)
	assert.Equal(t, 7, h.engine.Stats().Combo)
	assert.Equal(t, 5, h.engine.Stats().Multiplier)
}

func TestEngineComboDecay(t *testing.T) {
	h := newHarness(t, stillTuning())
	require.NoError(t, h.engine.Start())

	f := h.engine.Formation()
	h.shoot(t, f.At(0, 4))
	h.shoot(t, f.At(0, 5))
	require.Equal(t, 2, h.engine.Stats().Combo)
	assert.Equal(t, 2, h.engine.Stats().Multiplier)
	assert.Equal(t, h.rec.popups[len(h.rec.popups)-1].Multiplier, h.engine.Stats().Multiplier,
		"stats report the multiplier the latest hit used")

	h.tickFor(2100 * time.Millisecond)
	assert.Zero(t, h.engine.Stats().Combo)
	assert.Equal(t, 1, h.engine.Stats().Multiplier)
	assert.Equal(t, 0, h.rec.combos[len(h.rec.combos)-1], "indicator should drop to zero")

	h.shoot(t, f.At(0, 6))
	assert.Equal(t, []int{30, 90, 120}, h.rec.totals)
	assert.Equal(t, 1, h.engine.Stats().Combo)
}

func TestEngineScoreIsMonotonic(t *testing.T) {
	h := newHarness(t, stillTuning())
	require.NoError(t, h.engine.Start())

	f := h.engine.Formation()
	for _, a := range []*object.Alien{f.At(4, 0), f.At(2, 3), f.At(0, 10), f.At(3, 7)} {
		h.shoot(t, a)
	}

	require.Len(t, h.rec.totals, 4)
	for i := 1; i < len(h.rec.totals); i++ {
		assert.GreaterOrEqual(t, h.rec.totals[i], h.rec.totals[i-1])
	}
}

func singleAlienTuning() config.Tuning {
	t := stillTuning()
	t.Formation.Rows = 1
	t.Formation.Cols = 1
	return t
}

func TestEngineWaveClearSpawnsAfterDelay(t *testing.T) {
	h := newHarness(t, singleAlienTuning())
	require.NoError(t, h.engine.Start())

	h.shoot(t, h.engine.Formation().At(0, 0))

	s := h.engine.Stats()
	assert.Equal(t, 2, s.Wave)
	assert.Zero(t, s.Live)
	assert.Equal(t, []int{1, 2}, h.rec.waves)
	assert.Equal(t, 1, h.cues.count(loop.CueWaveComplete))

	h.tickFor(1200 * time.Millisecond)
	assert.Zero(t, h.engine.Stats().Live, "next wave waits for the delay")

	h.tickFor(500 * time.Millisecond)
	assert.Equal(t, 1, h.engine.Stats().Live)
	assert.Equal(t, 2, h.engine.Formation().Wave())
	assert.Equal(t, []int{1, 2}, h.rec.waves, "wave is announced once")
}

func TestEngineStopCancelsPendingSpawn(t *testing.T) {
	h := newHarness(t, singleAlienTuning())
	require.NoError(t, h.engine.Start())
	h.shoot(t, h.engine.Formation().At(0, 0))
	require.Zero(t, h.engine.Stats().Live)

	h.engine.Stop()
	assert.Equal(t, loop.PhaseIdle, h.engine.Phase())
	assert.Zero(t, h.engine.Stats().Live)

	h.tickFor(3 * time.Second)
	assert.Zero(t, h.engine.Stats().Live, "stopped engine must not spawn")

	require.NoError(t, h.engine.Start())
	h.tickFor(3 * time.Second)
	assert.Equal(t, 1, h.engine.Formation().Wave(), "stale spawn must not replace the new game's wave")
	assert.Equal(t, 1, h.engine.Stats().Wave)
}

func groundedTuning() config.Tuning {
	t := config.DefaultTuning()
	t.Formation.GroundY = 100 // every alien starts below the ground line
	return t
}

func TestEngineLifeLossRespawnsSameWave(t *testing.T) {
	h := newHarness(t, groundedTuning())
	require.NoError(t, h.engine.Start())

	h.view.pos = physics.Vec3{}
	require.True(t, h.engine.Fire())
	require.Equal(t, 1, h.engine.Cannon().Count())

	h.engine.Tick(frame)

	s := h.engine.Stats()
	assert.Equal(t, loop.PhasePlaying, s.Phase)
	assert.Equal(t, 2, s.Lives)
	assert.Equal(t, 1, s.Wave)
	assert.Equal(t, 55, s.Live)
	assert.Zero(t, s.Projectiles, "projectiles are cleared on life loss")
	assert.Equal(t, []int{2}, h.rec.lives)
	assert.Equal(t, 1, h.cues.count(loop.CueHit))
}

func TestEngineGameOver(t *testing.T) {
	h := newHarness(t, groundedTuning())
	require.NoError(t, h.engine.Start())

	for i := 0; i < 3; i++ {
		h.engine.Tick(frame)
	}

	require.Equal(t, loop.PhaseGameOver, h.engine.Phase())
	assert.Equal(t, []int{2, 1, 0}, h.rec.lives)
	require.Len(t, h.rec.summaries, 1)
	assert.Equal(t, loop.Summary{Score: 0, Wave: 1, Kills: 0}, h.rec.summaries[0])
	assert.Equal(t, 1, h.cues.count(loop.CueGameOver))
	assert.Zero(t, h.engine.Stats().Live, "formation is released")

	before := h.engine.Stats()
	now := h.engine.Now()
	for i := 0; i < 10; i++ {
		h.engine.Tick(frame)
	}
	assert.False(t, h.engine.Fire())
	assert.Equal(t, before, h.engine.Stats())
	assert.Equal(t, now, h.engine.Now())
	assert.Len(t, h.rec.summaries, 1)
}

func TestEngineRestartAfterGameOver(t *testing.T) {
	h := newHarness(t, groundedTuning())
	require.NoError(t, h.engine.Start())
	for i := 0; i < 3; i++ {
		h.engine.Tick(frame)
	}
	require.Equal(t, loop.PhaseGameOver, h.engine.Phase())

	require.NoError(t, h.engine.Restart())

	s := h.engine.Stats()
	assert.Equal(t, loop.PhasePlaying, s.Phase)
	assert.Equal(t, 3, s.Lives)
	assert.Equal(t, 1, s.Wave)
	assert.Zero(t, s.Score)
	assert.Equal(t, 55, s.Live)
}

func TestEngineBootFallback(t *testing.T) {
	view := &aimer{}
	primary := errors.New("rear camera busy")

	var tried []loop.Facing
	src := loop.CameraSourceFunc(func(_ context.Context, f loop.Facing) (object.Viewpoint, error) {
		tried = append(tried, f)
		if f == loop.FacingEnvironment {
			return nil, primary
		}
		return view, nil
	})

	rec := &recorder{}
	e, err := loop.NewEngine(loop.Options{Presenter: rec})
	require.NoError(t, err)

	require.NoError(t, e.Boot(context.Background(), src))
	assert.Equal(t, []loop.Facing{loop.FacingEnvironment, loop.FacingUser}, tried)
	assert.True(t, e.Booted())
	assert.Empty(t, rec.failures)
	assert.NoError(t, e.Start())
}

func TestEngineBootFailure(t *testing.T) {
	primary := errors.New("permission denied")
	fallback := errors.New("no such device")

	attempts := 0
	failing := loop.CameraSourceFunc(func(_ context.Context, f loop.Facing) (object.Viewpoint, error) {
		attempts++
		if f == loop.FacingEnvironment {
			return nil, primary
		}
		return nil, fallback
	})

	rec := &recorder{}
	e, err := loop.NewEngine(loop.Options{Presenter: rec})
	require.NoError(t, err)

	err = e.Boot(context.Background(), failing)
	require.Error(t, err)
	assert.ErrorIs(t, err, loop.ErrStartup)
	assert.ErrorIs(t, err, primary)
	assert.ErrorIs(t, err, fallback)
	assert.Equal(t, 2, attempts, "exactly one fallback attempt")
	require.Len(t, rec.failures, 1)
	assert.ErrorIs(t, rec.failures[0], loop.ErrStartup)

	assert.Equal(t, loop.PhaseIdle, e.Phase())
	assert.ErrorIs(t, e.Start(), loop.ErrNotBooted)

	// Retry runs the same sequence again
	require.NoError(t, e.Boot(context.Background(), loop.StaticCamera(&aimer{})))
	assert.NoError(t, e.Start())
}

func TestEngineBootCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e, err := loop.NewEngine(loop.Options{})
	require.NoError(t, err)

	err = e.Boot(ctx, loop.StaticCamera(&aimer{}))
	assert.ErrorIs(t, err, loop.ErrStartup)
	assert.ErrorIs(t, err, context.Canceled)
}
