package object

import (
	"math"
	"math/rand"
	"time"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/physics"
)

// Status is the outcome of one formation update.
type Status int

const (
	StatusAdvancing Status = iota // Moved without incident
	StatusReversed                // Hit a sweep limit: reversed and dropped
	StatusGrounded                // Reached the ground or exhausted its descents
)

func (s Status) String() string {
	switch s {
	case StatusReversed:
		return "reversed"
	case StatusGrounded:
		return "grounded"
	default:
		return "advancing"
	}
}

// Formation is the grid of aliens of the current wave, moving as one group.
// Aliens live in a flat row-major arena and are never removed from it; a kill
// only clears the alive flag.
type Formation struct {
	cfg    config.FormationTuning
	origin physics.Vec3
	assets AssetProvider
	rng    *rand.Rand

	aliens    []Alien
	live      []*Alien // Reused by Live()
	liveCount int

	wave      int
	direction float64      // +1 right, -1 left
	waveSpeed float64      // Base speed scaled by wave difficulty
	ramp      float64      // Product of SpeedRamp over all reversals
	speed     float64      // Current sweep speed (units/sec)
	offset    physics.Vec3 // Group offset shared by every alien
	travel    float64      // Horizontal distance covered since the last descent
	descents  int
	elapsed   float64 // Seconds since spawn, drives the cosmetic wobble
}

// NewFormation creates an empty formation. Call Spawn to populate it.
// A nil assets uses NopAssets; a nil rng is seeded from the clock.
func NewFormation(cfg config.FormationTuning, assets AssetProvider, rng *rand.Rand) *Formation {
	if assets == nil {
		assets = NopAssets
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	f := &Formation{
		cfg:    cfg,
		origin: physics.Vec3{X: cfg.OriginX, Y: cfg.OriginY, Z: cfg.OriginZ},
		assets: assets,
		rng:    rng,
	}
	f.reset()
	return f
}

// Spawn releases the current wave and builds a fresh grid for the given wave number.
func (f *Formation) Spawn(wave int) {
	f.Clear()
	if wave < 1 {
		wave = 1
	}

	rows, cols := f.cfg.Rows, f.cfg.Cols
	width := float64(cols-1) * f.cfg.SpacingX
	height := float64(rows-1) * f.cfg.SpacingY

	f.aliens = make([]Alien, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			tier := TierForRow(r)
			a := &f.aliens[r*cols+c]
			a.Row = r
			a.Col = c
			a.tier = tier
			a.points = tier.Points()
			a.phase = f.rng.Float64() * 2 * math.Pi
			a.local = physics.Vec3{
				X: -width/2 + float64(c)*f.cfg.SpacingX,
				Y: height/2 - float64(r)*f.cfg.SpacingY,
			}
			a.pos = f.origin.Add(a.local)
			a.alive = true
			a.handle = f.assets.CreateEntity(tier, f.cfg.Scale)
			a.handle.SetTransform(a.pos, 0)
			a.handle.SetVisible(true)
		}
	}

	f.liveCount = len(f.aliens)
	f.wave = wave
	f.waveSpeed = f.cfg.BaseSpeed * (1 + f.cfg.WaveSpeedStep*float64(wave-1))
	f.speed = f.waveSpeed
}

// Update advances the formation by dt and reports what happened.
func (f *Formation) Update(dt time.Duration) Status {
	if f.liveCount == 0 {
		return StatusAdvancing
	}
	secs := dt.Seconds()

	dx := f.direction * f.speed * secs
	f.offset.X += dx
	f.travel += math.Abs(dx)
	f.place()

	status := StatusAdvancing
	if f.shouldReverse() {
		f.reverse()
		status = StatusReversed
	}
	if f.grounded() {
		status = StatusGrounded
	}

	f.animate(secs)
	return status
}

// Destroy kills a live alien and returns its points. Dead or foreign aliens
// yield 0 and change nothing.
func (f *Formation) Destroy(a *Alien) int {
	if a == nil || !a.alive || f.At(a.Row, a.Col) != a {
		return 0
	}
	a.alive = false
	f.liveCount--
	a.handle.SetVisible(false)
	f.assets.CreateDestructionEffect(a.pos, a.tier.Color())
	f.recomputeSpeed()
	return a.points
}

// Live returns the live aliens in row-major order. The slice is reused by the
// next call.
func (f *Formation) Live() []*Alien {
	f.live = f.live[:0]
	for i := range f.aliens {
		if f.aliens[i].alive {
			f.live = append(f.live, &f.aliens[i])
		}
	}
	return f.live
}

// LiveCount returns the number of live aliens.
func (f *Formation) LiveCount() int {
	return f.liveCount
}

// Cleared reports whether every alien of the wave is dead.
func (f *Formation) Cleared() bool {
	return f.liveCount == 0
}

// At returns the alien at (row, col), or nil outside the grid.
func (f *Formation) At(row, col int) *Alien {
	if row < 0 || col < 0 || row >= f.cfg.Rows || col >= f.cfg.Cols || len(f.aliens) == 0 {
		return nil
	}
	return &f.aliens[row*f.cfg.Cols+col]
}

// Direction returns +1 while sweeping right and -1 while sweeping left.
func (f *Formation) Direction() int {
	if f.direction < 0 {
		return -1
	}
	return 1
}

// Speed returns the current sweep speed in units per second.
func (f *Formation) Speed() float64 {
	return f.speed
}

// Descents returns how many times the formation has dropped this wave.
func (f *Formation) Descents() int {
	return f.descents
}

// Wave returns the wave number the formation was spawned for.
func (f *Formation) Wave() int {
	return f.wave
}

// Offset returns the group offset from the layout origin.
func (f *Formation) Offset() physics.Vec3 {
	return f.offset
}

// Clear releases every alien and resets the sweep state. Safe to call repeatedly.
func (f *Formation) Clear() {
	for i := range f.aliens {
		a := &f.aliens[i]
		a.alive = false
		if a.handle != nil {
			a.handle.Release()
			a.handle = nil
		}
	}
	f.aliens = nil
	f.live = f.live[:0]
	f.liveCount = 0
	f.wave = 0
	f.reset()
}

func (f *Formation) reset() {
	f.direction = 1
	f.waveSpeed = 0
	f.ramp = 1
	f.speed = 0
	f.offset = physics.Vec3{}
	f.travel = 0
	f.descents = 0
	f.elapsed = 0
}

// place recomputes every alien's world position from the group offset.
func (f *Formation) place() {
	base := f.origin.Add(f.offset)
	for i := range f.aliens {
		f.aliens[i].pos = base.Add(f.aliens[i].local)
	}
}

func (f *Formation) shouldReverse() bool {
	if f.cfg.Policy == config.PolicyCycle {
		return f.travel >= f.cfg.HorizontalLimit
	}
	minX, maxX := math.Inf(1), math.Inf(-1)
	for i := range f.aliens {
		a := &f.aliens[i]
		if !a.alive {
			continue
		}
		minX = math.Min(minX, a.pos.X)
		maxX = math.Max(maxX, a.pos.X)
	}
	if f.direction > 0 {
		return maxX > f.cfg.Boundary
	}
	return minX < -f.cfg.Boundary
}

func (f *Formation) reverse() {
	f.direction = -f.direction
	f.offset.Y -= f.cfg.DropDistance
	f.descents++
	f.travel = 0
	f.ramp *= f.cfg.SpeedRamp
	f.recomputeSpeed()
	f.place()
}

func (f *Formation) grounded() bool {
	if f.cfg.Policy == config.PolicyCycle {
		return f.descents >= f.cfg.MaxDescents
	}
	for i := range f.aliens {
		a := &f.aliens[i]
		if a.alive && a.pos.Y < f.cfg.GroundY {
			return true
		}
	}
	return false
}

// recomputeSpeed derives the sweep speed from the reversal ramp and the share
// of the wave already killed. Both only grow, so speed never drops mid-wave.
func (f *Formation) recomputeSpeed() {
	total := len(f.aliens)
	if total == 0 {
		return
	}
	killed := float64(total-f.liveCount) / float64(total)
	f.speed = f.waveSpeed * f.ramp * (1 + f.cfg.KillSpeedBoost*killed)
}

// animate applies the idle wobble to the visuals only. Physical positions
// used for collisions and boundaries are left untouched.
func (f *Formation) animate(secs float64) {
	f.elapsed += secs
	for i := range f.aliens {
		a := &f.aliens[i]
		if !a.alive {
			continue
		}
		w := f.elapsed*f.cfg.WobbleFrequency + a.phase
		bob := physics.Vec3{Y: math.Cos(w) * f.cfg.WobbleBob}
		a.handle.SetTransform(a.pos.Add(bob), math.Sin(w)*f.cfg.WobbleRotation)
	}
}
