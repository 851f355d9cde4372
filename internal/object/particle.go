package object

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/tomz197/invaders/internal/physics"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived visual effect.
type Particle struct {
	Pos         physics.Vec3
	Vel         physics.Vec3
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64 // Initial lifetime (for fade calculation)
	Drag        float64 // Velocity decay (1.0 = no drag)
	Tint        Color
}

// NewParticle creates a single particle from the pool.
func NewParticle(pos, vel physics.Vec3, lifetime float64, tint Color) *Particle {
	p := particlePool.Get().(*Particle)
	p.Pos = pos
	p.Vel = vel
	p.Lifetime = lifetime
	p.MaxLifetime = lifetime
	p.Drag = 0.92
	p.Tint = tint
	return p
}

// Release returns the particle to the pool for reuse.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// SpawnExplosion creates particles in a spherical burst around pos.
func SpawnExplosion(rng *rand.Rand, pos physics.Vec3, count int, speed, lifetime float64, tint Color) []*Particle {
	out := make([]*Particle, 0, count)
	for i := 0; i < count; i++ {
		// Random direction on the unit sphere
		theta := rng.Float64() * 2 * math.Pi
		z := rng.Float64()*2 - 1
		r := math.Sqrt(1 - z*z)
		dir := physics.Vec3{X: r * math.Cos(theta), Y: r * math.Sin(theta), Z: z}

		// Speed 50% to 150%, lifetime 50% to 100%
		spd := speed * (0.5 + rng.Float64())
		life := lifetime * (0.5 + rng.Float64()*0.5)

		out = append(out, NewParticle(pos, dir.Scale(spd), life, tint))
	}
	return out
}

// Update moves the particle. Returns true once it has burnt out.
func (p *Particle) Update(dt time.Duration) bool {
	secs := dt.Seconds()

	p.Lifetime -= secs
	if p.Lifetime <= 0 {
		return true
	}

	dragFactor := math.Pow(p.Drag, secs*60) // Normalize drag to ~60fps
	p.Vel = p.Vel.Scale(dragFactor)
	p.Pos = p.Pos.Add(p.Vel.Scale(secs))
	return false
}

// Faded reports whether the particle is in the last quarter of its life.
func (p *Particle) Faded() bool {
	return p.MaxLifetime > 0 && p.Lifetime/p.MaxLifetime < 0.25
}

// Draw renders the particle as a pixel on the canvas.
func (p *Particle) Draw(ctx DrawContext) error {
	if p.Faded() {
		return nil
	}
	if x, y, _, ok := ctx.Camera.Project(p.Pos, ctx.View); ok {
		ctx.Canvas.SetFloat(x, y)
	}
	return nil
}
