package object

import (
	"sync"
	"time"

	"github.com/tomz197/invaders/internal/physics"
)

// projectilePool reuses Projectile objects between shots.
var projectilePool = sync.Pool{
	New: func() any {
		return &Projectile{}
	},
}

// Projectile is a shot travelling in a straight line at constant speed.
type Projectile struct {
	Origin physics.Vec3
	Pos    physics.Vec3
	Dir    physics.Vec3  // Unit travel direction
	Born   time.Duration // Engine clock time at which it was fired
	active bool
}

// NewProjectile creates an active projectile from the pool.
func NewProjectile(origin, dir physics.Vec3, born time.Duration) *Projectile {
	p := projectilePool.Get().(*Projectile)
	p.Origin = origin
	p.Pos = origin
	p.Dir = dir.Normalize()
	p.Born = born
	p.active = true
	return p
}

// Active reports whether the projectile is still in flight.
func (p *Projectile) Active() bool {
	return p.active
}

// Age returns how long the projectile has been in flight at time now.
func (p *Projectile) Age(now time.Duration) time.Duration {
	return now - p.Born
}

// Deactivate takes the projectile out of play. Only the first call has effect.
func (p *Projectile) Deactivate() bool {
	if !p.active {
		return false
	}
	p.active = false
	return true
}

// Release returns the projectile to its pool for reuse.
func (p *Projectile) Release() {
	p.Deactivate()
	projectilePool.Put(p)
}

// advance moves the projectile dist units along its direction.
func (p *Projectile) advance(dist float64) {
	p.Pos = p.Pos.Add(p.Dir.Scale(dist))
}

// Draw renders the projectile as a short streak on the canvas.
func (p *Projectile) Draw(ctx DrawContext) error {
	x, y, _, ok := ctx.Camera.Project(p.Pos, ctx.View)
	if !ok {
		return nil
	}
	ctx.Canvas.SetFloat(x, y)

	tail := p.Pos.Sub(p.Dir.Scale(0.6))
	if tx, ty, _, ok := ctx.Camera.Project(tail, ctx.View); ok {
		ctx.Canvas.DrawLine(drawPoint(tx, ty), drawPoint(x, y))
	}
	return nil
}
