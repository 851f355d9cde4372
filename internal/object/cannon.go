package object

import (
	"math"
	"time"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/physics"
)

// Cannon fires projectiles from the viewpoint and resolves their hits.
type Cannon struct {
	cfg       config.CannonTuning
	viewpoint Viewpoint

	projectiles []*Projectile
	lastFire    time.Duration
	hasFired    bool

	// Reusable per-tick buffers
	hits   []*Alien
	hitSet map[*Alien]struct{}
}

// NewCannon creates a cannon that fires along the viewpoint's forward direction.
func NewCannon(cfg config.CannonTuning, viewpoint Viewpoint) *Cannon {
	return &Cannon{
		cfg:       cfg,
		viewpoint: viewpoint,
		hitSet:    make(map[*Alien]struct{}),
	}
}

// SetViewpoint swaps the viewpoint shots are fired from.
func (c *Cannon) SetViewpoint(v Viewpoint) {
	c.viewpoint = v
}

// Fire spawns a projectile unless the cooldown since the last successful shot
// has not elapsed, the projectile cap is reached or there is no viewpoint.
// Rejected calls change nothing.
func (c *Cannon) Fire(now time.Duration) bool {
	if c.viewpoint == nil {
		return false
	}
	if c.hasFired && now-c.lastFire < c.cfg.Cooldown {
		return false
	}
	if len(c.projectiles) >= c.cfg.MaxProjectiles {
		return false
	}

	fwd := c.viewpoint.Forward().Normalize()
	origin := c.viewpoint.Position().Add(fwd.Scale(c.cfg.MuzzleOffset))
	c.projectiles = append(c.projectiles, NewProjectile(origin, fwd, now))
	c.lastFire = now
	c.hasFired = true
	return true
}

// Update advances every projectile in creation order, expires old ones and
// tests the rest against targets. Movement is split into steps no longer than
// the hit radius so a long frame cannot carry a shot through an alien. Each projectile hits at most one target and
// each target is hit at most once per call. The returned slice is reused by
// the next call.
func (c *Cannon) Update(now, dt time.Duration, targets []*Alien) []*Alien {
	c.hits = c.hits[:0]
	clear(c.hitSet)
	steps, stepLen := c.substeps(dt)

	kept := c.projectiles[:0]
	for _, p := range c.projectiles {
		if !p.Active() {
			p.Release()
			continue
		}

		if p.Age(now) >= c.cfg.Lifetime {
			p.Release()
			continue
		}

		if target := c.sweep(p, steps, stepLen, targets); target != nil {
			c.hitSet[target] = struct{}{}
			c.hits = append(c.hits, target)
			p.Release()
			continue
		}
		kept = append(kept, p)
	}
	clear(c.projectiles[len(kept):])
	c.projectiles = kept

	return c.hits
}

// substeps splits the distance travelled in dt into steps of at most HitRadius.
func (c *Cannon) substeps(dt time.Duration) (int, float64) {
	travel := c.cfg.Speed * dt.Seconds()
	if travel <= c.cfg.HitRadius {
		return 1, travel
	}
	n := int(math.Ceil(travel / c.cfg.HitRadius))
	return n, travel / float64(n)
}

// sweep moves p step by step and returns the first target it touches.
func (c *Cannon) sweep(p *Projectile, steps int, stepLen float64, targets []*Alien) *Alien {
	for i := 0; i < steps; i++ {
		p.advance(stepLen)
		if target := c.firstHit(p.Pos, targets); target != nil {
			return target
		}
	}
	return nil
}

func (c *Cannon) firstHit(pos physics.Vec3, targets []*Alien) *Alien {
	for _, t := range targets {
		if !t.Alive() {
			continue
		}
		if _, taken := c.hitSet[t]; taken {
			continue
		}
		if physics.PointInSphere(pos, t.Position(), c.cfg.HitRadius) {
			return t
		}
	}
	return nil
}

// Clear removes every projectile in flight.
func (c *Cannon) Clear() {
	for _, p := range c.projectiles {
		p.Release()
	}
	clear(c.projectiles)
	c.projectiles = c.projectiles[:0]
}

// Count returns the number of projectiles in flight.
func (c *Cannon) Count() int {
	return len(c.projectiles)
}

// Projectiles returns the projectiles in flight. The slice must not be retained
// across updates.
func (c *Cannon) Projectiles() []*Projectile {
	return c.projectiles
}
