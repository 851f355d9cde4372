package object

import (
	"math"
	"math/rand"
	"time"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/physics"
)

// Explosion parameters for destroyed aliens.
const (
	explosionParticles = 14
	explosionSpeed     = 3.0 // Units per second
	explosionLifetime  = 0.6 // Seconds
)

// Unit outlines per tier, centered on the origin with +Y down (screen space).
var tierShapes = map[Tier][]draw.Point{
	TierTop: {
		{X: 0, Y: -1}, {X: 0.8, Y: -0.1}, {X: 0.5, Y: 0.9}, {X: -0.5, Y: 0.9}, {X: -0.8, Y: -0.1},
	},
	TierMiddle: {
		{X: -1, Y: -0.6}, {X: 1, Y: -0.6}, {X: 1, Y: 0.7}, {X: 0.4, Y: 0.3}, {X: -0.4, Y: 0.3}, {X: -1, Y: 0.7},
	},
	TierBottom: {
		{X: -1, Y: 0}, {X: -0.6, Y: -0.7}, {X: 0.6, Y: -0.7}, {X: 1, Y: 0}, {X: 0.6, Y: 0.7}, {X: -0.6, Y: 0.7},
	},
}

// TierShape returns the unit outline used to draw a tier.
func TierShape(t Tier) []draw.Point {
	return tierShapes[t]
}

// Sprite is the Scene's renderable for one alien.
type Sprite struct {
	Tier     Tier
	Scale    float64
	Pos      physics.Vec3
	Rotation float64
	visible  bool
	released bool
}

// SetTransform implements Renderable.
func (s *Sprite) SetTransform(pos physics.Vec3, rotation float64) {
	s.Pos = pos
	s.Rotation = rotation
}

// SetVisible implements Renderable.
func (s *Sprite) SetVisible(visible bool) {
	s.visible = visible
}

// Release implements Renderable. The Scene drops released sprites on its next update.
func (s *Sprite) Release() {
	s.released = true
	s.visible = false
}

// Visible reports whether the sprite should be drawn.
func (s *Sprite) Visible() bool {
	return s.visible && !s.released
}

// Draw renders the sprite as a filled tier outline.
func (s *Sprite) Draw(ctx DrawContext) error {
	if !s.Visible() {
		return nil
	}
	x, y, depth, ok := ctx.Camera.Project(s.Pos, ctx.View)
	if !ok {
		return nil
	}
	r := ctx.Camera.ProjectSize(s.Scale, depth, ctx.View)

	shape := tierShapes[s.Tier]
	points := ctx.Canvas.BorrowPoints(len(shape))
	sin, cos := math.Sincos(s.Rotation)
	for i, p := range shape {
		points[i] = draw.Point{
			X: x + (p.X*cos-p.Y*sin)*r,
			Y: y + (p.X*sin+p.Y*cos)*r,
		}
	}
	ctx.Canvas.DrawPolygon(points, true)
	return nil
}

// Scene is the in-process AssetProvider shared by every frontend. It keeps the
// alien sprites and explosion particles; frontends only read it.
type Scene struct {
	rng       *rand.Rand
	sprites   []*Sprite
	particles []*Particle
}

// Compile-time check that Scene implements AssetProvider.
var _ AssetProvider = (*Scene)(nil)

// NewScene creates an empty scene. A nil rng is seeded from the clock.
func NewScene(rng *rand.Rand) *Scene {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Scene{rng: rng}
}

// CreateEntity implements AssetProvider.
func (sc *Scene) CreateEntity(tier Tier, scale float64) Renderable {
	s := &Sprite{Tier: tier, Scale: scale}
	sc.sprites = append(sc.sprites, s)
	return s
}

// CreateDestructionEffect implements AssetProvider.
func (sc *Scene) CreateDestructionEffect(pos physics.Vec3, tint Color) {
	burst := SpawnExplosion(sc.rng, pos, explosionParticles, explosionSpeed, explosionLifetime, tint)
	sc.particles = append(sc.particles, burst...)
}

// Update advances particles and drops released sprites.
func (sc *Scene) Update(dt time.Duration) {
	keptParticles := sc.particles[:0]
	for _, p := range sc.particles {
		if p.Update(dt) {
			p.Release()
			continue
		}
		keptParticles = append(keptParticles, p)
	}
	clear(sc.particles[len(keptParticles):])
	sc.particles = keptParticles

	keptSprites := sc.sprites[:0]
	for _, s := range sc.sprites {
		if !s.released {
			keptSprites = append(keptSprites, s)
		}
	}
	clear(sc.sprites[len(keptSprites):])
	sc.sprites = keptSprites
}

// Sprites returns the sprites that have not been released yet.
func (sc *Scene) Sprites() []*Sprite {
	return sc.sprites
}

// Particles returns the live explosion particles.
func (sc *Scene) Particles() []*Particle {
	return sc.particles
}

// Draw renders all sprites and particles onto the canvas.
func (sc *Scene) Draw(ctx DrawContext) error {
	for _, s := range sc.sprites {
		if err := s.Draw(ctx); err != nil {
			return err
		}
	}
	for _, p := range sc.particles {
		if err := p.Draw(ctx); err != nil {
			return err
		}
	}
	return nil
}

func drawPoint(x, y float64) draw.Point {
	return draw.Point{X: x, Y: y}
}
