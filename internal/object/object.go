// Package object holds the simulated world: aliens, the formation that moves them,
// projectiles, the viewpoint camera and the scene that renders them.
package object

import (
	"io"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/physics"
)

// Color is a tint hint passed to visual effects. Frontends map it to whatever
// their output supports.
type Color struct {
	R, G, B uint8
}

// Renderable is the opaque visual handle of an alien. The simulation only ever
// moves, shows/hides and releases it.
type Renderable interface {
	SetTransform(pos physics.Vec3, rotation float64)
	SetVisible(visible bool)
	Release()
}

// AssetProvider builds visuals for the simulation.
type AssetProvider interface {
	// CreateEntity returns a renderable for an alien of the given tier.
	CreateEntity(tier Tier, scale float64) Renderable
	// CreateDestructionEffect spawns a transient explosion at pos.
	CreateDestructionEffect(pos physics.Vec3, tint Color)
}

// Viewpoint is where shots are fired from. It is driven externally; the
// simulation only reads it.
type Viewpoint interface {
	Position() physics.Vec3
	Forward() physics.Vec3
}

// Screen represents logical viewport dimensions.
type Screen struct {
	Width   int
	Height  int
	CenterX int
	CenterY int
}

// NewScreen creates a Screen with its center precomputed.
func NewScreen(width, height int) Screen {
	return Screen{
		Width:   width,
		Height:  height,
		CenterX: width / 2,
		CenterY: height / 2,
	}
}

// Aspect returns width over height, or 1 for a degenerate screen.
func (s Screen) Aspect() float64 {
	if s.Height <= 0 {
		return 1
	}
	return float64(s.Width) / float64(s.Height)
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas // High-resolution canvas (2x vertical)
	Writer io.Writer    // Direct terminal output (for text)
	Camera *Camera      // Projection from world space to the view
	View   Screen       // Viewport dimensions in logical units
}

type nopAssets struct{}

func (nopAssets) CreateEntity(Tier, float64) Renderable { return nopRenderable{} }
func (nopAssets) CreateDestructionEffect(physics.Vec3, Color) {}

type nopRenderable struct{}

func (nopRenderable) SetTransform(physics.Vec3, float64) {}
func (nopRenderable) SetVisible(bool) {}
func (nopRenderable) Release() {}

// NopAssets is an AssetProvider that renders nothing.
var NopAssets AssetProvider = nopAssets{}
