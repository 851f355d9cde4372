package object

import "github.com/tomz197/invaders/internal/physics"

// Tier is the row-based category of an alien.
type Tier int

const (
	TierBottom Tier = iota // Lowest rows, cheapest
	TierMiddle
	TierTop // Top row, most valuable
)

var tierPoints = map[Tier]int{
	TierBottom: 10,
	TierMiddle: 20,
	TierTop:    30,
}

var tierColors = map[Tier]Color{
	TierBottom: {R: 120, G: 255, B: 120},
	TierMiddle: {R: 120, G: 200, B: 255},
	TierTop:    {R: 255, G: 120, B: 220},
}

// Points returns the score for destroying an alien of this tier.
func (t Tier) Points() int {
	return tierPoints[t]
}

// Color returns the tint used for this tier's explosions.
func (t Tier) Color() Color {
	return tierColors[t]
}

func (t Tier) String() string {
	switch t {
	case TierTop:
		return "top"
	case TierMiddle:
		return "middle"
	default:
		return "bottom"
	}
}

// TierForRow returns the tier of a grid row: row 0 is top, the next two rows
// are middle, everything below is bottom.
func TierForRow(row int) Tier {
	switch {
	case row == 0:
		return TierTop
	case row <= 2:
		return TierMiddle
	default:
		return TierBottom
	}
}

// Alien is one enemy in the formation grid.
type Alien struct {
	Row, Col int

	tier   Tier
	points int
	phase  float64      // Animation phase offset, fixed at spawn
	local  physics.Vec3 // Offset from the formation origin
	pos    physics.Vec3 // World position, updated every tick
	alive  bool
	handle Renderable
}

// Tier returns the alien's tier.
func (a *Alien) Tier() Tier {
	return a.tier
}

// Points returns the fixed score value of the alien.
func (a *Alien) Points() int {
	return a.points
}

// Phase returns the animation phase offset.
func (a *Alien) Phase() float64 {
	return a.phase
}

// Position returns the alien's physical world position.
func (a *Alien) Position() physics.Vec3 {
	return a.pos
}

// Alive reports whether the alien has not been destroyed.
func (a *Alien) Alive() bool {
	return a.alive
}
