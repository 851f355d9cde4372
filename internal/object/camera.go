package object

import (
	"math"

	"github.com/tomz197/invaders/internal/physics"
)

const (
	defaultFOV  = 75 * math.Pi / 180 // Vertical field of view
	nearPlane   = 0.1
	maxYaw      = 1.4
	maxPitch    = 1.2
	defaultAimY = 0.12 // Slight upward tilt so the formation sits mid-screen
)

// Camera is the player's viewpoint. Yaw and pitch are steered by input in
// place of device orientation tracking.
type Camera struct {
	Pos   physics.Vec3
	Yaw   float64 // Radians, positive turns right
	Pitch float64 // Radians, positive looks up
	FOV   float64 // Vertical field of view in radians
}

// NewCamera creates a camera at the origin looking down -Z.
func NewCamera() *Camera {
	return &Camera{
		Pitch: defaultAimY,
		FOV:   defaultFOV,
	}
}

// Position implements Viewpoint.
func (c *Camera) Position() physics.Vec3 {
	return c.Pos
}

// Forward implements Viewpoint.
func (c *Camera) Forward() physics.Vec3 {
	cp := math.Cos(c.Pitch)
	return physics.Vec3{
		X: math.Sin(c.Yaw) * cp,
		Y: math.Sin(c.Pitch),
		Z: -math.Cos(c.Yaw) * cp,
	}
}

func (c *Camera) right() physics.Vec3 {
	return physics.Vec3{X: math.Cos(c.Yaw), Z: math.Sin(c.Yaw)}
}

// Steer rotates the camera, clamping to a comfortable range.
func (c *Camera) Steer(dYaw, dPitch float64) {
	c.Yaw = clamp(c.Yaw+dYaw, -maxYaw, maxYaw)
	c.Pitch = clamp(c.Pitch+dPitch, -maxPitch, maxPitch)
}

// Reset points the camera back at the formation.
func (c *Camera) Reset() {
	c.Yaw = 0
	c.Pitch = defaultAimY
}

// Project converts a world position to logical view coordinates.
// depth is the distance along the view direction; ok is false behind the camera.
func (c *Camera) Project(p physics.Vec3, view Screen) (x, y, depth float64, ok bool) {
	fwd := c.Forward()
	right := c.right()
	up := right.Cross(fwd)

	d := p.Sub(c.Pos)
	depth = d.Dot(fwd)
	if depth <= nearPlane {
		return 0, 0, depth, false
	}

	focal := c.focal()
	ndcX := d.Dot(right) / depth * focal / view.Aspect()
	ndcY := d.Dot(up) / depth * focal

	x = (ndcX + 1) / 2 * float64(view.Width)
	y = (1 - ndcY) / 2 * float64(view.Height)
	return x, y, depth, true
}

// ProjectSize converts a world-space length at the given depth to logical units.
func (c *Camera) ProjectSize(size, depth float64, view Screen) float64 {
	if depth <= nearPlane {
		return 0
	}
	return size * c.focal() / depth * float64(view.Height) / 2
}

func (c *Camera) focal() float64 {
	fov := c.FOV
	if fov <= 0 {
		fov = defaultFOV
	}
	return 1 / math.Tan(fov/2)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
