package render

import (
	"math"

	"github.com/litescript/ls-nucleus/internal/geom"
)

// polarEpsilon keeps the camera off the poles where the view basis flips.
const polarEpsilon = 1e-6

// Controls orbits a camera around a fixed target on a sphere. Panning is
// not supported; the target never moves.
type Controls struct {
	camera *Camera
	target geom.Vec3

	AutoRotate      bool
	AutoRotateSpeed float64 // 5 ≈ one revolution every 12 s at 60 updates/s
	MinDistance     float64
	MaxDistance     float64

	radius, theta, phi float64
	home               [3]float64
}

// NewControls attaches orbit controls to camera, starting from its current
// position relative to the origin.
func NewControls(camera *Camera, minDistance, maxDistance float64) *Controls {
	c := &Controls{
		camera:      camera,
		MinDistance: minDistance,
		MaxDistance: maxDistance,
	}

	offset := camera.Position.Sub(c.target)
	c.radius = offset.Norm()
	if c.radius > 0 {
		c.theta = math.Atan2(offset.X, offset.Z)
		c.phi = math.Acos(math.Max(-1, math.Min(1, offset.Y/c.radius)))
	} else {
		c.phi = math.Pi / 2
	}
	c.home = [3]float64{c.radius, c.theta, c.phi}
	c.apply()
	return c
}

// RotateLeft orbits around the vertical axis by angle radians.
func (c *Controls) RotateLeft(angle float64) {
	c.theta -= angle
}

// RotateUp tilts the orbit by angle radians.
func (c *Controls) RotateUp(angle float64) {
	c.phi -= angle
}

// Dolly multiplies the orbit distance by scale.
func (c *Controls) Dolly(scale float64) {
	if scale > 0 {
		c.radius *= scale
	}
}

// Reset returns to the initial orbit position.
func (c *Controls) Reset() {
	c.radius, c.theta, c.phi = c.home[0], c.home[1], c.home[2]
	c.apply()
}

// Distance returns the current orbit distance.
func (c *Controls) Distance() float64 {
	return c.radius
}

// Azimuth returns the current orbit angle around the vertical axis.
func (c *Controls) Azimuth() float64 {
	return c.theta
}

// Update advances auto-rotation by one step and moves the camera.
func (c *Controls) Update() {
	if c.AutoRotate {
		c.RotateLeft(2 * math.Pi / 60 / 60 * c.AutoRotateSpeed)
	}
	c.apply()
}

func (c *Controls) apply() {
	c.phi = math.Max(polarEpsilon, math.Min(math.Pi-polarEpsilon, c.phi))
	if c.MaxDistance >= c.MinDistance && c.MinDistance > 0 {
		c.radius = math.Max(c.MinDistance, math.Min(c.MaxDistance, c.radius))
	}

	sinPhi := math.Sin(c.phi)
	c.camera.Position = c.target.Add(geom.Vec3{
		X: c.radius * sinPhi * math.Sin(c.theta),
		Y: c.radius * math.Cos(c.phi),
		Z: c.radius * sinPhi * math.Cos(c.theta),
	})
	c.camera.LookAt(c.target)
}
