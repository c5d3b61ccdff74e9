package render

import (
	"math"

	"github.com/litescript/ls-nucleus/internal/geom"
)

// Camera is a perspective camera looking at Target.
type Camera struct {
	FOV    float64 // vertical field of view in degrees
	Aspect float64 // width / height
	Near   float64
	Far    float64

	Position geom.Vec3
	Target   geom.Vec3
	Up       geom.Vec3

	// view basis, refreshed by Update
	right, up, forward geom.Vec3
	tanHalf            float64
}

// NewCamera creates a camera at position looking at the origin.
func NewCamera(fov, aspect, near, far float64, position geom.Vec3) *Camera {
	c := &Camera{
		FOV:      fov,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
		Position: position,
		Up:       geom.Vec3{Y: 1},
	}
	c.Update()
	return c
}

// SetAspect changes the aspect ratio and refreshes the projection.
func (c *Camera) SetAspect(aspect float64) {
	if aspect <= 0 || math.IsInf(aspect, 0) || math.IsNaN(aspect) {
		return
	}
	c.Aspect = aspect
	c.Update()
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target geom.Vec3) {
	c.Target = target
	c.Update()
}

// Update recomputes the view basis after Position, Target or FOV change.
func (c *Camera) Update() {
	c.forward = c.Target.Sub(c.Position).Normalized()
	c.right = c.forward.Cross(c.Up).Normalized()
	if c.right == (geom.Vec3{}) {
		// Looking straight along Up; any perpendicular will do.
		c.right = geom.Vec3{X: 1}
	}
	c.up = c.right.Cross(c.forward)
	c.tanHalf = math.Tan(geom.DegToRad(c.FOV) / 2)
}

// Forward returns the unit view direction.
func (c *Camera) Forward() geom.Vec3 {
	return c.forward
}

// ToView returns p in camera space: x right, y up, z the distance along the
// view direction.
func (c *Camera) ToView(p geom.Vec3) geom.Vec3 {
	d := p.Sub(c.Position)
	return geom.Vec3{X: d.Dot(c.right), Y: d.Dot(c.up), Z: d.Dot(c.forward)}
}

// Project maps a world point to normalised device coordinates in [-1, 1]
// (y up) and returns its view depth. ok is false outside the clip range.
func (c *Camera) Project(p geom.Vec3) (ndcX, ndcY, depth float64, ok bool) {
	v := c.ToView(p)
	if v.Z < c.Near || v.Z > c.Far {
		return 0, 0, v.Z, false
	}
	ndcX = v.X / (v.Z * c.tanHalf * c.Aspect)
	ndcY = v.Y / (v.Z * c.tanHalf)
	return ndcX, ndcY, v.Z, true
}

// Ray returns the unit world-space direction through the NDC point.
func (c *Camera) Ray(ndcX, ndcY float64) geom.Vec3 {
	d := c.forward.
		Add(c.right.Scale(ndcX * c.tanHalf * c.Aspect)).
		Add(c.up.Scale(ndcY * c.tanHalf))
	return d.Normalized()
}
