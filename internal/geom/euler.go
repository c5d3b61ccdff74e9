package geom

import "math"

// Euler is an object rotation in radians, applied in X, then Y, then Z
// matrix order (R = Rx·Ry·Rz), which is the usual scene-graph convention.
// Angles are never wrapped; sin/cos make the rotation periodic.
type Euler struct {
	X, Y, Z float64
}

// Add returns the component-wise sum of two rotations.
func (e Euler) Add(d Euler) Euler {
	return Euler{X: e.X + d.X, Y: e.Y + d.Y, Z: e.Z + d.Z}
}

// IsZero reports whether no rotation is applied.
func (e Euler) IsZero() bool {
	return e.X == 0 && e.Y == 0 && e.Z == 0
}

// Apply rotates v by the Euler angles.
func (e Euler) Apply(v Vec3) Vec3 {
	if e.IsZero() {
		return v
	}
	return e.Matrix().Apply(v)
}

// Mat3 is a row-major 3x3 matrix.
type Mat3 [9]float64

// Matrix returns the rotation matrix Rx·Ry·Rz.
func (e Euler) Matrix() Mat3 {
	a, b := math.Cos(e.X), math.Sin(e.X)
	c, d := math.Cos(e.Y), math.Sin(e.Y)
	f, g := math.Cos(e.Z), math.Sin(e.Z)

	ae, af := a*f, a*g
	be, bf := b*f, b*g

	return Mat3{
		c * f, -c * g, d,
		af + be*d, ae - bf*d, -b * c,
		bf - ae*d, be + af*d, a * c,
	}
}

// Apply multiplies the matrix by a column vector.
func (m Mat3) Apply(v Vec3) Vec3 {
	return Vec3{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		Z: m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}
