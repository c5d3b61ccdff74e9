package geom

import (
	"math"
	"math/rand/v2"
)

// RandomRadius draws a shell radius uniformly from [min, max].
// Bounds may be given in either order; min == max always returns that value.
func RandomRadius(rng *rand.Rand, min, max float64) float64 {
	if max < min {
		min, max = max, min
	}
	if min == max {
		return min
	}
	return min + rng.Float64()*(max-min)
}

// SampleSpherePoint returns a point distributed uniformly over the surface
// area of a sphere of the given radius centred on the origin.
//
// The polar angle is taken as acos(u) with u uniform in [-1, 1]; drawing the
// polar angle itself uniformly would crowd points toward the poles.
func SampleSpherePoint(rng *rand.Rand, radius float64) Vec3 {
	theta := 2 * math.Pi * rng.Float64()
	phi := math.Acos(2*rng.Float64() - 1)

	sinPhi := math.Sin(phi)
	return Vec3{
		X: radius * sinPhi * math.Cos(theta),
		Y: radius * sinPhi * math.Sin(theta),
		Z: radius * math.Cos(phi),
	}
}
