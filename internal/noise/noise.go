// Package noise provides the coherent 2-D noise fields that drive the
// nucleus surface.
package noise

import (
	"math"

	"github.com/aquilax/go-perlin"
)

// Field is a smooth pseudorandom scalar field sampled at continuous
// coordinates. Samples lie in [-1, 1].
type Field interface {
	Noise2D(x, y float64) float64
}

// Func adapts an ordinary function to the Field interface. Tests use it to
// substitute a deterministic field for the seeded production one.
type Func func(x, y float64) float64

// Noise2D implements Field.
func (f Func) Noise2D(x, y float64) float64 {
	return f(x, y)
}

// Perlin default parameters: alpha is the weight falloff between octaves,
// beta the frequency multiplier, octaves the number of summed layers.
const (
	DefaultAlpha   = 2.0
	DefaultBeta    = 2.0
	DefaultOctaves = 3
)

// Perlin is a gradient-noise field seeded once at construction.
type Perlin struct {
	p    *perlin.Perlin
	seed int64
}

// NewPerlin creates a Perlin field with the default octave settings.
func NewPerlin(seed int64) *Perlin {
	return &Perlin{
		p:    perlin.NewPerlin(DefaultAlpha, DefaultBeta, DefaultOctaves, seed),
		seed: seed,
	}
}

// Noise2D implements Field. The raw octave sum is clamped to [-1, 1].
func (n *Perlin) Noise2D(x, y float64) float64 {
	return clamp(n.p.Noise2D(x, y))
}

// Seed returns the seed the field was built with.
func (n *Perlin) Seed() int64 {
	return n.seed
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
