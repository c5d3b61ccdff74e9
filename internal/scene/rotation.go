package scene

import (
	"github.com/litescript/ls-nucleus/internal/config"
	"github.com/litescript/ls-nucleus/internal/geom"
)

// RotationState accumulates an object's Euler angles one tick at a time.
type RotationState struct {
	Angle geom.Euler
}

// Advance adds one tick of rate.
func (s *RotationState) Advance(rate geom.Euler) {
	s.Angle = s.Angle.Add(rate)
}

// RotationRates are per-tick angle increments in radians.
type RotationRates struct {
	Stars   geom.Euler
	Comet   geom.Euler
	Planets [3]geom.Euler
}

// RatesFromConfig maps the configured rates onto their rotation axes.
func RatesFromConfig(c config.RotationConfig) RotationRates {
	return RotationRates{
		Stars: geom.Euler{Y: c.Stars},
		Comet: geom.Euler{Y: c.CometY, Z: c.CometZ},
		Planets: [3]geom.Euler{
			{Y: c.Planet1},
			{Z: c.Planet2},
			{X: c.Planet3},
		},
	}
}

// Rotations is the rotation state of every animated object.
type Rotations struct {
	Stars   RotationState
	Comet   RotationState
	Planets [3]RotationState
}

// Animator advances Rotations by one logical tick at a time.
type Animator struct {
	Rates RotationRates
	ticks uint64
}

// Tick adds one tick of every rate.
func (a *Animator) Tick(r *Rotations) {
	r.Stars.Advance(a.Rates.Stars)
	r.Comet.Advance(a.Rates.Comet)
	for i := range r.Planets {
		r.Planets[i].Advance(a.Rates.Planets[i])
	}
	a.ticks++
}

// Ticks returns the number of ticks applied so far.
func (a *Animator) Ticks() uint64 {
	return a.ticks
}
