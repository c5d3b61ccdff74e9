package scene

import (
	"github.com/chewxy/math32"

	"github.com/litescript/ls-nucleus/internal/noise"
)

// Displacer moves nucleus vertices along their rest direction by a noise
// sample that drifts with the animation clock.
type Displacer struct {
	Field noise.Field
	Scale float64 // displacement amplitude in world units
	Speed float64 // noise drift per clock unit
}

// Displace rewrites n.Live for the given clock and recomputes normals. The
// result depends only on the rest positions and clock, so calling it twice
// with the same clock gives the same mesh. Rest vertices at the origin have
// no direction and are left there.
func (d Displacer) Displace(n *Nucleus, clock float64) {
	phase := clock * d.Speed
	rest, live := n.Rest, n.Live

	for i := 0; i+2 < len(rest); i += 3 {
		x, y, z := rest[i], rest[i+1], rest[i+2]
		l := math32.Sqrt(x*x + y*y + z*z)
		if l == 0 {
			live[i], live[i+1], live[i+2] = 0, 0, 0
			continue
		}
		x, y, z = x/l, y/l, z/l

		s := d.Field.Noise2D(float64(x)+phase, float64(y)+phase)
		r := n.Radius + float32(s*d.Scale)

		live[i] = x * r
		live[i+1] = y * r
		live[i+2] = z * r
	}
	n.ComputeNormals()
}
