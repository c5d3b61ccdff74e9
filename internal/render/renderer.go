package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-nucleus/internal/assets"
	"github.com/litescript/ls-nucleus/internal/geom"
)

// ErrNoSurface reports a render surface with no pixels.
var ErrNoSurface = errors.New("render surface has no area")

// DefaultMinPointCoverage is the alpha given to sprites smaller than a pixel.
const DefaultMinPointCoverage = 0.35

// Renderer draws graphs into a reusable frame.
type Renderer struct {
	frame *Frame

	// MinPointCoverage is the lowest alpha a sub-pixel sprite is drawn with,
	// so distant stars stay visible at terminal resolutions.
	MinPointCoverage float64
}

// NewRenderer creates a renderer with a w×h pixel surface.
func NewRenderer(w, h int) (*Renderer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrNoSurface, w, h)
	}
	return &Renderer{
		frame:            newFrame(w, h),
		MinPointCoverage: DefaultMinPointCoverage,
	}, nil
}

// Resize changes the surface size. Non-positive sizes are ignored.
func (r *Renderer) Resize(w, h int) {
	if w <= 0 || h <= 0 || (w == r.frame.Width && h == r.frame.Height) {
		return
	}
	r.frame.resize(w, h)
}

// Size returns the surface size in pixels.
func (r *Renderer) Size() (int, int) {
	return r.frame.Width, r.frame.Height
}

// Render draws g as seen by cam. The returned frame is owned by the
// renderer and overwritten by the next call.
func (r *Renderer) Render(g Graph, cam *Camera) *Frame {
	f := r.frame
	f.clear()

	if g.Background != nil {
		r.drawBackdrop(g.Background, cam)
	}
	for i := range g.Meshes {
		r.drawMesh(&g.Meshes[i], g.Lights, cam)
	}
	for i := range g.Points {
		r.drawPoints(&g.Points[i], cam)
	}
	return f
}

// pixelToNDC maps a pixel centre to normalised device coordinates.
func (r *Renderer) pixelToNDC(x, y int) (float64, float64) {
	f := r.frame
	return (float64(x)+0.5)/float64(f.Width)*2 - 1,
		1 - (float64(y)+0.5)/float64(f.Height)*2
}

// ndcToScreen maps NDC to continuous pixel coordinates.
func (r *Renderer) ndcToScreen(ndcX, ndcY float64) (float64, float64) {
	f := r.frame
	return (ndcX + 1) / 2 * float64(f.Width), (1 - ndcY) / 2 * float64(f.Height)
}

// sphereUV maps a unit direction to equirectangular texture coordinates,
// v = 0 at the +Y pole.
func sphereUV(n geom.Vec3) (float64, float64) {
	u := math.Atan2(n.Z, -n.X) / (2 * math.Pi)
	v := math.Acos(math.Max(-1, math.Min(1, n.Y))) / math.Pi
	return u, v
}

// drawBackdrop casts a ray per pixel and shades the far intersection with
// the sphere, which is the inside face visible from any camera position.
func (r *Renderer) drawBackdrop(b *Backdrop, cam *Camera) {
	f := r.frame
	o := cam.Position
	c := o.Dot(o) - b.Radius*b.Radius
	fwd := cam.Forward()

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			d := cam.Ray(r.pixelToNDC(x, y))
			half := o.Dot(d)
			disc := half*half - c
			if disc < 0 {
				continue
			}
			t := -half + math.Sqrt(disc)
			if t <= 0 {
				continue
			}
			depth := t * d.Dot(fwd)
			if depth < cam.Near || depth > cam.Far {
				continue
			}

			hit := o.Add(d.Scale(t)).Scale(1 / b.Radius)
			col, _ := b.Texture.Sample(sphereUV(hit))

			i := y*f.Width + x
			f.pix[i] = col
			f.depth[i] = depth
		}
	}
}

func vertex(buf []float32, i int) geom.Vec3 {
	return geom.Vec3{X: float64(buf[3*i]), Y: float64(buf[3*i+1]), Z: float64(buf[3*i+2])}
}

func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// lambert returns the linear light reaching a surface with normal n.
func lambert(n geom.Vec3, l Lights) colorful.Color {
	dir := l.Directional.Position.Normalized()
	diff := math.Max(0, n.Dot(dir)) * l.Directional.Intensity
	amb := l.Ambient.Intensity
	return colorful.Color{
		R: l.Ambient.Color.R*amb + l.Directional.Color.R*diff,
		G: l.Ambient.Color.G*amb + l.Directional.Color.G*diff,
		B: l.Ambient.Color.B*amb + l.Directional.Color.B*diff,
	}
}

func (r *Renderer) drawMesh(m *MeshNode, lights Lights, cam *Camera) {
	f := r.frame
	rot := m.Rotation.Matrix()
	rotate := !m.Rotation.IsZero()

	tris := len(m.Positions) / 9
	for t := 0; t < tris; t++ {
		var p [3]geom.Vec3
		for k := 0; k < 3; k++ {
			p[k] = vertex(m.Positions, 3*t+k)
			if rotate {
				p[k] = rot.Apply(p[k])
			}
		}

		n := vertex(m.Normals, 3*t)
		if rotate {
			n = rot.Apply(n)
		}
		// Front faces only.
		if n.Dot(p[0].Sub(cam.Position)) >= 0 {
			continue
		}

		var sx, sy, z [3]float64
		visible := true
		for k := 0; k < 3; k++ {
			nx, ny, depth, ok := cam.Project(p[k])
			if !ok {
				visible = false
				break
			}
			sx[k], sy[k] = r.ndcToScreen(nx, ny)
			z[k] = depth
		}
		if !visible {
			continue
		}

		area := edge(sx[0], sy[0], sx[1], sy[1], sx[2], sy[2])
		if math.Abs(area) < 1e-12 {
			continue
		}

		minX := max(0, int(math.Floor(min(sx[0], sx[1], sx[2]))))
		maxX := min(f.Width-1, int(math.Ceil(max(sx[0], sx[1], sx[2]))))
		minY := max(0, int(math.Floor(min(sy[0], sy[1], sy[2]))))
		maxY := min(f.Height-1, int(math.Ceil(max(sy[0], sy[1], sy[2]))))
		if minX > maxX || minY > maxY {
			continue
		}

		shade := lambert(n, lights)

		for y := minY; y <= maxY; y++ {
			py := float64(y) + 0.5
			for x := minX; x <= maxX; x++ {
				px := float64(x) + 0.5
				w0 := edge(sx[1], sy[1], sx[2], sy[2], px, py) / area
				w1 := edge(sx[2], sy[2], sx[0], sy[0], px, py) / area
				w2 := 1 - w0 - w1
				if w0 < 0 || w1 < 0 || w2 < 0 {
					continue
				}

				// Perspective-correct interpolation through 1/z.
				invZ := w0/z[0] + w1/z[1] + w2/z[2]
				depth := 1 / invZ
				i := y*f.Width + x
				if depth >= f.depth[i] {
					continue
				}

				pos := p[0].Scale(w0 / z[0]).Add(p[1].Scale(w1 / z[1])).Add(p[2].Scale(w2 / z[2])).Scale(depth)
				col, _ := m.Texture.Sample(sphereUV(pos.Normalized()))

				f.pix[i] = colorful.Color{R: col.R * shade.R, G: col.G * shade.G, B: col.B * shade.B}
				f.depth[i] = depth
			}
		}
	}
}

// drawPoints draws each point as a square sprite whose pixel size shrinks
// with depth. Sprites are depth tested but do not write depth.
func (r *Renderer) drawPoints(pn *PointsNode, cam *Camera) {
	f := r.frame
	rot := pn.Rotation.Matrix()
	rotate := !pn.Rotation.IsZero()
	scale := float64(f.Height) / 2

	for _, p := range pn.Points {
		if rotate {
			p = rot.Apply(p)
		}
		nx, ny, depth, ok := cam.Project(p)
		if !ok {
			continue
		}
		sx, sy := r.ndcToScreen(nx, ny)
		size := pn.Size * scale / depth

		if size < 1 {
			x, y := int(math.Floor(sx)), int(math.Floor(sy))
			if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
				continue
			}
			coverage := math.Max(r.MinPointCoverage, size)
			r.blend(y*f.Width+x, depth, pn.Texture.Average(), math.Min(1, coverage), pn.Blend)
			continue
		}

		half := size / 2
		minX := max(0, int(math.Floor(sx-half)))
		maxX := min(f.Width-1, int(math.Ceil(sx+half)))
		minY := max(0, int(math.Floor(sy-half)))
		maxY := min(f.Height-1, int(math.Ceil(sy+half)))

		for y := minY; y <= maxY; y++ {
			v := (float64(y) + 0.5 - (sy - half)) / size
			if v < 0 || v > 1 {
				continue
			}
			for x := minX; x <= maxX; x++ {
				u := (float64(x) + 0.5 - (sx - half)) / size
				if u < 0 || u > 1 {
					continue
				}
				col, a := spriteSample(pn.Texture, u, v)
				if a <= 0 {
					continue
				}
				r.blend(y*f.Width+x, depth, col, a, pn.Blend)
			}
		}
	}
}

// spriteSample reads a sprite texel; without a texture the sprite is a
// white disc.
func spriteSample(tex *assets.Texture, u, v float64) (colorful.Color, float64) {
	if tex != nil {
		return tex.Sample(u, v)
	}
	du, dv := u-0.5, v-0.5
	if du*du+dv*dv > 0.25 {
		return colorful.Color{}, 0
	}
	return colorful.Color{R: 1, G: 1, B: 1}, 1
}

func (r *Renderer) blend(i int, depth float64, col colorful.Color, a float64, mode BlendMode) {
	f := r.frame
	if depth >= f.depth[i] {
		return
	}
	dst := f.pix[i]
	switch mode {
	case BlendAdditive:
		f.pix[i] = colorful.Color{R: dst.R + col.R*a, G: dst.G + col.G*a, B: dst.B + col.B*a}
	default:
		f.pix[i] = colorful.Color{
			R: dst.R*(1-a) + col.R*a,
			G: dst.G*(1-a) + col.G*a,
			B: dst.B*(1-a) + col.B*a,
		}
	}
}
