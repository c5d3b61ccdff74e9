package assets

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/sync/errgroup"

	"github.com/litescript/ls-nucleus/internal/noise"
)

// Procedural generates stand-ins for every texture the scene binds, so the
// effect runs without an asset directory. The path half of each entry is
// ignored; the name selects the generator.
type Procedural struct {
	seed int64
}

// NewProcedural creates a generator. Equal seeds give equal textures.
func NewProcedural(seed int64) *Procedural {
	return &Procedural{seed: seed}
}

type palette struct {
	dark, light colorful.Color
}

var (
	flarePalettes = map[string]colorful.Color{
		Flare1: mustHex("#cfe3ff"),
		Flare2: mustHex("#ffb3e6"),
		Flare3: mustHex("#ffae5c"),
	}
	planetPalettes = map[string]palette{
		Planet1: {mustHex("#1d4fa8"), mustHex("#8fd0ff")},
		Planet2: {mustHex("#7a1f12"), mustHex("#f08a5d")},
		Planet3: {mustHex("#5c5c5c"), mustHex("#dedbd2")},
	}
)

// Load implements Provider.
func (p *Procedural) Load(ctx context.Context, files map[string]string) (map[string]*Texture, error) {
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	out := make(map[string]*Texture, len(files))

	for i, name := range sortedNames(files) {
		name, path, seed := name, files[name], p.seed+int64(i)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return &LoadError{Name: name, Path: path, Err: err}
			}
			img, err := generate(name, seed)
			if err != nil {
				return &LoadError{Name: name, Path: path, Err: err}
			}
			tex := NewTexture(name, img)
			mu.Lock()
			out[name] = tex
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func generate(name string, seed int64) (image.Image, error) {
	switch {
	case name == Sky:
		return skyImage(seed, 256, 128), nil
	case name == Star:
		return starImage(seed, 128, 64), nil
	case strings.HasPrefix(name, "flare"):
		tint, ok := flarePalettes[name]
		if !ok {
			tint = colorful.Color{R: 1, G: 1, B: 1}
		}
		return flareImage(tint, 64), nil
	case strings.HasPrefix(name, "planet"):
		pal, ok := planetPalettes[name]
		if !ok {
			return nil, fmt.Errorf("%w: no palette for %s", ErrUnknownTexture, name)
		}
		return planetImage(seed, pal, 64), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTexture, name)
	}
}

// fbm sums three octaves of the seeded field, mapped to [0, 1].
func fbm(f noise.Field, x, y float64) float64 {
	v := f.Noise2D(x, y) + 0.5*f.Noise2D(2*x+5.2, 2*y+1.3) + 0.25*f.Noise2D(4*x-3.1, 4*y+7.7)
	return math.Max(0, math.Min(1, v/1.75*0.5+0.5))
}

func skyImage(seed int64, w, h int) image.Image {
	field := noise.NewPerlin(seed)
	rng := rand.New(rand.NewPCG(uint64(seed), 0x5eed))

	base := mustHex("#02030d")
	nebula := mustHex("#3a1d6e")
	glow := mustHex("#1b4f8a")

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			u, v := float64(x)/float64(w), float64(y)/float64(h)
			// Sample on a circle in u so the seam at u = 0/1 is continuous.
			a := 2 * math.Pi * u
			n1 := fbm(field, math.Cos(a)*1.5, math.Sin(a)*1.5+v*3)
			n2 := fbm(field, math.Cos(a)*3+11, math.Sin(a)*3+v*6)

			c := base.BlendLab(nebula, n1*n1*0.8).BlendLab(glow, n2*n2*0.5)
			if rng.Float64() < 0.004 {
				c = c.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, 0.6+0.4*rng.Float64())
			}
			img.SetNRGBA(x, y, toNRGBA(c, 1))
		}
	}
	return img
}

func starImage(seed int64, w, h int) image.Image {
	field := noise.NewPerlin(seed)
	hot := mustHex("#fff1b8")
	warm := mustHex("#ff8a1f")
	deep := mustHex("#b3360b")

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := 2 * math.Pi * float64(x) / float64(w)
			v := float64(y) / float64(h)
			n := fbm(field, math.Cos(a)*2, math.Sin(a)*2+v*4)

			var c colorful.Color
			if n < 0.5 {
				c = deep.BlendLab(warm, n*2)
			} else {
				c = warm.BlendLab(hot, (n-0.5)*2)
			}
			img.SetNRGBA(x, y, toNRGBA(c, 1))
		}
	}
	return img
}

func flareImage(tint colorful.Color, size int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	center := float64(size-1) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-center, float64(y)-center
			r := math.Sqrt(dx*dx+dy*dy) / (float64(size) / 2)
			if r >= 1 {
				continue
			}
			falloff := (1 - r) * (1 - r)
			core := math.Max(0, 1-r*4)
			c := tint.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, core)
			img.SetNRGBA(x, y, toNRGBA(c, falloff))
		}
	}
	return img
}

func planetImage(seed int64, pal palette, size int) image.Image {
	field := noise.NewPerlin(seed)
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	center := float64(size-1) / 2
	radius := float64(size) / 2

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := (float64(x)-center)/radius, (float64(y)-center)/radius
			d2 := dx*dx + dy*dy
			if d2 >= 1 {
				continue
			}
			dz := math.Sqrt(1 - d2)

			band := fbm(field, dx*1.5, dy*6)
			c := pal.dark.BlendLab(pal.light, band)

			// Light from the upper left, softened toward the limb.
			lit := math.Max(0.15, (-dx*0.5-dy*0.5+dz)/1.23)
			c = colorful.Color{R: c.R * lit, G: c.G * lit, B: c.B * lit}
			img.SetNRGBA(x, y, toNRGBA(c.Clamped(), 1))
		}
	}
	return img
}

func toNRGBA(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(math.Max(0, math.Min(1, alpha)) * 255))}
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
