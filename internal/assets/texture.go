// Package assets loads the named textures the scene binds onto its objects.
package assets

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Texture is an sRGB image decoded into linear RGB texels for shading.
type Texture struct {
	Name   string
	Width  int
	Height int

	texels []colorful.Color // linear RGB
	alpha  []float64
	avg    colorful.Color
}

// NewTexture converts img into a texture. Colour channels are treated as
// sRGB encoded and linearised once here, so sampling stays cheap.
func NewTexture(name string, img image.Image) *Texture {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	t := &Texture{
		Name:   name,
		Width:  w,
		Height: h,
		texels: make([]colorful.Color, w*h),
		alpha:  make([]float64, w*h),
	}

	var sumR, sumG, sumB, sumA float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			srgb := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
			r, g, bl := srgb.LinearRgb()
			a := float64(c.A) / 255

			i := y*w + x
			t.texels[i] = colorful.Color{R: r, G: g, B: bl}
			t.alpha[i] = a

			sumR += r * a
			sumG += g * a
			sumB += bl * a
			sumA += a
		}
	}
	if sumA > 0 {
		t.avg = colorful.Color{R: sumR / sumA, G: sumG / sumA, B: sumB / sumA}
	}

	return t
}

// Sample returns the linear colour and alpha nearest to (u, v). u wraps
// around, v is clamped to [0, 1]; v = 0 is the top row.
func (t *Texture) Sample(u, v float64) (colorful.Color, float64) {
	if t == nil || len(t.texels) == 0 {
		return colorful.Color{R: 1, G: 1, B: 1}, 1
	}

	u -= math.Floor(u)
	v = math.Max(0, math.Min(1, v))

	x := int(u * float64(t.Width))
	y := int(v * float64(t.Height))
	if x >= t.Width {
		x = t.Width - 1
	}
	if y >= t.Height {
		y = t.Height - 1
	}

	i := y*t.Width + x
	return t.texels[i], t.alpha[i]
}

// Average returns the alpha-weighted mean linear colour.
func (t *Texture) Average() colorful.Color {
	if t == nil {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return t.avg
}
