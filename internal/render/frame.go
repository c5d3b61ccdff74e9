package render

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Frame is a rendered image: linear RGB pixels and their view depth.
type Frame struct {
	Width  int
	Height int

	pix   []colorful.Color
	depth []float64
}

func newFrame(w, h int) *Frame {
	f := &Frame{}
	f.resize(w, h)
	return f
}

func (f *Frame) resize(w, h int) {
	f.Width, f.Height = w, h
	f.pix = make([]colorful.Color, w*h)
	f.depth = make([]float64, w*h)
}

func (f *Frame) clear() {
	for i := range f.pix {
		f.pix[i] = colorful.Color{}
		f.depth[i] = math.Inf(1)
	}
}

// At returns the display (sRGB, clamped) colour of a pixel.
func (f *Frame) At(x, y int) colorful.Color {
	c := f.pix[y*f.Width+x]
	return colorful.LinearRgb(c.R, c.G, c.B).Clamped()
}

// Depth returns the view depth written at a pixel, +Inf where nothing
// opaque was drawn.
func (f *Frame) Depth(x, y int) float64 {
	return f.depth[y*f.Width+x]
}

// quantize snaps a display colour to a 5-bit-per-channel hex string so
// neighbouring cells share styles more often.
func quantize(c colorful.Color) string {
	q := func(v float64) float64 { return math.Round(v*31) / 31 }
	return colorful.Color{R: q(c.R), G: q(c.G), B: q(c.B)}.Hex()
}

const black = "#000000"

// String renders the frame for a terminal: each character cell shows two
// vertically stacked pixels with an upper half block, the top pixel as
// foreground and the bottom pixel as background. Runs of equal colours are
// styled once.
func (f *Frame) String() string {
	var b strings.Builder
	rows := f.Height / 2

	for cy := 0; cy < rows; cy++ {
		var run strings.Builder
		var curFg, curBg string

		flush := func() {
			if run.Len() == 0 {
				return
			}
			if curFg == black && curBg == black {
				b.WriteString(strings.Repeat(" ", run.Len()/len("▀")))
			} else {
				style := lipgloss.NewStyle().
					Foreground(lipgloss.Color(curFg)).
					Background(lipgloss.Color(curBg))
				b.WriteString(style.Render(run.String()))
			}
			run.Reset()
		}

		for x := 0; x < f.Width; x++ {
			fg := quantize(f.At(x, 2*cy))
			bg := quantize(f.At(x, 2*cy+1))
			if fg != curFg || bg != curBg {
				flush()
				curFg, curBg = fg, bg
			}
			run.WriteString("▀")
		}
		flush()

		if cy < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// asciiRamp orders glyphs from dark to bright.
const asciiRamp = " .:-=+*#%@"

// Plain renders the frame as uncoloured ASCII, one character per pair of
// pixel rows.
func (f *Frame) Plain() string {
	var b strings.Builder
	rows := f.Height / 2
	for cy := 0; cy < rows; cy++ {
		for x := 0; x < f.Width; x++ {
			lum := (luminance(f.At(x, 2*cy)) + luminance(f.At(x, 2*cy+1))) / 2
			idx := int(math.Round(lum * float64(len(asciiRamp)-1)))
			b.WriteByte(asciiRamp[idx])
		}
		if cy < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Image copies the frame into an RGBA image.
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	f.CopyTo(img)
	return img
}

// CopyTo writes the frame into img, which must be at least as large.
func (f *Frame) CopyTo(img *image.RGBA) {
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			r, g, b := f.At(x, y).RGB255()
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
}

func luminance(c colorful.Color) float64 {
	return math.Max(0, math.Min(1, 0.2126*c.R+0.7152*c.G+0.0722*c.B))
}
