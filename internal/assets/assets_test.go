package assets

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestTextureSample(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 128})
	tex := NewTexture("t", img)

	c, a := tex.Sample(0.1, 0.5)
	assert.InDelta(t, 1.0, c.R, 1e-9)
	assert.InDelta(t, 1.0, a, 1e-9)

	c, a = tex.Sample(0.9, 0.5)
	assert.InDelta(t, 0.0, c.R, 1e-9)
	assert.InDelta(t, 128.0/255, a, 1e-9)

	// u wraps around.
	c, _ = tex.Sample(1.1, 0.5)
	assert.InDelta(t, 1.0, c.G, 1e-9)
	c, _ = tex.Sample(-0.1, 0.5)
	assert.InDelta(t, 0.0, c.G, 1e-9)
}

func TestTextureLinearises(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	c, _ := NewTexture("grey", img).Sample(0, 0)

	// sRGB 128 is about 0.216 in linear light.
	assert.InDelta(t, 0.216, c.R, 0.01)
}

func TestNilTextureSamplesWhite(t *testing.T) {
	var tex *Texture
	c, a := tex.Sample(0.3, 0.3)
	assert.Equal(t, 1.0, c.R)
	assert.Equal(t, 1.0, a)
}

func TestFileProviderLoads(t *testing.T) {
	fsys := fstest.MapFS{
		"sky.png":   {Data: pngBytes(t, 16, 8, color.NRGBA{R: 10, G: 20, B: 200, A: 255})},
		"flare.png": {Data: pngBytes(t, 4, 4, color.NRGBA{R: 255, G: 200, B: 100, A: 255})},
	}
	p := NewFileProvider(fsys, WithMaxSize(4))

	got, err := p.Load(context.Background(), map[string]string{
		Sky:    "sky.png",
		Flare1: "flare.png",
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	sky := got[Sky]
	require.NotNil(t, sky)
	assert.Equal(t, 4, sky.Width)
	assert.Equal(t, 2, sky.Height)
	assert.Equal(t, Sky, sky.Name)

	assert.Equal(t, 4, got[Flare1].Width)
}

func TestFileProviderFailsWholeBatch(t *testing.T) {
	fsys := fstest.MapFS{
		"ok.png":  {Data: pngBytes(t, 2, 2, color.NRGBA{A: 255})},
		"bad.png": {Data: []byte("not an image")},
	}
	p := NewFileProvider(fsys)

	tests := []struct {
		name     string
		files    map[string]string
		wantName string
		wantPath string
		notExist bool
	}{
		{
			name:     "missing file",
			files:    map[string]string{Sky: "ok.png", Planet1: "planet1.webp"},
			wantName: Planet1,
			wantPath: "planet1.webp",
			notExist: true,
		},
		{
			name:     "corrupt file",
			files:    map[string]string{Sky: "ok.png", Star: "bad.png"},
			wantName: Star,
			wantPath: "bad.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Load(context.Background(), tt.files)
			require.Error(t, err)
			assert.Nil(t, got)

			var lerr *LoadError
			require.True(t, errors.As(err, &lerr))
			assert.Equal(t, tt.wantName, lerr.Name)
			assert.Equal(t, tt.wantPath, lerr.Path)
			assert.Contains(t, err.Error(), tt.wantPath)
			assert.Equal(t, tt.notExist, errors.Is(err, fs.ErrNotExist))
		})
	}
}

func TestFileProviderHonoursCancel(t *testing.T) {
	fsys := fstest.MapFS{"ok.png": {Data: pngBytes(t, 2, 2, color.NRGBA{A: 255})}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileProvider(fsys).Load(ctx, map[string]string{Sky: "ok.png"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProceduralCoversDefaultTextures(t *testing.T) {
	got, err := NewProcedural(1).Load(context.Background(), DefaultTextures())
	require.NoError(t, err)
	require.Len(t, got, len(DefaultTextures()))

	for name, tex := range got {
		assert.Equal(t, name, tex.Name)
		assert.Positive(t, tex.Width, name)
		assert.Positive(t, tex.Height, name)
	}

	// Flares fade to transparent at the corners; the sky is opaque.
	_, a := got[Flare1].Sample(0, 0)
	assert.Zero(t, a)
	_, a = got[Sky].Sample(0.5, 0.5)
	assert.Equal(t, 1.0, a)
}

func TestProceduralUnknownName(t *testing.T) {
	_, err := NewProcedural(1).Load(context.Background(), map[string]string{"moon": "moon.png"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownTexture)

	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "moon", lerr.Name)
}
