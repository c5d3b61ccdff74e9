package render

import (
	"math"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-nucleus/internal/geom"
)

func testCamera() *Camera {
	return NewCamera(55, 1, 0.01, 1000, geom.Vec3{Z: 150})
}

func TestCameraProjectCentre(t *testing.T) {
	cam := testCamera()

	x, y, depth, ok := cam.Project(geom.Vec3{})
	require.True(t, ok)
	assert.InDelta(t, 0, x, 1e-12)
	assert.InDelta(t, 0, y, 1e-12)
	assert.InDelta(t, 150, depth, 1e-9)

	// Up in world space is up on screen, right is right.
	_, y, _, _ = cam.Project(geom.Vec3{Y: 10})
	assert.Greater(t, y, 0.0)
	x, _, _, _ = cam.Project(geom.Vec3{X: 10})
	assert.Greater(t, x, 0.0)
}

func TestCameraProjectClipping(t *testing.T) {
	cam := testCamera()

	_, _, _, ok := cam.Project(geom.Vec3{Z: 200})
	assert.False(t, ok, "behind the camera")

	_, _, _, ok = cam.Project(geom.Vec3{Z: -2000})
	assert.False(t, ok, "past the far plane")
}

func TestCameraSetAspect(t *testing.T) {
	cam := testCamera()
	p := geom.Vec3{X: 10}

	x1, _, _, _ := cam.Project(p)
	cam.SetAspect(2)
	x2, _, _, _ := cam.Project(p)
	assert.InDelta(t, x1/2, x2, 1e-12)

	for _, bad := range []float64{0, -1, math.Inf(1), math.NaN()} {
		cam.SetAspect(bad)
		assert.Equal(t, 2.0, cam.Aspect)
	}
}

func TestCameraRayInvertsProject(t *testing.T) {
	cam := testCamera()
	p := geom.Vec3{X: 12, Y: -7, Z: 30}

	x, y, _, ok := cam.Project(p)
	require.True(t, ok)

	ray := cam.Ray(x, y)
	want := p.Sub(cam.Position).Normalized()
	assert.InDelta(t, want.X, ray.X, 1e-9)
	assert.InDelta(t, want.Y, ray.Y, 1e-9)
	assert.InDelta(t, want.Z, ray.Z, 1e-9)
}

func TestControlsClampDistance(t *testing.T) {
	cam := testCamera()
	c := NewControls(cam, 150, 350)

	c.Dolly(10)
	c.Update()
	assert.InDelta(t, 350, c.Distance(), 1e-9)
	assert.InDelta(t, 350, cam.Position.Norm(), 1e-9)

	c.Dolly(0.01)
	c.Update()
	assert.InDelta(t, 150, c.Distance(), 1e-9)

	c.Dolly(0) // ignored
	c.Update()
	assert.InDelta(t, 150, c.Distance(), 1e-9)
}

func TestControlsAutoRotate(t *testing.T) {
	cam := testCamera()
	c := NewControls(cam, 150, 350)
	c.AutoRotateSpeed = 5

	c.Update()
	assert.InDelta(t, 0, c.Azimuth(), 1e-12, "no motion while disabled")

	c.AutoRotate = true
	for i := 0; i < 720; i++ {
		c.Update()
	}
	// 720 steps at speed 5 is one full revolution.
	assert.InDelta(t, -2*math.Pi, c.Azimuth(), 1e-9)
	assert.InDelta(t, 150, cam.Position.Z, 1e-6)
	assert.InDelta(t, 150, c.Distance(), 1e-9)
}

func TestControlsPolesAndReset(t *testing.T) {
	cam := testCamera()
	c := NewControls(cam, 150, 350)

	c.RotateUp(10)
	c.Update()
	assert.Greater(t, cam.Position.Y, 149.0)
	assert.False(t, math.IsNaN(cam.Forward().X))

	c.RotateLeft(1)
	c.Dolly(2)
	c.Reset()
	assert.InDelta(t, 0, cam.Position.X, 1e-9)
	assert.InDelta(t, 0, cam.Position.Y, 1e-9)
	assert.InDelta(t, 150, cam.Position.Z, 1e-9)
}

func TestNewRendererRejectsEmptySurface(t *testing.T) {
	for _, size := range [][2]int{{0, 10}, {10, 0}, {-1, -1}} {
		_, err := NewRenderer(size[0], size[1])
		assert.ErrorIs(t, err, ErrNoSurface)
	}
}

func TestRendererResize(t *testing.T) {
	r, err := NewRenderer(8, 6)
	require.NoError(t, err)

	r.Resize(20, 10)
	w, h := r.Size()
	assert.Equal(t, 20, w)
	assert.Equal(t, 10, h)

	r.Resize(0, 5)
	w, h = r.Size()
	assert.Equal(t, 20, w)
	assert.Equal(t, 10, h)

	f := r.Render(Graph{}, testCamera())
	assert.Equal(t, 20, f.Width)
	assert.Equal(t, 10, f.Height)
}

func TestRenderEmptyGraphIsBlack(t *testing.T) {
	r, err := NewRenderer(10, 10)
	require.NoError(t, err)

	f := r.Render(Graph{}, testCamera())
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			assert.Equal(t, colorful.Color{}, f.At(x, y))
			assert.True(t, math.IsInf(f.Depth(x, y), 1))
		}
	}
	assert.Equal(t, strings.Repeat(" ", 10), strings.Split(f.String(), "\n")[0])
}

func TestRenderBackdropFillsView(t *testing.T) {
	r, err := NewRenderer(16, 12)
	require.NoError(t, err)

	f := r.Render(Graph{Background: &Backdrop{Radius: 500}}, testCamera())
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			require.False(t, math.IsInf(f.Depth(x, y), 1), "pixel %d,%d", x, y)
		}
	}

	// The camera sits outside a small backdrop, so only its far face shows.
	f = r.Render(Graph{Background: &Backdrop{Radius: 10}}, testCamera())
	d := f.Depth(8, 6)
	assert.Greater(t, d, 150.0)
	assert.LessOrEqual(t, d, 160.0)
	assert.True(t, math.IsInf(f.Depth(0, 0), 1))
}

// frontTriangle is a single triangle facing +Z.
func frontTriangle() MeshNode {
	return MeshNode{
		Name:      "tri",
		Positions: []float32{-20, -20, 0, 20, -20, 0, 0, 20, 0},
		Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
	}
}

func TestRenderMeshShadingAndCulling(t *testing.T) {
	r, err := NewRenderer(20, 20)
	require.NoError(t, err)

	lights := Lights{
		Ambient: Light{Color: colorful.Color{R: 1, G: 1, B: 1}, Intensity: 0.5},
		Directional: DirectionalLight{
			Light:    Light{Color: colorful.Color{R: 1, G: 1, B: 1}, Intensity: 0.5},
			Position: geom.Vec3{Z: 1},
		},
	}

	f := r.Render(Graph{Meshes: []MeshNode{frontTriangle()}, Lights: lights}, testCamera())
	assert.InDelta(t, 150, f.Depth(10, 10), 1e-6)
	assert.InDelta(t, 1, f.At(10, 10).R, 1e-9)

	// Rotating half a turn about Y shows the back face, which is culled.
	back := frontTriangle()
	back.Rotation = geom.Euler{Y: math.Pi}
	f = r.Render(Graph{Meshes: []MeshNode{back}, Lights: lights}, testCamera())
	assert.True(t, math.IsInf(f.Depth(10, 10), 1))
}

func TestRenderPointsBlend(t *testing.T) {
	r, err := NewRenderer(20, 20)
	require.NoError(t, err)
	cam := testCamera()

	big := PointsNode{Points: []geom.Vec3{{}}, Size: 30, Blend: BlendAdditive}
	f := r.Render(Graph{Points: []PointsNode{big, big}}, cam)
	// Two additive white sprites saturate to white.
	assert.Equal(t, 1.0, f.At(10, 10).R)
	// Sprites never write depth.
	assert.True(t, math.IsInf(f.Depth(10, 10), 1))

	// A mesh in front hides the sprite behind it.
	tri := frontTriangle()
	for i := 2; i < len(tri.Positions); i += 3 {
		tri.Positions[i] = 50
	}
	f = r.Render(Graph{Meshes: []MeshNode{tri}, Points: []PointsNode{big}}, cam)
	assert.Equal(t, 0.0, f.At(10, 10).R)
}

func TestRenderSubPixelPointCoverage(t *testing.T) {
	r, err := NewRenderer(20, 20)
	require.NoError(t, err)
	r.MinPointCoverage = 0.5

	tiny := PointsNode{Points: []geom.Vec3{{}}, Size: 0.01, Blend: BlendNormal}
	f := r.Render(Graph{Points: []PointsNode{tiny}}, testCamera())

	lit := 0
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if f.At(x, y).R > 0 {
				lit++
			}
		}
	}
	assert.Equal(t, 1, lit)
}

func TestFrameTextRendering(t *testing.T) {
	r, err := NewRenderer(6, 4)
	require.NoError(t, err)

	f := r.Render(Graph{Background: &Backdrop{Radius: 500}}, testCamera())
	assert.Len(t, strings.Split(f.String(), "\n"), 2)

	plain := f.Plain()
	lines := strings.Split(plain, "\n")
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.Len(t, l, 6)
		assert.Equal(t, strings.Repeat("@", 6), l, "untextured backdrop is white")
	}

	img := f.Image()
	assert.Equal(t, 6, img.Bounds().Dx())
	assert.Equal(t, uint8(255), img.RGBAAt(0, 0).R)
}

func TestBlendModeString(t *testing.T) {
	assert.Equal(t, "normal", BlendNormal.String())
	assert.Equal(t, "additive", BlendAdditive.String())
	assert.Equal(t, "unknown", BlendMode(9).String())
}
