// Package scene owns the animated nucleus scene: its point clouds, the
// displaced nucleus mesh, rotation state, camera and lights. It knows
// nothing about hosts or timing; callers drive it with Step.
package scene

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-nucleus/internal/assets"
	"github.com/litescript/ls-nucleus/internal/config"
	"github.com/litescript/ls-nucleus/internal/geom"
	"github.com/litescript/ls-nucleus/internal/logging"
	"github.com/litescript/ls-nucleus/internal/noise"
	"github.com/litescript/ls-nucleus/internal/render"
)

// Scene object names, used for texture bindings and logs.
const (
	ObjStars      = "stars"
	ObjComet      = "comet"
	ObjPlanet1    = "planet1"
	ObjPlanet2    = "planet2"
	ObjPlanet3    = "planet3"
	ObjNucleus    = "nucleus"
	ObjBackground = "background"
)

// ErrMissingTexture is returned when a bound texture was not loaded.
var ErrMissingTexture = errors.New("missing texture")

// Binding attaches a loaded texture to a scene object.
type Binding struct {
	Object  string
	Texture string
}

// Bindings returns the texture of every textured object.
func Bindings() []Binding {
	return []Binding{
		{ObjStars, assets.Flare1},
		{ObjComet, assets.Flare3},
		{ObjPlanet1, assets.Planet1},
		{ObjPlanet2, assets.Planet2},
		{ObjPlanet3, assets.Planet3},
		{ObjNucleus, assets.Star},
		{ObjBackground, assets.Sky},
	}
}

// Options carries the collaborators of a scene.
type Options struct {
	Rand   *rand.Rand  // point placement; nil seeds from cfg.Seed
	Field  noise.Field // displacement noise; nil uses Perlin seeded from cfg.Seed
	Width  int         // render surface in pixels
	Height int
	Logger *logging.Logger
}

// Scene is the complete animated scene.
type Scene struct {
	Camera   *render.Camera
	Controls *render.Controls

	Stars   *PointCloud
	Comet   *PointCloud
	Planets [3]*PointCloud
	Nucleus *Nucleus

	lights   render.Lights
	backdrop render.Backdrop

	displacer Displacer
	animator  Animator
	rot       Rotations

	textures map[string]*assets.Texture
	renderer *render.Renderer
	logger   *logging.Logger
}

// New builds the scene geometry, camera and lights. Textures are attached
// separately once they load.
func New(cfg config.Config, opts Options) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)^0x9e3779b97f4a7c15))
	}
	field := opts.Field
	if field == nil {
		field = noise.NewPerlin(cfg.Seed)
	}

	renderer, err := render.NewRenderer(opts.Width, opts.Height)
	if err != nil {
		return nil, fmt.Errorf("create render surface: %w", err)
	}
	renderer.MinPointCoverage = cfg.Render.MinPointCoverage

	lights, err := lightsFrom(cfg.Lights)
	if err != nil {
		return nil, err
	}

	cam := cfg.Camera
	camera := render.NewCamera(cam.FOV, float64(opts.Width)/float64(opts.Height), cam.Near, cam.Far,
		geom.Vec3{Z: cam.Distance})
	controls := render.NewControls(camera, cam.MinDistance, cam.MaxDistance)
	controls.AutoRotate = cam.AutoRotate
	controls.AutoRotateSpeed = cam.AutoRotateSpeed

	s := &Scene{
		Camera:   camera,
		Controls: controls,
		Stars:    BuildPointCloud(rng, CloudSpecFrom(ObjStars, cfg.Clouds.Stars)),
		Comet:    BuildPointCloud(rng, CloudSpecFrom(ObjComet, cfg.Clouds.Comet)),
		Planets: [3]*PointCloud{
			BuildPointCloud(rng, CloudSpecFrom(ObjPlanet1, cfg.Clouds.Planet1)),
			BuildPointCloud(rng, CloudSpecFrom(ObjPlanet2, cfg.Clouds.Planet2)),
			BuildPointCloud(rng, CloudSpecFrom(ObjPlanet3, cfg.Clouds.Planet3)),
		},
		Nucleus:  NewIcosahedron(float32(cfg.Nucleus.Radius), cfg.Nucleus.Detail),
		lights:   lights,
		backdrop: render.Backdrop{Radius: cfg.Background.Radius},
		displacer: Displacer{
			Field: field,
			Scale: cfg.Nucleus.NoiseScale,
			Speed: cfg.Nucleus.NoiseSpeed,
		},
		animator: Animator{Rates: RatesFromConfig(cfg.Rotation)},
		renderer: renderer,
		logger:   logger,
	}

	logger.Debug("Scene built: %d stars, nucleus %d vertices, surface %dx%d",
		len(s.Stars.Points), s.Nucleus.VertexCount(), opts.Width, opts.Height)
	return s, nil
}

func lightsFrom(c config.LightsConfig) (render.Lights, error) {
	dir, err := colorful.Hex(c.DirectionalColor)
	if err != nil {
		return render.Lights{}, fmt.Errorf("directional light color: %w", err)
	}
	amb, err := colorful.Hex(c.AmbientColor)
	if err != nil {
		return render.Lights{}, fmt.Errorf("ambient light color: %w", err)
	}
	p := c.DirectionalPosition
	return render.Lights{
		Ambient: render.Light{Color: linear(amb), Intensity: c.AmbientIntensity},
		Directional: render.DirectionalLight{
			Light:    render.Light{Color: linear(dir), Intensity: c.DirectionalIntensity},
			Position: geom.Vec3{X: p[0], Y: p[1], Z: p[2]},
		},
	}, nil
}

func linear(c colorful.Color) colorful.Color {
	r, g, b := c.LinearRgb()
	return colorful.Color{R: r, G: g, B: b}
}

// AttachTextures binds loaded textures to their objects. Every binding
// must be present.
func (s *Scene) AttachTextures(textures map[string]*assets.Texture) error {
	bound := make(map[string]*assets.Texture, len(Bindings()))
	for _, b := range Bindings() {
		tex, ok := textures[b.Texture]
		if !ok || tex == nil {
			return fmt.Errorf("%w: %s for %s", ErrMissingTexture, b.Texture, b.Object)
		}
		bound[b.Object] = tex
	}
	s.textures = bound
	s.backdrop.Texture = bound[ObjBackground]
	s.logger.Debug("Attached %d textures", len(bound))
	return nil
}

// Ready reports whether textures are attached.
func (s *Scene) Ready() bool {
	return s.textures != nil
}

// ApplyTuning updates the values that may change while running.
func (s *Scene) ApplyTuning(t config.Tuning) {
	s.animator.Rates = RatesFromConfig(t.Rotation)
	s.displacer.Scale = t.NoiseScale
	s.displacer.Speed = t.NoiseSpeed
	s.Controls.AutoRotate = t.AutoRotate
	s.Controls.AutoRotateSpeed = t.AutoRotateSpeed
}

// Step runs one logical tick: displace the nucleus for the elapsed
// animation time, advance rotations and move the camera.
func (s *Scene) Step(elapsed time.Duration) {
	s.displacer.Displace(s.Nucleus, float64(elapsed)/float64(time.Millisecond))
	s.animator.Tick(&s.rot)
	s.Controls.Update()
}

// Rotations returns the current rotation of every animated object.
func (s *Scene) Rotations() Rotations {
	return s.rot
}

// Graph assembles the render graph for the current state.
func (s *Scene) Graph() render.Graph {
	bg := s.backdrop
	g := render.Graph{
		Background: &bg,
		Lights:     s.lights,
		Meshes: []render.MeshNode{{
			Name:      ObjNucleus,
			Positions: s.Nucleus.Live,
			Normals:   s.Nucleus.Normals,
			Texture:   s.textures[ObjNucleus],
		}},
	}

	add := func(c *PointCloud, rot RotationState) {
		if len(c.Points) == 0 {
			return
		}
		g.Points = append(g.Points, render.PointsNode{
			Name:     c.Name,
			Points:   c.Points,
			Size:     c.Size,
			Blend:    c.Blend(),
			Texture:  s.textures[c.Name],
			Rotation: rot.Angle,
		})
	}
	add(s.Stars, s.rot.Stars)
	add(s.Comet, s.rot.Comet)
	for i, p := range s.Planets {
		add(p, s.rot.Planets[i])
	}
	return g
}

// Render draws the current state. The frame is reused by the next call.
func (s *Scene) Render() *render.Frame {
	return s.renderer.Render(s.Graph(), s.Camera)
}

// Resize adapts the camera aspect and the render surface to a new size.
// Non-positive sizes are ignored.
func (s *Scene) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	s.Camera.SetAspect(float64(w) / float64(h))
	s.renderer.Resize(w, h)
}

// Size returns the render surface size in pixels.
func (s *Scene) Size() (int, int) {
	return s.renderer.Size()
}

// Stats summarises the scene for headless output.
type Stats struct {
	Stars           int
	Comet           int
	Planets         int
	NucleusVertices int
	NucleusDetail   int
	Ticks           uint64
	Width, Height   int
	CameraDistance  float64
	Textured        bool
}

// Stats returns a summary of the scene.
func (s *Scene) Stats() Stats {
	st := Stats{
		Stars:           len(s.Stars.Points),
		Comet:           len(s.Comet.Points),
		NucleusVertices: s.Nucleus.VertexCount(),
		NucleusDetail:   s.Nucleus.Detail,
		Ticks:           s.animator.Ticks(),
		CameraDistance:  s.Controls.Distance(),
		Textured:        s.Ready(),
	}
	for _, p := range s.Planets {
		st.Planets += len(p.Points)
	}
	st.Width, st.Height = s.renderer.Size()
	return st
}
