// Package render is a small software rasteriser for the nucleus scene. It
// draws a scene graph of meshes, point clouds and a background sphere into
// an RGB framebuffer that a terminal or a window can present.
package render

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-nucleus/internal/assets"
	"github.com/litescript/ls-nucleus/internal/geom"
)

// BlendMode selects how point sprites combine with the framebuffer.
type BlendMode uint8

const (
	// BlendNormal composites with source alpha.
	BlendNormal BlendMode = iota
	// BlendAdditive adds the source, weighted by alpha.
	BlendAdditive
)

func (b BlendMode) String() string {
	switch b {
	case BlendNormal:
		return "normal"
	case BlendAdditive:
		return "additive"
	default:
		return "unknown"
	}
}

// MeshNode is a triangle soup: three consecutive vertices per triangle,
// xyz triples in Positions and Normals.
type MeshNode struct {
	Name      string
	Positions []float32
	Normals   []float32
	Texture   *assets.Texture
	Rotation  geom.Euler
}

// PointsNode is a point cloud drawn as camera-facing sprites.
type PointsNode struct {
	Name     string
	Points   []geom.Vec3
	Size     float64 // world-space sprite size, attenuated by depth
	Blend    BlendMode
	Texture  *assets.Texture
	Rotation geom.Euler
}

// Backdrop is a sphere around the origin seen from its inside faces.
type Backdrop struct {
	Radius  float64
	Texture *assets.Texture
}

// Light is a coloured light intensity.
type Light struct {
	Color     colorful.Color // linear RGB
	Intensity float64
}

// DirectionalLight shines from Position toward the origin.
type DirectionalLight struct {
	Light
	Position geom.Vec3
}

// Lights is the lighting rig of the scene.
type Lights struct {
	Ambient     Light
	Directional DirectionalLight
}

// Graph is everything the renderer draws for one frame.
type Graph struct {
	Background *Backdrop
	Meshes     []MeshNode
	Points     []PointsNode
	Lights     Lights
}
