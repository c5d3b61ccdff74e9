package scene

import (
	"math/rand/v2"

	"github.com/litescript/ls-nucleus/internal/config"
	"github.com/litescript/ls-nucleus/internal/geom"
	"github.com/litescript/ls-nucleus/internal/render"
)

// CloudSpec describes a point cloud to generate.
type CloudSpec struct {
	Name        string
	Count       int
	Min, Max    float64 // shell radius bounds
	Size        float64
	Transparent bool // additive blending when set
}

// CloudSpecFrom converts a config entry into a CloudSpec.
func CloudSpecFrom(name string, c config.CloudConfig) CloudSpec {
	return CloudSpec{
		Name:        name,
		Count:       c.Count,
		Min:         c.Min,
		Max:         c.Max,
		Size:        c.Size,
		Transparent: c.Transparent,
	}
}

// PointCloud is a fixed set of points on spherical shells around the
// origin. The points never change after construction; rotation belongs to
// the owning scene object.
type PointCloud struct {
	Name        string
	Points      []geom.Vec3
	Size        float64
	Transparent bool
}

// Blend returns the blend mode the cloud is drawn with.
func (c *PointCloud) Blend() render.BlendMode {
	if c.Transparent {
		return render.BlendAdditive
	}
	return render.BlendNormal
}

// BuildPointCloud samples spec.Count points. Every point draws its own
// radius from [Min, Max], so a multi-point cloud spans a shell rather than a
// single sphere.
func BuildPointCloud(rng *rand.Rand, spec CloudSpec) *PointCloud {
	cloud := &PointCloud{
		Name:        spec.Name,
		Size:        spec.Size,
		Transparent: spec.Transparent,
	}
	if spec.Count <= 0 {
		return cloud
	}

	cloud.Points = make([]geom.Vec3, spec.Count)
	for i := range cloud.Points {
		r := geom.RandomRadius(rng, spec.Min, spec.Max)
		cloud.Points[i] = geom.SampleSpherePoint(rng, r)
	}
	return cloud
}
