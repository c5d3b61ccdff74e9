// Package config holds the tunable constants of the nucleus scene and loads
// overrides from a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Frame rate bounds accepted from flags or files.
const (
	MinFPS = 1.0
	MaxFPS = 240.0
)

// Config is the complete scene configuration.
type Config struct {
	FPS        float64          `toml:"fps"`
	Seed       int64            `toml:"seed"` // 0 picks a seed at startup
	Textures   TextureConfig    `toml:"textures"`
	Nucleus    NucleusConfig    `toml:"nucleus"`
	Background BackgroundConfig `toml:"background"`
	Clouds     CloudsConfig     `toml:"clouds"`
	Rotation   RotationConfig   `toml:"rotation"`
	Camera     CameraConfig     `toml:"camera"`
	Lights     LightsConfig     `toml:"lights"`
	Render     RenderConfig     `toml:"render"`
}

// TextureConfig locates the texture files. An empty Dir selects the
// procedural textures.
type TextureConfig struct {
	Dir     string            `toml:"dir"`
	MaxSize int               `toml:"max_size"`
	Files   map[string]string `toml:"files"`
}

// NucleusConfig shapes the displaced central sphere.
type NucleusConfig struct {
	Radius     float64 `toml:"radius"`
	Detail     int     `toml:"detail"`
	NoiseScale float64 `toml:"noise_scale"`
	NoiseSpeed float64 `toml:"noise_speed"` // noise phase per millisecond
}

// BackgroundConfig sizes the textured sphere seen from inside.
type BackgroundConfig struct {
	Radius float64 `toml:"radius"`
}

// CloudConfig describes one point cloud.
type CloudConfig struct {
	Count       int     `toml:"count"`
	Min         float64 `toml:"min"`
	Max         float64 `toml:"max"`
	Size        float64 `toml:"size"`
	Transparent bool    `toml:"transparent"`
}

// CloudsConfig groups the five point clouds of the scene.
type CloudsConfig struct {
	Stars   CloudConfig `toml:"stars"`
	Comet   CloudConfig `toml:"comet"`
	Planet1 CloudConfig `toml:"planet1"`
	Planet2 CloudConfig `toml:"planet2"`
	Planet3 CloudConfig `toml:"planet3"`
}

// RotationConfig holds per-tick angle increments in radians.
type RotationConfig struct {
	Stars   float64 `toml:"stars"`
	CometZ  float64 `toml:"comet_z"`
	CometY  float64 `toml:"comet_y"`
	Planet1 float64 `toml:"planet1"`
	Planet2 float64 `toml:"planet2"`
	Planet3 float64 `toml:"planet3"`
}

// CameraConfig configures the perspective camera and its orbit controls.
type CameraConfig struct {
	FOV             float64 `toml:"fov"`
	Near            float64 `toml:"near"`
	Far             float64 `toml:"far"`
	Distance        float64 `toml:"distance"`
	MinDistance     float64 `toml:"min_distance"`
	MaxDistance     float64 `toml:"max_distance"`
	AutoRotate      bool    `toml:"auto_rotate"`
	AutoRotateSpeed float64 `toml:"auto_rotate_speed"`
}

// LightsConfig configures the directional and ambient lights.
type LightsConfig struct {
	DirectionalColor     string     `toml:"directional_color"`
	DirectionalIntensity float64    `toml:"directional_intensity"`
	DirectionalPosition  [3]float64 `toml:"directional_position"`
	AmbientColor         string     `toml:"ambient_color"`
	AmbientIntensity     float64    `toml:"ambient_intensity"`
}

// RenderConfig tunes the software renderer and the host loop.
type RenderConfig struct {
	HostRate         float64 `toml:"host_rate"` // host frame signals per second
	MinPointCoverage float64 `toml:"min_point_coverage"`
}

// Default returns the stock nucleus scene.
func Default() Config {
	return Config{
		FPS: 60,
		Textures: TextureConfig{
			MaxSize: 512,
		},
		Nucleus: NucleusConfig{
			Radius:     20,
			Detail:     28,
			NoiseScale: 2,
			NoiseSpeed: 0.0004,
		},
		Background: BackgroundConfig{
			Radius: 90,
		},
		Clouds: CloudsConfig{
			Stars:   CloudConfig{Count: 200, Min: 130, Max: 130, Size: 0.5, Transparent: true},
			Comet:   CloudConfig{Count: 1, Min: 25, Max: 25, Size: 12, Transparent: true},
			Planet1: CloudConfig{Count: 1, Min: 40, Max: 60, Size: 9},
			Planet2: CloudConfig{Count: 1, Min: 40, Max: 60, Size: 12},
			Planet3: CloudConfig{Count: 1, Min: 40, Max: 60, Size: 12},
		},
		Rotation: RotationConfig{
			Stars:   -0.0007,
			CometZ:  -0.01,
			CometY:  0.001,
			Planet1: 0.001,
			Planet2: 0.003,
			Planet3: 0.0005,
		},
		Camera: CameraConfig{
			FOV:             55,
			Near:            0.01,
			Far:             1000,
			Distance:        150,
			MinDistance:     150,
			MaxDistance:     350,
			AutoRotate:      true,
			AutoRotateSpeed: 5,
		},
		Lights: LightsConfig{
			DirectionalColor:     "#ffffff",
			DirectionalIntensity: 1.2,
			DirectionalPosition:  [3]float64{0, 50, -20},
			AmbientColor:         "#ffffff",
			AmbientIntensity:     0.45,
		},
		Render: RenderConfig{
			HostRate:         120,
			MinPointCoverage: 0.35,
		},
	}
}

// Interval returns the logical frame interval derived from FPS.
func (c Config) Interval() time.Duration {
	return time.Duration(float64(time.Second) / c.FPS)
}

// HostInterval returns the period between host frame signals.
func (c Config) HostInterval() time.Duration {
	if c.Render.HostRate <= 0 {
		return c.Interval() / 2
	}
	return time.Duration(float64(time.Second) / c.Render.HostRate)
}

// ClampFPS bounds a requested frame rate to [MinFPS, MaxFPS].
func ClampFPS(fps float64) float64 {
	if fps < MinFPS {
		return MinFPS
	}
	if fps > MaxFPS {
		return MaxFPS
	}
	return fps
}

// Validate reports the first unusable value.
func (c Config) Validate() error {
	var errs []error

	if c.FPS < MinFPS || c.FPS > MaxFPS {
		errs = append(errs, fmt.Errorf("fps %v outside [%v, %v]", c.FPS, MinFPS, MaxFPS))
	}
	if c.Nucleus.Radius <= 0 {
		errs = append(errs, fmt.Errorf("nucleus radius must be positive, got %v", c.Nucleus.Radius))
	}
	if c.Nucleus.Detail < 0 || c.Nucleus.Detail > 64 {
		errs = append(errs, fmt.Errorf("nucleus detail %d outside [0, 64]", c.Nucleus.Detail))
	}
	if c.Background.Radius <= 0 {
		errs = append(errs, fmt.Errorf("background radius must be positive, got %v", c.Background.Radius))
	}

	clouds := map[string]CloudConfig{
		"stars":   c.Clouds.Stars,
		"comet":   c.Clouds.Comet,
		"planet1": c.Clouds.Planet1,
		"planet2": c.Clouds.Planet2,
		"planet3": c.Clouds.Planet3,
	}
	for _, name := range []string{"stars", "comet", "planet1", "planet2", "planet3"} {
		cc := clouds[name]
		if cc.Count < 0 {
			errs = append(errs, fmt.Errorf("clouds.%s: negative count %d", name, cc.Count))
		}
		if cc.Min < 0 || cc.Max < 0 {
			errs = append(errs, fmt.Errorf("clouds.%s: negative radius bound", name))
		}
		if cc.Size < 0 {
			errs = append(errs, fmt.Errorf("clouds.%s: negative size %v", name, cc.Size))
		}
	}

	cam := c.Camera
	if cam.FOV <= 0 || cam.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera fov %v outside (0, 180)", cam.FOV))
	}
	if cam.Near <= 0 || cam.Far <= cam.Near {
		errs = append(errs, fmt.Errorf("camera clip range [%v, %v] invalid", cam.Near, cam.Far))
	}
	if cam.MinDistance <= 0 || cam.MaxDistance < cam.MinDistance {
		errs = append(errs, fmt.Errorf("camera distance range [%v, %v] invalid", cam.MinDistance, cam.MaxDistance))
	}
	if c.Textures.MaxSize < 0 {
		errs = append(errs, fmt.Errorf("textures max_size must not be negative, got %d", c.Textures.MaxSize))
	}

	return errors.Join(errs...)
}

// Load reads a TOML file on top of Default. Keys absent from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode unmarshals TOML data into cfg, rejecting unknown keys and
// validating the result.
func Decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("parse config at %d:%d: %w", row, col, err)
		}
		return fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Tuning is the subset of the configuration that can change while the
// scene is running.
type Tuning struct {
	Rotation        RotationConfig
	NoiseScale      float64
	NoiseSpeed      float64
	AutoRotate      bool
	AutoRotateSpeed float64
}

// Tuning extracts the live-reloadable values.
func (c Config) Tuning() Tuning {
	return Tuning{
		Rotation:        c.Rotation,
		NoiseScale:      c.Nucleus.NoiseScale,
		NoiseSpeed:      c.Nucleus.NoiseSpeed,
		AutoRotate:      c.Camera.AutoRotate,
		AutoRotateSpeed: c.Camera.AutoRotateSpeed,
	}
}
