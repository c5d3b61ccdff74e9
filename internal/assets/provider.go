package assets

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Texture names bound by the scene.
const (
	Sky     = "sky"
	Star    = "star"
	Flare1  = "flare1"
	Flare2  = "flare2"
	Flare3  = "flare3"
	Planet1 = "planet1"
	Planet2 = "planet2"
	Planet3 = "planet3"
)

// ErrUnknownTexture is returned by providers that cannot produce a name.
var ErrUnknownTexture = errors.New("unknown texture")

// Provider resolves a set of named resources into textures. Load succeeds
// only if every resource loads.
type Provider interface {
	Load(ctx context.Context, files map[string]string) (map[string]*Texture, error)
}

// LoadError identifies the resource that failed a batch.
type LoadError struct {
	Name string
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load texture %q from %s: %v", e.Name, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// DefaultTextures returns the texture file layout of the effect, relative
// to the texture directory.
func DefaultTextures() map[string]string {
	return map[string]string{
		Sky:     "sky.jpg",
		Star:    "star.jpg",
		Flare1:  "flare1.png",
		Flare2:  "flare2.png",
		Flare3:  "flare3.png",
		Planet1: "planet1.webp",
		Planet2: "planet2.webp",
		Planet3: "planet3.webp",
	}
}

// sortedNames returns the keys of files in a stable order.
func sortedNames(files map[string]string) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
