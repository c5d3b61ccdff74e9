// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Name is the program name shown in the HUD and -version output.
const Name = "ls-nucleus"

// Milestones:
// 0.3.0 - Desktop window host (ebiten), config live reload, headless snapshots
// 0.2.0 - Texture files (jpeg/png/webp) with procedural fallback, orbit controls
// 0.1.0 - Initial release: terminal renderer, displaced nucleus, starfield, comet, planets

// String returns the name and version, e.g. "ls-nucleus v0.3.0".
func String() string {
	return Name + " v" + Version
}
