// Package driver runs a scene outside Bubble Tea: it loads textures in the
// background, starts the scheduler once they are attached, and turns host
// frames into scene ticks. The window host and the headless snapshot mode
// both use it.
package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/litescript/ls-nucleus/internal/assets"
	"github.com/litescript/ls-nucleus/internal/logging"
	"github.com/litescript/ls-nucleus/internal/render"
	"github.com/litescript/ls-nucleus/internal/scene"
	"github.com/litescript/ls-nucleus/internal/scheduler"
)

// ErrNotLoaded is returned when frames are requested before textures load.
var ErrNotLoaded = errors.New("textures not loaded")

type loadResult struct {
	textures map[string]*assets.Texture
	err      error
}

// Driver owns the scheduler of one scene.
type Driver struct {
	scene  *scene.Scene
	host   *scheduler.ManualHost
	sched  *scheduler.Scheduler
	logger *logging.Logger

	loading chan loadResult
	err     error
	frame   *render.Frame
}

// New creates a driver ticking sc every interval of clock time.
func New(sc *scene.Scene, clock scheduler.Clock, interval time.Duration, logger *logging.Logger) *Driver {
	if logger == nil {
		logger = logging.Discard()
	}
	d := &Driver{
		scene:  sc,
		host:   scheduler.NewManualHost(),
		logger: logger,
	}
	d.sched = scheduler.New(d.host, clock, interval, d.tick)
	return d
}

func (d *Driver) tick(elapsed time.Duration) {
	d.scene.Step(elapsed)
	d.frame = d.scene.Render()
}

// Load starts loading textures in the background. Poll reports the
// outcome.
func (d *Driver) Load(ctx context.Context, p assets.Provider, files map[string]string) {
	ch := make(chan loadResult, 1)
	d.loading = ch
	go func() {
		tex, err := p.Load(ctx, files)
		ch <- loadResult{textures: tex, err: err}
	}()
}

// Poll checks for a finished texture load without blocking. On success it
// attaches the textures and starts the scheduler. It returns the
// initialization error, which is permanent once set.
func (d *Driver) Poll() error {
	if d.err != nil || d.loading == nil {
		return d.err
	}
	select {
	case res := <-d.loading:
		d.finish(res)
	default:
	}
	return d.err
}

// Wait blocks until the texture load finishes or ctx is done.
func (d *Driver) Wait(ctx context.Context) error {
	if d.err != nil || d.loading == nil {
		return d.err
	}
	select {
	case res := <-d.loading:
		d.finish(res)
	case <-ctx.Done():
		d.err = ctx.Err()
		d.loading = nil
	}
	return d.err
}

func (d *Driver) finish(res loadResult) {
	d.loading = nil
	if res.err != nil {
		d.err = fmt.Errorf("load textures: %w", res.err)
		return
	}
	if err := d.scene.AttachTextures(res.textures); err != nil {
		d.err = err
		return
	}
	d.logger.Info("Textures attached, starting scheduler")
	d.frame = d.scene.Render()
	d.sched.Start()
}

// Frame delivers one host frame signal. It does nothing until the
// scheduler has started.
func (d *Driver) Frame() {
	d.host.Pump()
}

// Latest returns the most recently rendered frame, nil before textures are
// attached.
func (d *Driver) Latest() *render.Frame {
	return d.frame
}

// Resize resizes the scene and redraws the latest frame at the new size.
func (d *Driver) Resize(w, h int) {
	if cw, ch := d.scene.Size(); cw == w && ch == h {
		return
	}
	d.scene.Resize(w, h)
	if d.frame != nil {
		d.frame = d.scene.Render()
	}
}

// Scheduler exposes the scheduler, for pausing and statistics.
func (d *Driver) Scheduler() *scheduler.Scheduler {
	return d.sched
}

// Scene returns the driven scene.
func (d *Driver) Scene() *scene.Scene {
	return d.scene
}

// Simulate runs ticks logical ticks on clock, pumping one host frame per
// hostInterval of simulated time. It is how headless snapshots advance the
// animation without waiting in real time.
func (d *Driver) Simulate(clock *scheduler.ManualClock, hostInterval time.Duration, ticks uint64) error {
	if !d.sched.Running() {
		return ErrNotLoaded
	}
	if hostInterval <= 0 {
		hostInterval = d.sched.Limiter().Interval()
	}
	target := d.sched.Ticks() + ticks
	for d.sched.Ticks() < target {
		clock.Advance(hostInterval)
		d.Frame()
	}
	return nil
}
