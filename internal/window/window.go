// Package window presents the scene in a desktop window with ebiten.
package window

import (
	"context"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/litescript/ls-nucleus/internal/driver"
	"github.com/litescript/ls-nucleus/internal/version"
)

// Options configures the window.
type Options struct {
	Width, Height int     // initial window size in screen pixels
	Scale         int     // screen pixels per render pixel
	TPS           float64 // host frame signals per second
}

// Orbit steps per update while an arrow key is held.
const (
	orbitStep = 0.03
	dollyIn   = 0.98
	dollyOut  = 1 / dollyIn
)

// Run opens a window showing the driven scene and blocks until it is closed,
// ctx is cancelled, or initialization fails.
func Run(ctx context.Context, d *driver.Driver, opts Options) error {
	if opts.Scale < 1 {
		opts.Scale = 1
	}
	g := &game{ctx: ctx, d: d, scale: opts.Scale}

	ebiten.SetWindowTitle(version.String())
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if opts.TPS > 0 {
		ebiten.SetTPS(int(opts.TPS))
	}

	err := ebiten.RunGame(g)
	if err == ebiten.Termination {
		return nil
	}
	return err
}

type game struct {
	ctx   context.Context
	d     *driver.Driver
	scale int

	img   *image.RGBA
	fbImg *ebiten.Image
}

func (g *game) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}

	if err := g.d.Poll(); err != nil {
		return err
	}
	if g.handleKeys() {
		return ebiten.Termination
	}
	g.d.Frame()
	return nil
}

// handleKeys applies keyboard controls and reports whether to quit.
func (g *game) handleKeys() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return true
	}
	if !g.d.Scene().Ready() {
		return false
	}

	sched := g.d.Scheduler()
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if sched.Running() {
			sched.Stop()
		} else {
			sched.Start()
		}
	}

	ctl := g.d.Scene().Controls
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		ctl.AutoRotate = !ctl.AutoRotate
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		ctl.Reset()
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		ctl.RotateLeft(orbitStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		ctl.RotateLeft(-orbitStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		ctl.RotateUp(orbitStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		ctl.RotateUp(-orbitStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyEqual) || ebiten.IsKeyPressed(ebiten.KeyNumpadAdd) {
		ctl.Dolly(dollyIn)
	}
	if ebiten.IsKeyPressed(ebiten.KeyMinus) || ebiten.IsKeyPressed(ebiten.KeyNumpadSubtract) {
		ctl.Dolly(dollyOut)
	}
	return false
}

func (g *game) Draw(screen *ebiten.Image) {
	f := g.d.Latest()
	if f == nil {
		return
	}
	if g.img == nil || g.img.Bounds().Dx() != f.Width || g.img.Bounds().Dy() != f.Height {
		g.img = image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(f.Width, f.Height)
	}

	f.CopyTo(g.img)
	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := max(1, outsideWidth/g.scale), max(1, outsideHeight/g.scale)
	g.d.Resize(w, h)
	return w, h
}
