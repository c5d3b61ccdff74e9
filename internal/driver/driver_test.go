package driver

import (
	"context"
	"errors"
	"image"
	"io/fs"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-nucleus/internal/assets"
	"github.com/litescript/ls-nucleus/internal/config"
	"github.com/litescript/ls-nucleus/internal/noise"
	"github.com/litescript/ls-nucleus/internal/scene"
	"github.com/litescript/ls-nucleus/internal/scheduler"
)

type stubProvider struct {
	textures map[string]*assets.Texture
	err      error
	block    chan struct{}
}

func (p stubProvider) Load(ctx context.Context, files map[string]string) (map[string]*assets.Texture, error) {
	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return p.textures, p.err
}

func stubTextures() map[string]*assets.Texture {
	out := make(map[string]*assets.Texture)
	for name := range assets.DefaultTextures() {
		out[name] = assets.NewTexture(name, image.NewRGBA(image.Rect(0, 0, 2, 2)))
	}
	return out
}

func newTestDriver(t *testing.T) (*Driver, *scheduler.ManualClock) {
	t.Helper()
	cfg := config.Default()
	cfg.Nucleus.Detail = 2

	sc, err := scene.New(cfg, scene.Options{
		Rand:   rand.New(rand.NewPCG(5, 6)),
		Field:  noise.Func(func(x, y float64) float64 { return math.Cos(x - y) }),
		Width:  32,
		Height: 24,
	})
	require.NoError(t, err)

	clock := scheduler.NewManualClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	return New(sc, clock, cfg.Interval(), nil), clock
}

func TestDriverStartsAfterLoad(t *testing.T) {
	d, clock := newTestDriver(t)

	assert.NoError(t, d.Poll(), "poll before load")
	assert.ErrorIs(t, d.Simulate(clock, 0, 1), ErrNotLoaded)

	d.Load(context.Background(), stubProvider{textures: stubTextures()}, assets.DefaultTextures())
	require.NoError(t, d.Wait(context.Background()))

	assert.True(t, d.Scheduler().Running())
	require.NotNil(t, d.Latest())

	require.NoError(t, d.Simulate(clock, 8*time.Millisecond, 10))
	assert.Equal(t, uint64(10), d.Scheduler().Ticks())
	assert.Equal(t, uint64(10), d.Scene().Stats().Ticks)
}

func TestDriverPollIsNonBlocking(t *testing.T) {
	d, _ := newTestDriver(t)
	release := make(chan struct{})

	d.Load(context.Background(), stubProvider{textures: stubTextures(), block: release}, assets.DefaultTextures())
	assert.NoError(t, d.Poll())
	assert.False(t, d.Scheduler().Running())

	close(release)
	assert.Eventually(t, func() bool {
		return d.Poll() == nil && d.Scheduler().Running()
	}, time.Second, time.Millisecond)
}

func TestDriverLoadFailure(t *testing.T) {
	d, _ := newTestDriver(t)
	loadErr := &assets.LoadError{Name: assets.Sky, Path: "sky.jpg", Err: fs.ErrNotExist}

	d.Load(context.Background(), stubProvider{err: loadErr}, assets.DefaultTextures())
	err := d.Wait(context.Background())

	var lerr *assets.LoadError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, "sky.jpg", lerr.Path)
	assert.False(t, d.Scheduler().Running())
	assert.Nil(t, d.Latest())

	// The failure is permanent.
	assert.Equal(t, err, d.Poll())
}

func TestDriverWaitCancelled(t *testing.T) {
	d, _ := newTestDriver(t)
	ctx, cancel := context.WithCancel(context.Background())

	d.Load(ctx, stubProvider{block: make(chan struct{})}, assets.DefaultTextures())
	cancel()

	assert.ErrorIs(t, d.Wait(ctx), context.Canceled)
	assert.False(t, d.Scheduler().Running())
}

func TestDriverResize(t *testing.T) {
	d, _ := newTestDriver(t)
	d.Load(context.Background(), stubProvider{textures: stubTextures()}, assets.DefaultTextures())
	require.NoError(t, d.Wait(context.Background()))

	d.Resize(64, 16)
	f := d.Latest()
	assert.Equal(t, 64, f.Width)
	assert.Equal(t, 16, f.Height)
	assert.Equal(t, 4.0, d.Scene().Camera.Aspect)
}
