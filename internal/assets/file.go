package assets

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // sky and star textures
	_ "image/png"  // flare sprites
	"io/fs"
	"sync"

	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/webp" // planet textures
	"golang.org/x/sync/errgroup"
)

// DefaultMaxSize bounds the longest texture edge after loading.
const DefaultMaxSize = 512

// FileProvider decodes textures from a filesystem, one goroutine per file.
type FileProvider struct {
	fsys    fs.FS
	maxSize int
}

// FileOption configures a FileProvider.
type FileOption func(*FileProvider)

// WithMaxSize sets the longest edge textures are downsampled to.
// Zero disables downsampling.
func WithMaxSize(n int) FileOption {
	return func(p *FileProvider) {
		p.maxSize = n
	}
}

// NewFileProvider creates a provider reading from fsys.
func NewFileProvider(fsys fs.FS, opts ...FileOption) *FileProvider {
	p := &FileProvider{
		fsys:    fsys,
		maxSize: DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load implements Provider. The first failure cancels the remaining loads
// and is returned as a *LoadError.
func (p *FileProvider) Load(ctx context.Context, files map[string]string) (map[string]*Texture, error) {
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	out := make(map[string]*Texture, len(files))

	for _, name := range sortedNames(files) {
		name, path := name, files[name]
		g.Go(func() error {
			tex, err := p.loadOne(ctx, name, path)
			if err != nil {
				return &LoadError{Name: name, Path: path, Err: err}
			}
			mu.Lock()
			out[name] = tex
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *FileProvider) loadOne(ctx context.Context, name, path string) (*Texture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := p.fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	return NewTexture(name, p.downsample(img)), nil
}

func (p *FileProvider) downsample(img image.Image) image.Image {
	if p.maxSize <= 0 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= p.maxSize && h <= p.maxSize {
		return img
	}

	if w >= h {
		h = max(1, h*p.maxSize/w)
		w = p.maxSize
	} else {
		w = max(1, w*p.maxSize/h)
		h = p.maxSize
	}
	return transform.Resize(img, w, h, transform.Linear)
}
