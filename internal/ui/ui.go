// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-nucleus/internal/assets"
	"github.com/litescript/ls-nucleus/internal/config"
	"github.com/litescript/ls-nucleus/internal/logging"
	"github.com/litescript/ls-nucleus/internal/noise"
	"github.com/litescript/ls-nucleus/internal/scene"
	"github.com/litescript/ls-nucleus/internal/scheduler"
)

// Initial surface before the first WindowSizeMsg, in terminal cells.
const (
	defaultCols = 80
	defaultRows = 24
)

// Orbit steps for keyboard control.
const (
	orbitStep = 0.08 // radians
	dollyIn   = 0.9
	dollyOut  = 1 / dollyIn
)

type phase int

const (
	phaseLoading phase = iota
	phaseRunning
	phaseFailed
)

// Msg types for Bubble Tea
type (
	// AnimTickMsg drives the loading spinner.
	AnimTickMsg time.Time

	// texturesLoadedMsg carries the result of the texture batch.
	texturesLoadedMsg struct {
		textures map[string]*assets.Texture
		err      error
	}

	// ConfigReloadMsg carries a reloaded configuration file.
	ConfigReloadMsg struct {
		Config config.Config
		Err    error
	}
)

// Options configures the terminal model.
type Options struct {
	Context  context.Context
	Config   config.Config
	Provider assets.Provider
	Files    map[string]string // texture name -> path; nil uses assets.DefaultTextures
	Clock    scheduler.Clock
	Logger   *logging.Logger
	Plain    bool // draw without colour

	// Scene randomness; nil derives both from Config.Seed.
	Rand  *rand.Rand
	Field noise.Field
}

// engine is the mutable state shared by every copy of the Model.
type engine struct {
	scene *scene.Scene
	sched *scheduler.Scheduler
	host  *teaHost
	plain bool

	view     string
	fps      float64
	lastTick time.Duration
}

func (e *engine) tick(elapsed time.Duration) {
	e.scene.Step(elapsed)
	e.draw()

	if e.lastTick > 0 && elapsed > e.lastTick {
		inst := 1 / (elapsed - e.lastTick).Seconds()
		if e.fps == 0 {
			e.fps = inst
		} else {
			e.fps = e.fps*0.9 + inst*0.1
		}
	}
	e.lastTick = elapsed
}

func (e *engine) draw() {
	f := e.scene.Render()
	if e.plain {
		e.view = f.Plain()
	} else {
		e.view = f.String()
	}
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	ctx      context.Context
	cfg      config.Config
	provider assets.Provider
	files    map[string]string
	logger   *logging.Logger
	eng      *engine

	// UI state
	phase     phase
	err       error
	width     int
	height    int
	ready     bool
	showHUD   bool
	statusMsg string
	animTick  int
}

// New builds the scene and a model that loads its textures and then runs
// the animation.
func New(opts Options) (Model, error) {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	files := opts.Files
	if files == nil {
		files = assets.DefaultTextures()
	}
	provider := opts.Provider
	if provider == nil {
		provider = assets.NewProcedural(opts.Config.Seed)
	}

	sc, err := scene.New(opts.Config, scene.Options{
		Rand:   opts.Rand,
		Field:  opts.Field,
		Width:  defaultCols,
		Height: defaultRows * 2,
		Logger: logger.With("scene"),
	})
	if err != nil {
		return Model{}, err
	}

	eng := &engine{
		scene: sc,
		host:  newTeaHost(opts.Config.HostInterval()),
		plain: opts.Plain,
	}
	eng.sched = scheduler.New(eng.host, opts.Clock, opts.Config.Interval(), eng.tick)

	return Model{
		ctx:      ctx,
		cfg:      opts.Config,
		provider: provider,
		files:    files,
		logger:   logger,
		eng:      eng,
		phase:    phaseLoading,
		showHUD:  true,
	}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadTextures(),
		animTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.eng.sched.Stop()
			return m, tea.Quit
		default:
			if m.phase == phaseRunning {
				m.handleKey(msg.String())
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()

	case texturesLoadedMsg:
		if msg.err != nil {
			m.fail(msg.err)
			break
		}
		if err := m.eng.scene.AttachTextures(msg.textures); err != nil {
			m.fail(err)
			break
		}
		m.logger.Info("Textures loaded, starting animation at %.0f fps", m.cfg.FPS)
		m.phase = phaseRunning
		m.resize()
		m.eng.draw()
		m.eng.sched.Start()

	case FrameMsg:
		cmds = append(cmds, m.eng.host.frame())

	case AnimTickMsg:
		m.animTick++
		if m.phase == phaseLoading {
			cmds = append(cmds, animTickCmd())
		}

	case ConfigReloadMsg:
		if msg.Err != nil {
			m.logger.Warn("Config reload failed: %v", msg.Err)
			m.statusMsg = "config reload failed: " + msg.Err.Error()
			break
		}
		m.eng.scene.ApplyTuning(msg.Config.Tuning())
		m.cfg = msg.Config
		m.statusMsg = "config reloaded"
		m.logger.Info("Applied reloaded config")
	}

	// Starting or resuming the scheduler requests a frame.
	cmds = append(cmds, m.eng.host.arm())
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(key string) {
	ctl := m.eng.scene.Controls
	switch key {
	case " ":
		if m.eng.sched.Running() {
			m.eng.sched.Stop()
		} else {
			m.eng.sched.Start()
		}
	case "h":
		m.showHUD = !m.showHUD
		m.resize()
	case "left":
		ctl.RotateLeft(orbitStep)
	case "right":
		ctl.RotateLeft(-orbitStep)
	case "up":
		ctl.RotateUp(orbitStep)
	case "down":
		ctl.RotateUp(-orbitStep)
	case "+", "=":
		ctl.Dolly(dollyIn)
	case "-", "_":
		ctl.Dolly(dollyOut)
	case "a":
		ctl.AutoRotate = !ctl.AutoRotate
	case "r":
		ctl.Reset()
		m.eng.draw()
	}
}

func (m *Model) fail(err error) {
	m.phase = phaseFailed
	m.err = err
	m.eng.sched.Stop()

	var lerr *assets.LoadError
	if errors.As(err, &lerr) {
		m.logger.Error("Texture %s failed to load from %s: %v", lerr.Name, lerr.Path, lerr.Err)
	} else {
		m.logger.Error("Scene setup failed: %v", err)
	}
}

// surfaceSize converts the terminal size to render pixels: one column per
// pixel and two pixel rows per text row.
func (m Model) surfaceSize() (int, int) {
	rows := m.height - m.chromeHeight()
	return m.width, rows * 2
}

func (m *Model) resize() {
	w, h := m.surfaceSize()
	if w <= 0 || h <= 0 {
		return
	}
	m.eng.scene.Resize(w, h)
	if m.phase == phaseRunning {
		m.eng.draw()
	}
}

func (m Model) loadTextures() tea.Cmd {
	ctx, provider, files := m.ctx, m.provider, m.files
	return func() tea.Msg {
		textures, err := provider.Load(ctx, files)
		return texturesLoadedMsg{textures: textures, err: err}
	}
}

// Err returns the initialization failure, if any.
func (m Model) Err() error {
	return m.err
}

// Running reports whether the animation is scheduled.
func (m Model) Running() bool {
	return m.eng.sched.Running()
}

// Scene exposes the scene driven by the model.
func (m Model) Scene() *scene.Scene {
	return m.eng.scene
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}
