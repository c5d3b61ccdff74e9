// Command ls-nucleus renders an animated noise-displaced nucleus with a
// starfield, a comet and orbiting planets in the terminal or a window.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-nucleus/internal/assets"
	"github.com/litescript/ls-nucleus/internal/config"
	"github.com/litescript/ls-nucleus/internal/driver"
	"github.com/litescript/ls-nucleus/internal/logging"
	"github.com/litescript/ls-nucleus/internal/scene"
	"github.com/litescript/ls-nucleus/internal/scheduler"
	"github.com/litescript/ls-nucleus/internal/ui"
	"github.com/litescript/ls-nucleus/internal/version"
	"github.com/litescript/ls-nucleus/internal/window"
)

// CLI flags for headless mode
var (
	summaryMode  bool
	snapshotMode bool
	plainMode    bool
	frameCount   uint64
)

// Headless surface when stdout is not a terminal, in cells.
const (
	defaultCols = 80
	defaultRows = 24
)

// Window defaults, in screen pixels.
const (
	windowWidth  = 960
	windowHeight = 640
	windowScale  = 2
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "TOML config file (defaults apply to missing keys)")
	watch := flag.Bool("watch", false, "Reload tuning values when the config file changes")
	textureDir := flag.String("textures", "", "Texture directory (empty: generate textures)")
	fps := flag.Float64("fps", 0, "Logical frame rate, 1-240 (0: from config)")
	detail := flag.Int("detail", -1, "Nucleus subdivision detail (-1: from config)")
	seed := flag.Int64("seed", 0, "Random seed (0: from config, else time based)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Append logs to this file")
	windowMode := flag.Bool("window", false, "Open a desktop window instead of the terminal UI")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.BoolVar(&snapshotMode, "snapshot", false, "Render one frame to stdout and exit")
	flag.BoolVar(&plainMode, "plain", false, "Snapshot without colour")
	flag.Uint64Var(&frameCount, "frames", 1, "Logical ticks to run before a snapshot")
	flag.BoolVar(&summaryMode, "summary", false, "Print scene statistics and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags override the file
	if *fps > 0 {
		cfg.FPS = config.ClampFPS(*fps)
	}
	if *detail >= 0 {
		cfg.Nucleus.Detail = *detail
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if *textureDir != "" {
		cfg.Textures.Dir = *textureDir
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid config: %v\n", err)
		os.Exit(1)
	}

	headless := summaryMode || snapshotMode

	// Set up logging
	logger, err := newLogger(*logLevel, *logFile, !headless && !*windowMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	provider := newProvider(cfg, logger)
	files := textureFiles(cfg)
	logger.Debug("Seed %d, %d textures, %.0f fps", cfg.Seed, len(files), cfg.FPS)

	switch {
	case headless:
		err = runHeadless(ctx, cfg, provider, files, logger)
	case *windowMode:
		err = runWindow(ctx, cfg, provider, files, logger)
	default:
		err = runTUI(ctx, cfg, provider, files, *configPath, *watch, logger)
	}
	if err != nil {
		var lerr *assets.LoadError
		if errors.As(err, &lerr) {
			fmt.Fprintf(os.Stderr, "%s: %s (%s): %v\n", ui.DiagnosticTitle, lerr.Name, lerr.Path, lerr.Err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newLogger creates the process logger. The terminal UI owns the screen,
// so without a log file its logs are dropped.
func newLogger(level, path string, tui bool) (*logging.Logger, error) {
	lvl := logging.ParseLevel(level)
	if path != "" {
		return logging.Open(path, lvl)
	}
	logger := logging.New(lvl)
	if tui {
		logger.SetOutput(io.Discard)
	}
	return logger, nil
}

func newProvider(cfg config.Config, logger *logging.Logger) assets.Provider {
	if cfg.Textures.Dir == "" {
		logger.Debug("Using generated textures")
		return assets.NewProcedural(cfg.Seed)
	}
	logger.Debug("Loading textures from %s", cfg.Textures.Dir)
	return assets.NewFileProvider(os.DirFS(cfg.Textures.Dir), assets.WithMaxSize(cfg.Textures.MaxSize))
}

// textureFiles merges configured paths over the default layout.
func textureFiles(cfg config.Config) map[string]string {
	files := assets.DefaultTextures()
	for name, path := range cfg.Textures.Files {
		files[name] = path
	}
	return files
}

func runTUI(ctx context.Context, cfg config.Config, provider assets.Provider, files map[string]string,
	configPath string, watch bool, logger *logging.Logger) error {
	model, err := ui.New(ui.Options{
		Context:  ctx,
		Config:   cfg,
		Provider: provider,
		Files:    files,
		Logger:   logger.With("ui"),
	})
	if err != nil {
		return err
	}

	// Create Bubble Tea program
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if watch && configPath != "" {
		go func() {
			err := config.Watch(ctx, configPath, func(c config.Config, err error) {
				p.Send(ui.ConfigReloadMsg{Config: c, Err: err})
			})
			if err != nil {
				logger.Warn("Config watch stopped: %v", err)
			}
		}()
	}

	// Run TUI (blocks until quit)
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run TUI: %w", err)
	}
	if m, ok := final.(ui.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}

func runWindow(ctx context.Context, cfg config.Config, provider assets.Provider, files map[string]string,
	logger *logging.Logger) error {
	sc, err := scene.New(cfg, scene.Options{
		Width:  windowWidth / windowScale,
		Height: windowHeight / windowScale,
		Logger: logger.With("scene"),
	})
	if err != nil {
		return err
	}

	d := driver.New(sc, scheduler.SystemClock(), cfg.Interval(), logger.With("driver"))
	d.Load(ctx, provider, files)

	return window.Run(ctx, d, window.Options{
		Width:  windowWidth,
		Height: windowHeight,
		Scale:  windowScale,
		TPS:    cfg.Render.HostRate,
	})
}

// runHeadless renders without the TUI. Animation time is simulated, so
// -frames N costs N ticks of CPU rather than N ticks of wall time.
func runHeadless(ctx context.Context, cfg config.Config, provider assets.Provider, files map[string]string,
	logger *logging.Logger) error {
	cols, rows := defaultCols, defaultRows
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	if isTTY {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 1 {
			cols, rows = w, h-1 // leave the prompt line
		}
	}

	sc, err := scene.New(cfg, scene.Options{
		Width:  cols,
		Height: rows * 2,
		Logger: logger.With("scene"),
	})
	if err != nil {
		return err
	}

	clock := scheduler.NewManualClock(time.Now())
	d := driver.New(sc, clock, cfg.Interval(), logger.With("driver"))
	d.Load(ctx, provider, files)
	if err := d.Wait(ctx); err != nil {
		return err
	}

	if err := d.Simulate(clock, cfg.HostInterval(), frameCount); err != nil {
		return err
	}

	if snapshotMode {
		f := d.Latest()
		if plainMode {
			fmt.Println(f.Plain())
		} else {
			fmt.Println(f.String())
		}
	}

	if summaryMode {
		if snapshotMode {
			fmt.Println()
		}
		writeSummary(os.Stdout, sc.Stats(), d.Scheduler(), cfg)
	}
	return nil
}

func writeSummary(w io.Writer, st scene.Stats, sched *scheduler.Scheduler, cfg config.Config) {
	fmt.Fprintf(w, "%s\n", version.String())
	fmt.Fprintf(w, "  Stars:            %d\n", st.Stars)
	fmt.Fprintf(w, "  Comet:            %d\n", st.Comet)
	fmt.Fprintf(w, "  Planets:          %d\n", st.Planets)
	fmt.Fprintf(w, "  Nucleus:          %d vertices (detail %d)\n", st.NucleusVertices, st.NucleusDetail)
	fmt.Fprintf(w, "  Surface:          %dx%d px\n", st.Width, st.Height)
	fmt.Fprintf(w, "  Frame rate:       %.0f fps\n", cfg.FPS)
	fmt.Fprintf(w, "  Ticks:            %d\n", st.Ticks)
	fmt.Fprintf(w, "  Animation time:   %v\n", sched.Elapsed().Round(time.Millisecond))
	fmt.Fprintf(w, "  Camera distance:  %.1f\n", st.CameraDistance)
	fmt.Fprintf(w, "  Seed:             %d\n", cfg.Seed)
}
