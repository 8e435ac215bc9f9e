// termcam - live camera as text in your terminal
//
// Renders a camera feed as a glyph grid, using an ffmpeg subprocess
// when available and falling back to OpenCV still capture otherwise.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/teslashibe/termcam/internal/config"
	"github.com/teslashibe/termcam/internal/log"
	"github.com/teslashibe/termcam/pkg/ascii"
	"github.com/teslashibe/termcam/pkg/capture"
	"github.com/teslashibe/termcam/pkg/render"
	"github.com/teslashibe/termcam/pkg/term"
	"github.com/teslashibe/termcam/pkg/web"
)

// ui carries the mutable pieces the event loop and callbacks share.
type ui struct {
	mu         sync.Mutex
	width      int // glyph grid width
	height     int // glyph grid height
	lastGrid   string
	lastStats  render.Stats
	showStatus bool
	rampIdx    int
}

func (u *ui) dims() (int, int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.width, u.height
}

func main() {
	cfg := config.FromEnv()

	fps := flag.Int("fps", cfg.TargetFPS, "Target render frames per second")
	device := flag.Int("device", cfg.Device, "Capture device index")
	ffmpegPath := flag.String("ffmpeg", cfg.FFmpegPath, "ffmpeg binary for the hardware path")
	hwaccel := flag.String("hwaccel", cfg.HWAccel, "ffmpeg hardware acceleration hint (e.g. auto)")
	rampName := flag.String("ramp", cfg.Ramp, "Character ramp preset: blocks, classic, dense")
	webPort := flag.String("web", cfg.WebPort, "Stats dashboard port (empty disables)")
	snapshotDir := flag.String("snapshot-dir", cfg.SnapshotDir, "Directory for snapshot files")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	flag.Parse()

	cfg.TargetFPS = *fps
	cfg.Device = *device
	cfg.FFmpegPath = *ffmpegPath
	cfg.HWAccel = *hwaccel
	cfg.Ramp = *rampName
	cfg.WebPort = *webPort
	cfg.SnapshotDir = *snapshotDir
	cfg.LogLevel = *logLevel

	log.Init(cfg.LogLevel)

	if problems := cfg.Validate(); len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintln(os.Stderr, "config:", p)
		}
		os.Exit(1)
	}

	if !term.IsTerminal() {
		fmt.Fprintln(os.Stderr, "termcam needs a terminal on stdout")
		os.Exit(1)
	}

	ramp, ok := ascii.Preset(cfg.Ramp)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown ramp %q (have: %v)\n", cfg.Ramp, ascii.PresetNames)
		os.Exit(1)
	}

	if err := run(cfg, ramp); err != nil {
		fmt.Fprintln(os.Stderr, "termcam:", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, ramp ascii.Ramp) error {
	cols, rows, err := term.Size()
	if err != nil {
		return err
	}

	state := &ui{showStatus: true}
	state.width, state.height = gridSize(cols, rows)
	for i, name := range ascii.PresetNames {
		if name == cfg.Ramp {
			state.rampIdx = i
		}
	}

	sup := capture.NewSupervisor(capture.SupervisorConfig{
		FFmpeg: capture.FFmpegConfig{
			Path:    cfg.FFmpegPath,
			Device:  cfg.Device,
			HWAccel: cfg.HWAccel,
		},
		Device: cfg.Device,
	})

	mode, err := sup.Initialize(state.width, state.height)
	if err != nil {
		return fmt.Errorf("initialize capture: %w", err)
	}
	defer sup.Cleanup()

	sched, err := render.NewScheduler(sup, ascii.NewConverter(), state.dims, cfg.TargetFPS, ramp)
	if err != nil {
		return err
	}

	display := term.NewDisplay(os.Stdout)
	display.Init()
	defer display.Close()

	var dashboard *web.Server
	if cfg.WebPort != "" {
		dashboard = web.NewServer(cfg.WebPort, cfg, sup.Status)
		dashboard.OnSnapshot = func() (string, error) {
			state.mu.Lock()
			grid := state.lastGrid
			state.mu.Unlock()
			return term.SaveSnapshot(cfg.SnapshotDir, grid)
		}
		dashboard.StartAsync()
	}

	onFrame := func(grid string) {
		state.mu.Lock()
		state.lastGrid = grid
		status := ""
		if state.showStatus {
			status = statusLine(mode, state.lastStats, state.width, state.height)
		}
		w := state.width
		state.mu.Unlock()

		display.Draw(grid, status, w)
	}

	onStats := func(stats render.Stats) {
		state.mu.Lock()
		state.lastStats = stats
		state.mu.Unlock()
		if dashboard != nil {
			dashboard.PushStats(stats)
		}
	}

	if err := sched.Start(onFrame, onStats); err != nil {
		return err
	}
	defer sched.Stop()

	keys, kb := openKeys()
	if kb != nil {
		defer kb.Close()
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)

	for {
		select {
		case <-sigc:
			return nil

		case <-winch:
			if err := resize(sup, display, state); err != nil {
				return err
			}

		case key, ok := <-keys:
			if !ok {
				keys = nil // stdin closed, keep rendering
				continue
			}
			switch key {
			case 'q', 3: // q or Ctrl-C in raw mode
				return nil
			case 's':
				snapshot(cfg.SnapshotDir, state)
			case 'r':
				cycleRamp(sched, state)
			case 'i':
				state.mu.Lock()
				state.showStatus = !state.showStatus
				state.mu.Unlock()
			}
		}
	}
}

// gridSize converts terminal cells to glyph grid dimensions, reserving
// the bottom row for the status line.
func gridSize(cols, rows int) (int, int) {
	h := rows - 1
	if h < 1 {
		h = 1
	}
	return cols, h
}

// resize tracks the terminal into the capture pipeline. A failed
// restart leaves the pipeline without a source, which is fatal here.
func resize(sup *capture.Supervisor, display *term.Display, state *ui) error {
	cols, rows, err := term.Size()
	if err != nil {
		log.Warn("terminal size query failed", "err", err)
		return nil
	}
	w, h := gridSize(cols, rows)

	state.mu.Lock()
	state.width, state.height = w, h
	state.mu.Unlock()

	display.Init()
	if err := sup.UpdateResolution(w, h); err != nil {
		return fmt.Errorf("resize capture: %w", err)
	}
	return nil
}

func snapshot(dir string, state *ui) {
	state.mu.Lock()
	grid := state.lastGrid
	state.mu.Unlock()

	path, err := term.SaveSnapshot(dir, grid)
	if err != nil {
		log.Warn("snapshot failed", "err", err)
		return
	}
	log.Info("snapshot saved", "path", path)
}

func cycleRamp(sched *render.Scheduler, state *ui) {
	state.mu.Lock()
	state.rampIdx = (state.rampIdx + 1) % len(ascii.PresetNames)
	name := ascii.PresetNames[state.rampIdx]
	state.mu.Unlock()

	ramp, _ := ascii.Preset(name)
	if err := sched.SetRamp(ramp); err != nil {
		log.Warn("ramp switch failed", "ramp", name, "err", err)
	}
}

// openKeys sets up raw keyboard input; without a usable TTY on stdin
// the viewer still runs, just without keybindings.
func openKeys() (<-chan byte, *term.Keyboard) {
	kb, err := term.OpenKeyboard()
	if err != nil {
		log.Warn("keyboard unavailable", "err", err)
		return nil, nil
	}
	return kb.Keys(), kb
}

func statusLine(mode capture.Mode, stats render.Stats, w, h int) string {
	return fmt.Sprintf(" %s | %.1f/%d fps | %dx%d | q quit  s snapshot  r ramp  i info",
		mode, stats.FPS, stats.TargetFPS, w, h)
}
