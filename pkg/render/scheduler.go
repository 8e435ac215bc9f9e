// Package render drives the fixed-cadence loop that pulls the latest
// captured frame, converts it to glyphs and hands it to the display.
package render

import (
	"fmt"
	"sync"
	"time"

	"github.com/teslashibe/termcam/internal/log"
	"github.com/teslashibe/termcam/pkg/ascii"
	"github.com/teslashibe/termcam/pkg/frame"
)

// FrameProvider is the supervisor's latest-frame contract.
type FrameProvider interface {
	Latest() (frame.Frame, bool)
}

// FrameConverter turns one frame into a glyph grid.
type FrameConverter interface {
	Convert(f frame.Frame, targetWidth, targetHeight int, ramp ascii.Ramp) string
}

// DimensionFunc supplies the target glyph grid size for each tick,
// sourced from terminal geometry outside this package.
type DimensionFunc func() (width, height int)

// Scheduler renders at a fixed cadence independent of producer timing.
// The ticker owns the cadence: the next tick is always armed before the
// current tick's work runs, so a conversion that overruns the interval
// delays only itself and the displayed frame simply lags the capture.
type Scheduler struct {
	provider  FrameProvider
	converter FrameConverter
	dims      DimensionFunc
	targetFPS int

	mu      sync.Mutex
	ramp    ascii.Ramp
	running bool
	stopc   chan struct{}

	perf Perf
}

// NewScheduler wires a scheduler. targetFPS must be >= 1.
func NewScheduler(provider FrameProvider, converter FrameConverter, dims DimensionFunc, targetFPS int, ramp ascii.Ramp) (*Scheduler, error) {
	if targetFPS < 1 {
		return nil, fmt.Errorf("target fps must be >= 1, got %d", targetFPS)
	}
	if err := ramp.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ramp: %w", err)
	}
	return &Scheduler{
		provider:  provider,
		converter: converter,
		dims:      dims,
		targetFPS: targetFPS,
		ramp:      ramp,
	}, nil
}

// Start begins ticking. onFrame receives each rendered glyph grid;
// onStats (optional) receives an fps report about once per second.
func (s *Scheduler) Start(onFrame func(grid string), onStats func(Stats)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	s.stopc = make(chan struct{})

	go s.run(s.stopc, onFrame, onStats)
	return nil
}

func (s *Scheduler) run(stopc chan struct{}, onFrame func(string), onStats func(Stats)) {
	interval := time.Second / time.Duration(s.targetFPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	rendered := 0
	windowStart := time.Now()

	for {
		select {
		case <-stopc:
			return
		case <-ticker.C:
			if s.tick(onFrame) {
				rendered++
			}
			if elapsed := time.Since(windowStart); elapsed >= time.Second {
				if onStats != nil {
					w, h := s.dims()
					onStats(Stats{
						FPS:       float64(rendered) / elapsed.Seconds(),
						TargetFPS: s.targetFPS,
						Width:     w,
						Height:    h,
					})
				}
				rendered = 0
				windowStart = time.Now()
			}
		}
	}
}

// tick pulls, converts and delivers one frame. Reports whether a frame
// was rendered; before the first capture lands there is nothing to do
// and no callback fires.
func (s *Scheduler) tick(onFrame func(string)) bool {
	start := time.Now()

	f, ok := s.provider.Latest()
	acquire := time.Since(start)
	if !ok {
		return false
	}

	w, h := s.dims()
	ramp := s.currentRamp()

	convertStart := time.Now()
	grid := s.converter.Convert(f, w, h, ramp)
	convert := time.Since(convertStart)

	onFrame(grid)

	if report, full := s.perf.Record(acquire, convert, time.Since(start)); full {
		log.Debug("render perf",
			"avg_acquire", report.AvgAcquire,
			"avg_convert", report.AvgConvert,
			"avg_total", report.AvgTotal,
			"samples", report.Samples)
	}
	return true
}

// Stop cancels the tick loop. Idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	close(s.stopc)
}

// SetRamp swaps the character ramp used from the next conversion on.
// Invalid ramps are rejected.
func (s *Scheduler) SetRamp(ramp ascii.Ramp) error {
	if err := ramp.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.ramp = ramp
	s.mu.Unlock()
	return nil
}

func (s *Scheduler) currentRamp() ascii.Ramp {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ramp
}
