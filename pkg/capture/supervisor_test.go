package capture

import (
	"errors"
	"testing"
	"time"

	"github.com/teslashibe/termcam/pkg/frame"
)

// stubSource records lifecycle calls for supervisor tests.
type stubSource struct {
	startCalls int
	stopCalls  int
	startErr   error
	width      int
	height     int
	slot       *frame.Slot
	state      State
}

func newStubSource() *stubSource {
	return &stubSource{slot: frame.NewSlot()}
}

func (s *stubSource) Start(w, h int) error {
	s.startCalls++
	if s.startErr != nil {
		return s.startErr
	}
	s.width, s.height = w, h
	s.state = StateStreaming
	return nil
}

func (s *stubSource) Stop() error {
	s.stopCalls++
	s.state = StateIdle
	s.slot.Clear()
	return nil
}

func (s *stubSource) Latest() (frame.Frame, bool) { return s.slot.Latest() }

func (s *stubSource) UpdateResolution(w, h int) error {
	if s.width == w && s.height == h {
		return nil
	}
	if err := s.Stop(); err != nil {
		return err
	}
	return s.Start(w, h)
}

func (s *stubSource) State() State { return s.state }

func newTestSupervisor(probeErr error, src Source) *Supervisor {
	return NewSupervisor(SupervisorConfig{
		Probe:     func(string) error { return probeErr },
		newSource: func(Mode) Source { return src },
	})
}

func TestSupervisorModeSelection(t *testing.T) {
	tests := []struct {
		name     string
		probeErr error
		want     Mode
	}{
		{name: "hardware available", probeErr: nil, want: ModeHardware},
		{name: "hardware missing", probeErr: errors.New("ffmpeg not found"), want: ModeSoftware},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newStubSource()
			sup := newTestSupervisor(tt.probeErr, src)

			mode, err := sup.Initialize(80, 24)
			if err != nil {
				t.Fatalf("Initialize() error = %v", err)
			}
			if mode != tt.want {
				t.Errorf("mode = %v, want %v", mode, tt.want)
			}
			if src.startCalls != 1 {
				t.Errorf("startCalls = %d, want 1", src.startCalls)
			}
		})
	}
}

func TestSupervisorStartFailurePropagates(t *testing.T) {
	src := newStubSource()
	src.startErr = errors.New("device busy")
	sup := newTestSupervisor(nil, src)

	if _, err := sup.Initialize(80, 24); err == nil {
		t.Fatal("Initialize() should surface source start failure")
	}
	if _, ok := sup.Latest(); ok {
		t.Error("Latest() should report no frame after failed init")
	}
}

func TestSupervisorLatest(t *testing.T) {
	src := newStubSource()
	sup := newTestSupervisor(nil, src)

	// Before initialization there is no source at all.
	if _, ok := sup.Latest(); ok {
		t.Error("Latest() before Initialize should be absent")
	}

	if _, err := sup.Initialize(4, 2); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	// Started but nothing published yet: the startup transient.
	if _, ok := sup.Latest(); ok {
		t.Error("Latest() before first publish should be absent")
	}

	src.slot.Publish(frame.Frame{
		Bytes:          make([]byte, 8),
		Width:          4,
		Height:         2,
		Representation: frame.RawGrayscale,
		CapturedAt:     time.Now(),
	})

	f, ok := sup.Latest()
	if !ok {
		t.Fatal("Latest() after publish should return a frame")
	}
	if f.Width != 4 || f.Height != 2 {
		t.Errorf("frame dimensions = %dx%d, want 4x2", f.Width, f.Height)
	}
}

func TestSupervisorUpdateResolutionIdempotent(t *testing.T) {
	src := newStubSource()
	sup := newTestSupervisor(nil, src)

	if _, err := sup.Initialize(80, 24); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	if err := sup.UpdateResolution(80, 24); err != nil {
		t.Fatalf("UpdateResolution(same) error = %v", err)
	}
	if src.stopCalls != 0 {
		t.Errorf("stopCalls = %d, same-resolution update must not tear down", src.stopCalls)
	}
	if src.startCalls != 1 {
		t.Errorf("startCalls = %d, same-resolution update must not restart", src.startCalls)
	}
}

func TestSupervisorUpdateResolutionRestarts(t *testing.T) {
	src := newStubSource()
	sup := newTestSupervisor(nil, src)

	if _, err := sup.Initialize(80, 24); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if err := sup.UpdateResolution(120, 40); err != nil {
		t.Fatalf("UpdateResolution() error = %v", err)
	}

	if src.stopCalls != 1 || src.startCalls != 2 {
		t.Errorf("stop/start calls = %d/%d, want 1/2", src.stopCalls, src.startCalls)
	}
	if src.width != 120 || src.height != 40 {
		t.Errorf("source resolution = %dx%d, want 120x40", src.width, src.height)
	}
}

func TestSupervisorCleanup(t *testing.T) {
	src := newStubSource()
	sup := newTestSupervisor(nil, src)

	if _, err := sup.Initialize(80, 24); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	sup.Cleanup()

	if src.stopCalls != 1 {
		t.Errorf("stopCalls = %d, want 1", src.stopCalls)
	}
	if _, ok := sup.Latest(); ok {
		t.Error("Latest() after Cleanup should be absent")
	}
	// Cleanup twice must not double-stop.
	sup.Cleanup()
	if src.stopCalls != 1 {
		t.Errorf("stopCalls after second Cleanup = %d, want 1", src.stopCalls)
	}
}

func TestSupervisorStatus(t *testing.T) {
	src := newStubSource()
	sup := newTestSupervisor(errors.New("no ffmpeg"), src)

	if _, err := sup.Initialize(80, 24); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	st := sup.Status()
	if st.Mode != "software" {
		t.Errorf("Mode = %q, want software", st.Mode)
	}
	if st.Width != 80 || st.Height != 24 {
		t.Errorf("dimensions = %dx%d, want 80x24", st.Width, st.Height)
	}
	if st.SessionID == "" {
		t.Error("SessionID should be set")
	}
	if st.State != "streaming" {
		t.Errorf("State = %q, want streaming", st.State)
	}
}
