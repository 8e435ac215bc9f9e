package capture

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/teslashibe/termcam/internal/log"
	"github.com/teslashibe/termcam/pkg/frame"
)

// Mode identifies which backend a capture session runs on. It is fixed
// at Initialize and never reassigned mid-session: a hardware crash does
// not auto-downgrade to software.
type Mode int

const (
	ModeHardware Mode = iota
	ModeSoftware
)

func (m Mode) String() string {
	if m == ModeHardware {
		return "hardware"
	}
	return "software"
}

// SupervisorConfig configures backend selection.
type SupervisorConfig struct {
	FFmpeg FFmpegConfig

	// Device is the software-path device index.
	Device int

	// Probe overrides the hardware feasibility check. Nil means
	// ProbeFFmpeg.
	Probe func(ffmpegPath string) error

	// newSource overrides source construction, for tests.
	newSource func(Mode) Source
}

// Supervisor owns exactly one active frame source and presents a
// uniform latest-frame contract to the renderer.
type Supervisor struct {
	cfg       SupervisorConfig
	sessionID string

	mu     sync.Mutex
	mode   Mode
	src    Source
	width  int
	height int
}

// Status is a snapshot for the status line and the web dashboard.
type Status struct {
	SessionID string `json:"session_id"`
	Mode      string `json:"mode"`
	State     string `json:"state"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// NewSupervisor creates an uninitialized supervisor.
func NewSupervisor(cfg SupervisorConfig) *Supervisor {
	return &Supervisor{
		cfg:       cfg,
		sessionID: uuid.NewString(),
	}
}

// Initialize probes the hardware path, constructs and starts the
// selected source, and returns the resolved mode. A missing ffmpeg is
// not an error, it just selects software; a source that fails to start
// is.
func (s *Supervisor) Initialize(width, height int) (Mode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.src != nil {
		return s.mode, fmt.Errorf("supervisor already initialized")
	}

	probe := s.cfg.Probe
	if probe == nil {
		probe = ProbeFFmpeg
	}

	var mode Mode
	if err := probe(s.cfg.FFmpeg.Path); err == nil {
		mode = ModeHardware
	} else {
		log.Info("hardware path unavailable, using software capture", "reason", err)
		mode = ModeSoftware
	}

	newSource := s.cfg.newSource
	if newSource == nil {
		newSource = func(m Mode) Source {
			if m == ModeHardware {
				return NewFFmpegSource(s.cfg.FFmpeg)
			}
			return NewWebcamSource(s.cfg.Device)
		}
	}
	src := newSource(mode)

	if err := src.Start(width, height); err != nil {
		return mode, fmt.Errorf("start %s source: %w", mode, err)
	}

	s.src = src
	s.mode = mode
	s.width = width
	s.height = height
	log.Info("capture session initialized",
		"session", s.sessionID, "mode", mode.String(),
		"resolution", fmt.Sprintf("%dx%d", width, height))
	return mode, nil
}

// Latest is a non-blocking read of the active source's frame slot.
// ok is false before the first frame lands or when no source is active.
func (s *Supervisor) Latest() (frame.Frame, bool) {
	s.mu.Lock()
	src := s.src
	s.mu.Unlock()

	if src == nil {
		return frame.Frame{}, false
	}
	return src.Latest()
}

// UpdateResolution delegates to the active source. The source stops
// completely before restarting, so no stale-dimension frame can be
// published across the change. The mode is not re-probed.
//
// On failure the pipeline is left without an active source; callers
// must treat this as fatal to the operation.
func (s *Supervisor) UpdateResolution(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.src == nil {
		return fmt.Errorf("supervisor not initialized")
	}
	if s.width == width && s.height == height {
		return nil
	}
	if err := s.src.UpdateResolution(width, height); err != nil {
		s.src = nil
		return fmt.Errorf("resolution change to %dx%d: %w", width, height, err)
	}
	s.width = width
	s.height = height
	return nil
}

// Cleanup stops the active source and releases its resources.
func (s *Supervisor) Cleanup() {
	s.mu.Lock()
	src := s.src
	s.src = nil
	s.mu.Unlock()

	if src != nil {
		if err := src.Stop(); err != nil {
			log.Warn("source stop failed during cleanup", "err", err)
		}
	}
}

// Mode returns the resolved capture mode.
func (s *Supervisor) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SessionID returns the capture session identifier.
func (s *Supervisor) SessionID() string {
	return s.sessionID
}

// Status returns a snapshot of the capture session.
func (s *Supervisor) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		SessionID: s.sessionID,
		Mode:      s.mode.String(),
		State:     "uninitialized",
		Width:     s.width,
		Height:    s.height,
	}
	if s.src != nil {
		st.State = s.src.State().String()
	}
	return st
}
