// Package capture owns the two frame producers (ffmpeg hardware path,
// OpenCV software path) and the supervisor that selects between them.
package capture

import (
	"github.com/teslashibe/termcam/pkg/frame"
)

// State is the lifecycle state of a frame source.
type State int

const (
	StateIdle State = iota
	StateStarting
	StateStreaming // hardware path: subprocess is emitting frames
	StateRunning   // software path: acquisition loop is active
	StateStopped
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateStreaming:
		return "streaming"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Source is a frame producer. Exactly one source is active at a time;
// the supervisor selects which one at initialization.
type Source interface {
	// Start begins producing frames at the given capture resolution.
	Start(width, height int) error

	// Stop terminates production, releases resources and clears the
	// published frame. Safe to call when not running.
	Stop() error

	// Latest returns the most recent published frame without blocking.
	// ok is false until the first frame lands.
	Latest() (frame.Frame, bool)

	// UpdateResolution reconfigures the capture resolution. A call with
	// the current dimensions is a no-op.
	UpdateResolution(width, height int) error

	// State reports the source lifecycle state.
	State() State
}
