package capture

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"gocv.io/x/gocv"

	"github.com/teslashibe/termcam/internal/log"
	"github.com/teslashibe/termcam/pkg/frame"
)

// defaultPollInterval paces the software acquisition loop. The webcam
// driver services one read at a time, so polling faster than it can
// deliver only produces skipped iterations.
const defaultPollInterval = 50 * time.Millisecond

// WebcamSource is the CPU fallback: a polling loop against an OpenCV
// VideoCapture that grabs one still at a time, JPEG-encodes it and
// publishes it as the latest frame. The converter handles decode and
// resize, so published dimensions are whatever the camera delivers.
type WebcamSource struct {
	device       int
	pollInterval time.Duration
	slot         *frame.Slot

	mu     sync.Mutex
	cap    *gocv.VideoCapture
	state  State
	width  int
	height int

	busy     atomic.Bool
	stopFlag atomic.Bool
	loopDone chan struct{}
}

// NewWebcamSource creates a stopped software source for a device index.
func NewWebcamSource(device int) *WebcamSource {
	return &WebcamSource{
		device:       device,
		pollInterval: defaultPollInterval,
		slot:         frame.NewSlot(),
	}
}

// Start opens the capture device and begins the acquisition loop.
func (s *WebcamSource) Start(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid capture resolution %dx%d", width, height)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRunning {
		return fmt.Errorf("webcam source already started")
	}

	cam, err := gocv.OpenVideoCapture(s.device)
	if err != nil {
		return fmt.Errorf("open capture device %d: %w", s.device, err)
	}

	// Hints only; many drivers snap to the nearest supported mode and
	// the converter resizes to the glyph grid regardless.
	cam.Set(gocv.VideoCaptureFrameWidth, float64(width))
	cam.Set(gocv.VideoCaptureFrameHeight, float64(height))

	s.cap = cam
	s.width = width
	s.height = height
	s.state = StateRunning
	s.stopFlag.Store(false)
	s.loopDone = make(chan struct{})

	go s.loop(cam, s.loopDone)

	log.Info("webcam capture started", "device", s.device,
		"requested", fmt.Sprintf("%dx%d", width, height))
	return nil
}

// loop acquires stills until the stop flag is observed at the top of an
// iteration. Ticker-paced rather than busy-waiting so the render loop
// and subprocess readers are never starved.
func (s *WebcamSource) loop(cam *gocv.VideoCapture, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	mat := gocv.NewMat()
	defer mat.Close()

	for range ticker.C {
		if s.stopFlag.Load() {
			return
		}
		// The driver cannot service concurrent acquisitions; if one is
		// still outstanding, skip this cycle entirely.
		if !s.busy.CompareAndSwap(false, true) {
			continue
		}
		s.acquire(cam, &mat)
		s.busy.Store(false)
	}
}

// acquire grabs one still and publishes it. Failures are transient:
// log, keep the previous frame visible, retry next cycle.
func (s *WebcamSource) acquire(cam *gocv.VideoCapture, mat *gocv.Mat) {
	if ok := cam.Read(mat); !ok || mat.Empty() {
		log.Debug("webcam read returned no image", "device", s.device)
		return
	}

	buf, err := gocv.IMEncode(".jpg", *mat)
	if err != nil {
		log.Warn("webcam frame encode failed", "err", err)
		return
	}
	defer buf.Close()

	// The native buffer is released on Close; copy out first.
	encoded := buf.GetBytes()
	data := make([]byte, len(encoded))
	copy(data, encoded)

	s.slot.Publish(frame.Frame{
		Bytes:          data,
		Width:          mat.Cols(),
		Height:         mat.Rows(),
		Representation: frame.EncodedImage,
		CapturedAt:     time.Now(),
	})
}

// Stop flags the loop down, waits for the in-flight iteration to
// finish, then releases the device and clears the published frame.
func (s *WebcamSource) Stop() error {
	s.mu.Lock()
	if s.state != StateRunning {
		s.state = StateStopped
		s.mu.Unlock()
		s.slot.Clear()
		return nil
	}
	done := s.loopDone
	cam := s.cap
	s.mu.Unlock()

	s.stopFlag.Store(true)
	<-done

	s.mu.Lock()
	s.cap = nil
	s.state = StateStopped
	s.mu.Unlock()

	err := cam.Close()
	s.slot.Clear()
	log.Info("webcam capture stopped", "device", s.device)
	if err != nil {
		return fmt.Errorf("close capture device: %w", err)
	}
	return nil
}

// Latest returns the most recent published still.
func (s *WebcamSource) Latest() (frame.Frame, bool) {
	return s.slot.Latest()
}

// UpdateResolution restarts acquisition with new dimension hints. A
// call with the current dimensions does nothing.
func (s *WebcamSource) UpdateResolution(width, height int) error {
	s.mu.Lock()
	same := s.width == width && s.height == height
	s.mu.Unlock()
	if same {
		return nil
	}
	if err := s.Stop(); err != nil {
		return err
	}
	return s.Start(width, height)
}

// State reports the source lifecycle state.
func (s *WebcamSource) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
