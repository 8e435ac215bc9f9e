package capture

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/teslashibe/termcam/internal/log"
	"github.com/teslashibe/termcam/pkg/frame"
)

// FFmpegConfig configures the hardware capture path.
type FFmpegConfig struct {
	// Path is the ffmpeg binary.
	Path string

	// Device is the capture device index (/dev/video<N> on Linux,
	// avfoundation index on macOS).
	Device int

	// HWAccel is passed through as -hwaccel when non-empty. Whether the
	// machine actually has that acceleration is the supervisor's probe
	// problem, not this source's.
	HWAccel string

	// InputFPS is the capture rate requested from the device.
	InputFPS int
}

// FFmpegSource runs one ffmpeg child that continuously emits raw gray8
// pixels on stdout, and reassembles that stream into discrete frames.
//
// The child's pixel geometry is fixed at launch, so a resolution change
// is a full stop/start.
type FFmpegSource struct {
	cfg  FFmpegConfig
	slot *frame.Slot

	mu       sync.Mutex
	state    State
	cmd      *exec.Cmd
	done     chan struct{}
	stopping bool
	width    int
	height   int

	wg sync.WaitGroup
}

// NewFFmpegSource creates an idle hardware source.
func NewFFmpegSource(cfg FFmpegConfig) *FFmpegSource {
	if cfg.Path == "" {
		cfg.Path = "ffmpeg"
	}
	if cfg.InputFPS <= 0 {
		cfg.InputFPS = 30
	}
	return &FFmpegSource{
		cfg:  cfg,
		slot: frame.NewSlot(),
	}
}

// Start launches the ffmpeg child for the given capture resolution.
func (s *FFmpegSource) Start(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid capture resolution %dx%d", width, height)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateStarting || s.state == StateStreaming {
		return fmt.Errorf("ffmpeg source already started")
	}

	frameLen := width * height
	cmd := exec.Command(s.cfg.Path, s.buildArgs(width, height)...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		s.state = StateError
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		s.state = StateError
		return fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		s.state = StateError
		return fmt.Errorf("spawn ffmpeg: %w", err)
	}

	done := make(chan struct{})
	s.cmd = cmd
	s.done = done
	s.state = StateStarting
	s.stopping = false
	s.width = width
	s.height = height

	log.Info("ffmpeg capture started",
		"pid", cmd.Process.Pid, "resolution", fmt.Sprintf("%dx%d", width, height),
		"hwaccel", s.cfg.HWAccel)

	dm := newDemux(frameLen, func(raw []byte) {
		s.slot.Publish(frame.Frame{
			Bytes:          raw,
			Width:          width,
			Height:         height,
			Representation: frame.RawGrayscale,
			CapturedAt:     time.Now(),
		})
	})

	s.wg.Add(2)
	go s.readFrames(stdout, dm)
	go s.drainStderr(stderr)

	// Reap the child once the pipes close. Exit while not stopping
	// means the child died on us; the supervisor does not auto-restart.
	go func() {
		defer close(done)
		s.wg.Wait()
		err := cmd.Wait()

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.stopping {
			return // Stop() owns the state transition
		}
		if err != nil {
			s.state = StateError
			log.Error("ffmpeg exited unexpectedly", "err", err)
		} else {
			s.state = StateStopped
			log.Warn("ffmpeg exited cleanly without stop")
		}
	}()

	return nil
}

// readFrames pumps stdout chunks into the demuxer until the pipe closes.
func (s *FFmpegSource) readFrames(stdout io.Reader, dm *demux) {
	defer s.wg.Done()

	buf := make([]byte, 64*1024)
	for {
		n, err := stdout.Read(buf)
		if n > 0 {
			s.markStreaming()
			dm.Feed(buf[:n])
		}
		if err != nil {
			if err != io.EOF {
				log.Debug("ffmpeg stdout read ended", "err", err)
			}
			return
		}
	}
}

func (s *FFmpegSource) markStreaming() {
	s.mu.Lock()
	if s.state == StateStarting {
		s.state = StateStreaming
	}
	s.mu.Unlock()
}

// drainStderr surfaces ffmpeg diagnostics at debug level. Left undrained
// the child can block on a full pipe.
func (s *FFmpegSource) drainStderr(stderr io.Reader) {
	defer s.wg.Done()

	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		log.Debug("ffmpeg", "line", scanner.Text())
	}
}

// Stop terminates the child, discards the carry-over and the published
// frame, and returns the source to idle.
func (s *FFmpegSource) Stop() error {
	s.mu.Lock()
	if s.cmd == nil || (s.state != StateStarting && s.state != StateStreaming) {
		s.state = StateIdle
		s.mu.Unlock()
		s.slot.Clear()
		return nil
	}
	s.stopping = true
	cmd := s.cmd
	done := s.done
	s.mu.Unlock()

	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
	<-done

	s.mu.Lock()
	s.cmd = nil
	s.state = StateIdle
	s.mu.Unlock()

	s.slot.Clear()
	log.Info("ffmpeg capture stopped")
	return nil
}

// Latest returns the most recent complete frame.
func (s *FFmpegSource) Latest() (frame.Frame, bool) {
	return s.slot.Latest()
}

// UpdateResolution restarts the child with new dimensions. A call with
// the current dimensions does nothing.
func (s *FFmpegSource) UpdateResolution(width, height int) error {
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
func (s *FFmpegSource) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// buildArgs assembles the ffmpeg invocation: platform camera input,
// scale to the glyph grid, single-channel output, raw bytes on stdout.
func (s *FFmpegSource) buildArgs(width, height int) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-nostdin"}

	if s.cfg.HWAccel != "" {
		args = append(args, "-hwaccel", s.cfg.HWAccel)
	}

	fps := strconv.Itoa(s.cfg.InputFPS)
	switch runtime.GOOS {
	case "darwin":
		args = append(args,
			"-f", "avfoundation",
			"-framerate", fps,
			"-i", strconv.Itoa(s.cfg.Device),
		)
	case "windows":
		args = append(args,
			"-f", "dshow",
			"-framerate", fps,
			"-i", fmt.Sprintf("video=%d", s.cfg.Device),
		)
	default:
		args = append(args,
			"-f", "v4l2",
			"-framerate", fps,
			"-i", fmt.Sprintf("/dev/video%d", s.cfg.Device),
		)
	}

	args = append(args,
		"-an",
		"-vf", fmt.Sprintf("scale=%d:%d,format=gray", width, height),
		"-f", "rawvideo",
		"-pix_fmt", "gray",
		"pipe:1",
	)
	return args
}
