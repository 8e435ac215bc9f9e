package capture

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/teslashibe/termcam/internal/log"
)

const probeTimeout = 5 * time.Second

// cameraDemuxer returns the ffmpeg input format used for the local
// camera on this platform.
func cameraDemuxer() string {
	switch runtime.GOOS {
	case "darwin":
		return "avfoundation"
	case "windows":
		return "dshow"
	default:
		return "v4l2"
	}
}

// ProbeFFmpeg is the cheap feasibility check for the hardware path: the
// binary must exist, respond within the timeout, and list the platform
// camera demuxer. It never opens the camera.
func ProbeFFmpeg(path string) error {
	if path == "" {
		path = "ffmpeg"
	}
	if _, err := exec.LookPath(path); err != nil {
		return fmt.Errorf("ffmpeg not found: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, "-hide_banner", "-demuxers")
	out, err := cmd.Output()
	if ctx.Err() != nil {
		return fmt.Errorf("ffmpeg -demuxers timeout after %s", probeTimeout)
	}
	if err != nil {
		return fmt.Errorf("ffmpeg -demuxers failed: %w", err)
	}

	want := cameraDemuxer()
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		// format is usually: " D  v4l2  Video4Linux2 device grab",
		// where fields[0] is flags and fields[1] is the demuxer name.
		if len(fields) >= 2 && fields[1] == want {
			log.Debug("ffmpeg probe ok", "demuxer", want)
			return nil
		}
	}
	return fmt.Errorf("ffmpeg has no %s input support", want)
}
