// Package config provides configuration helpers for termcam commands.
package config

import (
	"os"
	"strconv"
)

// Defaults for the capture pipeline.
const (
	DefaultTargetFPS  = 15
	DefaultDevice     = 0
	DefaultFFmpegPath = "ffmpeg"
	DefaultWebPort    = ""
	DefaultRamp       = "blocks"
)

// Config holds all termcam configuration parameters.
// Flags in cmd/termcam override env values, env overrides defaults.
type Config struct {
	// TargetFPS is the render cadence the scheduler drives at.
	TargetFPS int `json:"target_fps"`

	// Device is the capture device index passed to the backend
	// (e.g. /dev/video0 on Linux, avfoundation index on macOS).
	Device int `json:"device"`

	// FFmpegPath is the ffmpeg binary used for the hardware path.
	FFmpegPath string `json:"ffmpeg_path"`

	// HWAccel is an acceleration hint passed through to ffmpeg
	// (e.g. "auto", "videotoolbox", "vaapi"). Empty means none.
	HWAccel string `json:"hwaccel"`

	// Ramp selects the character ramp preset.
	Ramp string `json:"ramp"`

	// WebPort enables the stats dashboard when non-empty (e.g. "8090").
	WebPort string `json:"web_port"`

	// SnapshotDir is where glyph-grid snapshots are written.
	SnapshotDir string `json:"snapshot_dir"`

	// LogLevel is the slog level: debug, info, warn, error.
	LogLevel string `json:"log_level"`
}

// Default returns the recommended configuration.
func Default() Config {
	return Config{
		TargetFPS:   DefaultTargetFPS,
		Device:      DefaultDevice,
		FFmpegPath:  DefaultFFmpegPath,
		HWAccel:     "",
		Ramp:        DefaultRamp,
		WebPort:     DefaultWebPort,
		SnapshotDir: ".",
		LogLevel:    "info",
	}
}

// FromEnv returns the default config with TERMCAM_* env overrides applied.
func FromEnv() Config {
	cfg := Default()
	cfg.TargetFPS = envInt("TERMCAM_FPS", cfg.TargetFPS)
	cfg.Device = envInt("TERMCAM_DEVICE", cfg.Device)
	cfg.FFmpegPath = envStr("TERMCAM_FFMPEG", cfg.FFmpegPath)
	cfg.HWAccel = envStr("TERMCAM_HWACCEL", cfg.HWAccel)
	cfg.Ramp = envStr("TERMCAM_RAMP", cfg.Ramp)
	cfg.WebPort = envStr("TERMCAM_WEB_PORT", cfg.WebPort)
	cfg.SnapshotDir = envStr("TERMCAM_SNAPSHOT_DIR", cfg.SnapshotDir)
	cfg.LogLevel = envStr("TERMCAM_LOG_LEVEL", cfg.LogLevel)
	return cfg
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.TargetFPS < 1 || c.TargetFPS > 120 {
		errors = append(errors, "target_fps must be between 1 and 120")
	}
	if c.Device < 0 {
		errors = append(errors, "device must be >= 0")
	}
	if c.FFmpegPath == "" {
		errors = append(errors, "ffmpeg_path must not be empty")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if c.LogLevel != "" && !validLevels[c.LogLevel] {
		errors = append(errors, "log_level must be debug, info, warn, or error")
	}

	return errors
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
