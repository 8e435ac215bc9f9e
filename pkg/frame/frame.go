// Package frame defines the captured-frame record and the single-slot
// latest-frame holder shared between capture sources and the renderer.
package frame

import (
	"fmt"
	"sync"
	"time"
)

// Representation describes how Frame.Bytes encode pixels.
type Representation int

const (
	// RawGrayscale is exactly Width*Height bytes, one brightness byte
	// per pixel, no encoding.
	RawGrayscale Representation = iota

	// EncodedImage is a compressed still image (JPEG, PNG, ...) that
	// needs a decode before pixel access.
	EncodedImage
)

func (r Representation) String() string {
	switch r {
	case RawGrayscale:
		return "raw-grayscale"
	case EncodedImage:
		return "encoded-image"
	default:
		return "unknown"
	}
}

// Frame is one captured video frame.
//
// Bytes must not be modified after the frame is published to a Slot;
// readers receive it by reference.
type Frame struct {
	Bytes          []byte
	Width          int
	Height         int
	Representation Representation
	CapturedAt     time.Time
}

// Validate checks the raw-grayscale size invariant.
func (f Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", f.Width, f.Height)
	}
	if f.Representation == RawGrayscale && len(f.Bytes) != f.Width*f.Height {
		return fmt.Errorf("raw frame is %d bytes, want %d (%dx%d)",
			len(f.Bytes), f.Width*f.Height, f.Width, f.Height)
	}
	return nil
}

// Slot holds the most recent frame, overwrite-on-publish. The whole
// record is swapped under a mutex so a reader never sees old dimensions
// paired with new bytes. Replaced frames are simply dropped; there is
// no queue.
type Slot struct {
	mu    sync.RWMutex
	cur   Frame
	valid bool
}

// NewSlot returns an empty slot.
func NewSlot() *Slot {
	return &Slot{}
}

// Publish replaces the held frame.
func (s *Slot) Publish(f Frame) {
	s.mu.Lock()
	s.cur = f
	s.valid = true
	s.mu.Unlock()
}

// Latest returns the held frame, or ok=false if nothing has been
// published yet. Never blocks on a producer.
func (s *Slot) Latest() (Frame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur, s.valid
}

// Clear empties the slot, e.g. when a source stops.
func (s *Slot) Clear() {
	s.mu.Lock()
	s.cur = Frame{}
	s.valid = false
	s.mu.Unlock()
}
