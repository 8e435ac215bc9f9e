package capture

// demux reassembles an unbounded byte stream into fixed-size frames.
// ffmpeg writes to its stdout pipe in whatever chunk sizes the OS
// delivers, so frame boundaries never line up with read boundaries.
type demux struct {
	frameLen int
	carry    []byte
	emit     func([]byte)
}

func newDemux(frameLen int, emit func([]byte)) *demux {
	return &demux{
		frameLen: frameLen,
		carry:    make([]byte, 0, frameLen),
		emit:     emit,
	}
}

// Feed appends a chunk and emits every complete frame it can slice off.
// After Feed returns, the carry-over is always shorter than one frame.
// Each emitted frame is a fresh copy; the chunk may be reused.
func (d *demux) Feed(chunk []byte) {
	d.carry = append(d.carry, chunk...)
	for len(d.carry) >= d.frameLen {
		buf := make([]byte, d.frameLen)
		copy(buf, d.carry[:d.frameLen])
		d.carry = d.carry[d.frameLen:]
		d.emit(buf)
	}
	// Re-slicing keeps the old backing array alive; compact once the
	// dead prefix outgrows a few frames.
	if cap(d.carry) > 4*d.frameLen {
		d.carry = append(make([]byte, 0, d.frameLen), d.carry...)
	}
}

// Pending returns the current carry-over length.
func (d *demux) Pending() int {
	return len(d.carry)
}

// Reset drops any partial frame.
func (d *demux) Reset() {
	d.carry = d.carry[:0]
}
