// Package term is the terminal I/O glue around the render pipeline:
// drawing, geometry, keyboard input and snapshots.
package term

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
)

// ANSI sequences used for drawing.
const (
	ansiClear      = "\x1b[2J"
	ansiHome       = "\x1b[H"
	ansiHideCursor = "\x1b[?25l"
	ansiShowCursor = "\x1b[?25h"
	ansiInverse    = "\x1b[7m"
	ansiReset      = "\x1b[0m"
	ansiEraseLine  = "\x1b[K"
)

// Display writes glyph grids to a terminal, repainting in place.
type Display struct {
	mu  sync.Mutex
	out io.Writer
}

// NewDisplay wraps a terminal writer, normally os.Stdout.
func NewDisplay(out io.Writer) *Display {
	return &Display{out: out}
}

// IsTerminal reports whether stdout is a real TTY.
func IsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// Init clears the screen and hides the cursor.
func (d *Display) Init() {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprint(d.out, ansiClear, ansiHideCursor, ansiHome)
}

// Draw repaints the grid from the top-left. A non-empty status line is
// rendered inverse under the grid, truncated to the grid width.
func (d *Display) Draw(grid, status string, width int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	fmt.Fprint(d.out, ansiHome, grid)
	if status != "" {
		fmt.Fprint(d.out, "\n", ansiInverse,
			runewidth.Truncate(status, width, "…"),
			ansiReset, ansiEraseLine)
	}
}

// Close restores the cursor and drops the alternate styling.
func (d *Display) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprint(d.out, ansiReset, ansiShowCursor, "\n")
}
