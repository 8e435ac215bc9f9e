package term

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Size returns the terminal geometry in character cells.
func Size() (width, height int, err error) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, fmt.Errorf("query terminal size: %w", err)
	}
	return int(ws.Col), int(ws.Row), nil
}
