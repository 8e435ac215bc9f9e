package term

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/teslashibe/termcam/internal/log"
)

// Keyboard reads single keypresses from stdin in raw mode.
type Keyboard struct {
	fd    int
	saved unix.Termios
	keys  chan byte
}

// OpenKeyboard switches stdin to raw mode and starts delivering
// keypresses on Keys.
func OpenKeyboard() (*Keyboard, error) {
	fd := int(os.Stdin.Fd())

	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return nil, fmt.Errorf("stdin is not a terminal: %w", err)
	}

	k := &Keyboard{
		fd:    fd,
		saved: *termios,
		keys:  make(chan byte, 8),
	}

	raw := *termios
	raw.Lflag &^= unix.ICANON | unix.ECHO
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &raw); err != nil {
		return nil, fmt.Errorf("set raw mode: %w", err)
	}

	go k.readLoop()
	return k, nil
}

// Keys delivers one byte per keypress. The channel closes when stdin
// does.
func (k *Keyboard) Keys() <-chan byte {
	return k.keys
}

func (k *Keyboard) readLoop() {
	defer close(k.keys)

	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			log.Debug("keyboard read ended", "err", err)
			return
		}
		if n > 0 {
			k.keys <- buf[0]
		}
	}
}

// Close restores the saved terminal mode.
func (k *Keyboard) Close() error {
	if err := unix.IoctlSetTermios(k.fd, ioctlSetTermios, &k.saved); err != nil {
		return fmt.Errorf("restore terminal mode: %w", err)
	}
	return nil
}
