//go:build linux || darwin

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// enterRawTerm puts stdin into raw, non-blocking mode, so that a read
// returns at most the key currently waiting.
func enterRawTerm() (restore func(), err error) {
	fd := int(os.Stdin.Fd())

	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return
	}

	termRestore := *termios
	termstate := *termios

	termstate.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR
	termstate.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	termstate.Cflag &^= unix.CSIZE | unix.PARENB
	termstate.Cflag |= unix.CS8

	termstate.Cc[unix.VMIN] = 0
	termstate.Cc[unix.VTIME] = 0

	err = unix.IoctlSetTermios(fd, ioctlSetTermios, &termstate)
	if err != nil {
		return
	}

	restore = func() {
		unix.IoctlSetTermios(fd, ioctlSetTermios, &termRestore)
	}

	return
}
