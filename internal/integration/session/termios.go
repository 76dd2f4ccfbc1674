//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package session

import (
	"os"

	"golang.org/x/sys/unix"
)

// echoEnabled reports whether the terminal behind f echoes input.
// The pseudo-terminal master reports the mode the child set on its side.
func echoEnabled(f *os.File) (bool, error) {
	conn, err := f.SyscallConn()
	if err != nil {
		return false, err
	}

	var (
		t       *unix.Termios
		termErr error
	)
	if err := conn.Control(func(fd uintptr) {
		t, termErr = unix.IoctlGetTermios(int(fd), ioctlGetTermios)
	}); err != nil {
		return false, err
	}
	if termErr != nil {
		return false, termErr
	}
	return t.Lflag&unix.ECHO != 0, nil
}
