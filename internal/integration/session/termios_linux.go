//go:build linux

package session

import "golang.org/x/sys/unix"

const ioctlGetTermios = unix.TCGETS
