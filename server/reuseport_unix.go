//go:build !windows

package server

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// controlSocketOptions best-effort enables SO_REUSEADDR, SO_REUSEPORT and
// SO_BROADCAST on each listener socket before it binds, so multiple listen
// addresses can share a port and replies can reach 255.255.255.255.
// SO_REUSEPORT failures are ignored: not every kernel in this family
// supports it, and the listener still works without it.
func controlSocketOptions(_, _ string, c syscall.RawConn) error {
	var opErr error
	err := c.Control(func(fd uintptr) {
		if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
			opErr = err
			return
		}
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
		if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1); err != nil {
			opErr = err
			return
		}
	})
	if err != nil {
		return err
	}
	return opErr
}
