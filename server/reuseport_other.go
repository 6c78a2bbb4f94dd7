//go:build windows

package server

import "syscall"

// controlSocketOptions is a no-op on platforms where golang.org/x/sys/unix
// isn't applicable; the listener still works, just without SO_REUSEPORT/
// SO_BROADCAST tuning.
func controlSocketOptions(_, _ string, _ syscall.RawConn) error {
	return nil
}
