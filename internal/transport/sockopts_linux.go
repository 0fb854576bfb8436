//go:build linux

package transport

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// socketControl configures the auth and accounting sockets at dial/listen
// time: SO_REUSEADDR so a repeated radiusctl invocation against the same
// local endpoint doesn't race a lingering TIME_WAIT socket, plus optional
// receive/send buffer sizing. Grounded in the teacher's
// internal/netio/sender.go setSenderOpts, minus the TTL=255/GTSM options
// that RFC 5881's single-hop link requirement has no RADIUS counterpart for.
func socketControl(rcvBuf, sndBuf int) func(_, _ string, c syscall.RawConn) error {
	return func(_, _ string, c syscall.RawConn) error {
		var sockErr error
		err := c.Control(func(fd uintptr) {
			//nolint:gosec // G115: fd uintptr->int is safe; kernel FDs are always small positive integers.
			intFD := int(fd)
			sockErr = setSockOpts(intFD, rcvBuf, sndBuf)
		})
		if err != nil {
			return fmt.Errorf("raw conn control: %w", err)
		}
		return sockErr
	}
}

func setSockOpts(fd, rcvBuf, sndBuf int) error {
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return fmt.Errorf("set SO_REUSEADDR: %w", err)
	}
	if rcvBuf > 0 {
		if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF, rcvBuf); err != nil {
			return fmt.Errorf("set SO_RCVBUF: %w", err)
		}
	}
	if sndBuf > 0 {
		if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_SNDBUF, sndBuf); err != nil {
			return fmt.Errorf("set SO_SNDBUF: %w", err)
		}
	}
	return nil
}
