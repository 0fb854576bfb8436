//go:build !linux

package transport

import "syscall"

// socketControl is a no-op outside Linux; SO_REUSEADDR/SO_RCVBUF/SO_SNDBUF
// tuning is a Linux-specific nicety, not a correctness requirement.
func socketControl(_, _ int) func(_, _ string, c syscall.RawConn) error {
	return func(_, _ string, _ syscall.RawConn) error { return nil }
}
