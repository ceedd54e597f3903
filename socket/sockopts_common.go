// SPDX-License-Identifier: GPL-3.0-or-later

package socket

import (
	"errors"
	"syscall"
)

// errBacklogUnsupported is returned by bindListenerWithBacklog on
// platforms with no raw-socket implementation of a custom listen(2)
// backlog; callers fall back to bindListenerDefault on this sentinel.
var errBacklogUnsupported = errors.New("socket: custom listen backlog unsupported on this platform")

// rawControl adapts fn, a setsockopt-style raw-fd mutator, into the
// net.ListenConfig.Control / net.Dialer.Control shape, grounded on the
// same raw-conn idiom as the teacher's platform errno tables.
func rawControl(fn func(fd uintptr) error) func(network, address string, c syscall.RawConn) error {
	return func(network, address string, c syscall.RawConn) error {
		var setErr error
		err := c.Control(func(fd uintptr) {
			setErr = fn(fd)
		})
		if err != nil {
			return err
		}
		return setErr
	}
}
