//go:build !unix && !windows

// SPDX-License-Identifier: GPL-3.0-or-later

package socket

import "net"

// controlSetReuseAddr and controlSetV6Only have no portable syscall on
// platforms that are neither unix nor windows (e.g. plan9); Bind still
// succeeds there, just without the raw-fd tuning. On js/wasm, Bind itself
// reports [asockerr.KindUnsupportedOperation] (see unsupported_js.go).
func controlSetReuseAddr(fd uintptr) error { return nil }

func controlSetV6Only(fd uintptr, v bool) error { return nil }

// bindListenerWithBacklog has no raw-socket implementation on platforms
// that are neither unix nor windows; Bind falls back to
// bindListenerDefault, whose listen() call uses the platform default
// backlog.
func bindListenerWithBacklog(host string, port int, backlog int, reuseAddr bool) (net.Listener, error) {
	return nil, errBacklogUnsupported
}
