//go:build windows

//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: github.com/bassosimone/nop (errclass/windows.go), itself
// adapted from: https://github.com/rbmk-project/rbmk/blob/v0.17.0/pkg/common/errclass/windows.go
//

package asockerr

import (
	"errors"
	"syscall"

	"golang.org/x/sys/windows"
)

// classifyErrno maps a Windows WSA errno embedded in err to a [Kind]. The
// second return value is false when err carries no recognized errno.
func classifyErrno(err error) (Kind, bool) {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return 0, false
	}
	switch errno {
	case windows.WSAECONNREFUSED:
		return KindConnectionRefused, true
	case windows.WSAECONNRESET, windows.WSAECONNABORTED, windows.WSAENOTCONN:
		return KindConnectionClosed, true
	case windows.WSAETIMEDOUT:
		return KindTimeout, true
	case windows.WSAEHOSTUNREACH, windows.WSAENETUNREACH, windows.WSAENETDOWN:
		return KindNetworkUnreachable, true
	case windows.WSAENOBUFS:
		return KindResourceExhausted, true
	case windows.WSAEINTR:
		return KindCancelled, true
	case windows.WSAEADDRINUSE, windows.WSAEADDRNOTAVAIL, windows.WSAEINVAL, windows.WSAEPROTONOSUPPORT:
		return KindOther, true
	default:
		return 0, false
	}
}
