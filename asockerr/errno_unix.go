//go:build unix

//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: github.com/bassosimone/nop (errclass/unix.go), itself
// adapted from: https://github.com/rbmk-project/rbmk/blob/v0.17.0/pkg/common/errclass/unix.go
//

package asockerr

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

// classifyErrno maps a unix errno embedded in err to a [Kind]. The second
// return value is false when err carries no recognized errno.
func classifyErrno(err error) (Kind, bool) {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return 0, false
	}
	switch errno {
	case unix.ECONNREFUSED:
		return KindConnectionRefused, true
	case unix.ECONNRESET, unix.ECONNABORTED, unix.ENOTCONN, unix.EPIPE:
		return KindConnectionClosed, true
	case unix.ETIMEDOUT:
		return KindTimeout, true
	case unix.EHOSTUNREACH, unix.ENETUNREACH, unix.ENETDOWN:
		return KindNetworkUnreachable, true
	case unix.ENOBUFS:
		return KindResourceExhausted, true
	case unix.EINTR:
		return KindCancelled, true
	case unix.EADDRINUSE, unix.EADDRNOTAVAIL, unix.EINVAL, unix.EPROTONOSUPPORT:
		return KindOther, true
	default:
		return 0, false
	}
}
