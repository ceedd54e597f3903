//go:build js && wasm

// SPDX-License-Identifier: GPL-3.0-or-later
//
// Browser-style environments have no raw TCP socket syscall; the two
// entry points that would otherwise dial or bind report
// [asockerr.KindUnsupportedOperation] immediately rather than attempting
// (and failing deep inside) a dial or listen.

package socket

import (
	"context"
	"time"

	"github.com/basswire/asocket/internal/obslog"

	"github.com/basswire/asocket/asockerr"
)

// Open always fails with [asockerr.KindUnsupportedOperation] on this
// platform.
func Open(ctx context.Context, host string, port int, timeout time.Duration, opts Options) (*Socket, error) {
	return nil, asockerr.New(asockerr.KindUnsupportedOperation, errUnsupportedPlatform)
}

// OpenWithLogger always fails with [asockerr.KindUnsupportedOperation] on
// this platform.
func OpenWithLogger(ctx context.Context, host string, port int, timeout time.Duration, opts Options, logger obslog.Logger) (*Socket, error) {
	return nil, asockerr.New(asockerr.KindUnsupportedOperation, errUnsupportedPlatform)
}

// Bind always fails with [asockerr.KindUnsupportedOperation] on this
// platform.
func (s *Server) Bind(ctx context.Context, host string, port int, backlog int, opts Options) error {
	return asockerr.New(asockerr.KindUnsupportedOperation, errUnsupportedPlatform)
}

type unsupportedPlatformError struct{}

func (unsupportedPlatformError) Error() string {
	return "socket: raw TCP sockets are unsupported on this platform"
}

var errUnsupportedPlatform = unsupportedPlatformError{}
