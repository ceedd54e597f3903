//go:build !(js && wasm)

// SPDX-License-Identifier: GPL-3.0-or-later

package socket

import (
	"context"
	"errors"
	"net"
	"strconv"

	"github.com/basswire/asocket/asockerr"
)

// Bind listens on host:port. An empty host binds the wildcard address,
// which Go's "tcp" network listens on as a single dual-stack socket
// (IPV6_V6ONLY left false) wherever the platform supports it. Port 0
// requests OS assignment; the resolved port is available afterward via
// [Server.Port]. opts.ReuseAddress gates SO_REUSEADDR: without it, a
// rebind to a port still in TIME_WAIT fails, matching the platform
// default.
//
// backlog, when positive, sizes listen(2)'s backlog argument directly,
// via a raw socket built with [golang.org/x/sys/unix] or
// [golang.org/x/sys/windows]. Go's net.ListenConfig cannot express this:
// its Control hook runs before bind, and the net package always issues
// its own listen() call afterward with the platform-computed default
// backlog, overriding anything set through Control. backlog <= 0, or a
// platform with no raw-socket implementation here, falls back to that
// default.
func (s *Server) Bind(ctx context.Context, host string, port int, backlog int, opts Options) error {
	reuseAddr := opts.ReuseAddress == TriOn

	var ln net.Listener
	var err error
	if backlog > 0 {
		ln, err = bindListenerWithBacklog(host, port, backlog, reuseAddr)
		if errors.Is(err, errBacklogUnsupported) {
			ln, err = bindListenerDefault(ctx, host, port, reuseAddr)
		}
	} else {
		ln, err = bindListenerDefault(ctx, host, port, reuseAddr)
	}
	if err != nil {
		return asockerr.New(asockerr.Classify(err), err)
	}

	s.listener = ln
	s.opts = opts
	if tcpAddr, ok := ln.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}
	s.listening.Store(true)
	s.logger.Info("bindDone", "host", host, "port", s.port)
	return nil
}

// bindListenerDefault is the net.ListenConfig path used whenever no
// specific backlog is requested, or the platform has no raw-socket
// implementation of bindListenerWithBacklog.
func bindListenerDefault(ctx context.Context, host string, port int, reuseAddr bool) (net.Listener, error) {
	lc := net.ListenConfig{
		Control: rawControl(func(fd uintptr) error {
			if reuseAddr {
				if err := controlSetReuseAddr(fd); err != nil {
					return err
				}
			}
			if host == "" {
				// Best-effort: some platforms default IPV6_V6ONLY to true.
				// Ignore failure — a family-specific listener still works.
				_ = controlSetV6Only(fd, false)
			}
			return nil
		}),
	}
	return lc.Listen(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
}
