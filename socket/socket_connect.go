//go:build !(js && wasm)

// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: github.com/bassosimone/nop's ConnectFunc/ObserveConnFunc/
// TLSHandshakeFunc composition (connect.go, observeconn.go, tls.go).

package socket

import (
	"context"
	"time"

	"github.com/basswire/asocket/internal/obslog"
	"github.com/basswire/asocket/internal/reactor"
	"github.com/basswire/asocket/pipeline"
)

// Open resolves host (empty means loopback), dials within timeout, applies
// opts, and — when opts.TLS is non-nil — performs a TLS handshake, leaving
// the returned [Socket] in its Ready state. On any failure the partially
// constructed transport is closed and a mapped [*asockerr.Error] is
// returned.
func Open(ctx context.Context, host string, port int, timeout time.Duration, opts Options) (*Socket, error) {
	return OpenWithLogger(ctx, host, port, timeout, opts, obslog.Discard())
}

// OpenWithLogger is [Open] with an explicit [obslog.Logger] for lifecycle
// and per-I/O events. Internally it runs a four-stage [pipeline.Func]
// chain — dial, apply options, observe, TLS handshake — composed with
// [pipeline.Compose4], mirroring the teacher's own Connect/Observe/TLS
// pipeline composition.
func OpenWithLogger(ctx context.Context, host string, port int, timeout time.Duration, opts Options, logger obslog.Logger) (*Socket, error) {
	if logger == nil {
		logger = obslog.Discard()
	}
	if host == "" {
		host = "localhost"
	}

	s := &Socket{
		reactor:    reactor.New(0, 0),
		logger:     logger,
		span:       obslog.NewSpanID(),
		localPort:  -1,
		remotePort: -1,
	}
	s.state.store(stateResolving)

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	pipe := pipeline.Compose4(
		dialStage(s),
		applyOptionsStage(opts),
		observeStage(s, logger),
		tlsStage(s, opts.TLS, host, timeout),
	)
	if _, err := pipe.Call(ctx, dialTarget{host: host, port: port}); err != nil {
		return nil, err
	}

	s.state.store(stateReady)
	return s, nil
}
