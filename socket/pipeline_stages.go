//go:build !(js && wasm)

// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: github.com/bassosimone/nop's own example pipelines
// (example_httpconn_test.go, example_dnsovertls_test.go), which chain a
// ConnectFunc, an ObserveConnFunc, and a TLSHandshakeFunc as successive
// [pipeline.Func] stages — the same shape [Open] composes here, with an
// apply-options stage added after the dial, as four stages via
// [pipeline.Compose4].

package socket

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/basswire/asocket/internal/reactor"
	"github.com/basswire/asocket/pipeline"
	"github.com/basswire/asocket/tlsoverlay"
)

// dialTarget is dialStage's input.
type dialTarget struct {
	host string
	port int
}

// dialStage resolves and dials host:port, recording the resulting
// transport and the connecting/connected state transitions on s.
func dialStage(s *Socket) pipeline.Func[dialTarget, net.Conn] {
	return pipeline.Adapter[dialTarget, net.Conn](func(ctx context.Context, target dialTarget) (net.Conn, error) {
		s.state.store(stateConnecting)
		s.logger.Info("connectStart", "span", s.span, "host", target.host, "port", target.port)

		dialer := &net.Dialer{}
		address := net.JoinHostPort(target.host, strconv.Itoa(target.port))
		_, err := s.reactor.Submit(ctx, reactor.OpConnect, nil, func(opCtx context.Context) (int, error) {
			conn, dialErr := dialer.DialContext(opCtx, "tcp", address)
			if dialErr != nil {
				return 0, dialErr
			}
			s.transport = conn
			return 0, nil
		})
		if err != nil {
			s.state.store(stateFailed)
			s.logger.Info("connectFailed", "span", s.span, "host", target.host, "port", target.port, "err", err)
			return nil, mapErr(err)
		}

		s.state.store(stateConnected)
		s.recordPorts(s.transport)
		s.logger.Info("connectDone", "span", s.span, "localPort", s.localPort, "remotePort", s.remotePort)
		return s.transport, nil
	})
}

// applyOptionsStage applies opts to whatever net.Conn the previous stage
// produced. Per [pipeline.Func]'s cleanup contract, it closes conn before
// returning an error.
func applyOptionsStage(opts Options) pipeline.Func[net.Conn, net.Conn] {
	return pipeline.Adapter[net.Conn, net.Conn](func(ctx context.Context, conn net.Conn) (net.Conn, error) {
		if err := applyOptions(conn, opts); err != nil {
			conn.Close()
			return nil, mapErr(err)
		}
		return conn, nil
	})
}

// tlsStage performs the TLS handshake when cfg is non-nil, passing conn
// through unchanged otherwise. On handshake failure it closes conn,
// matching [pipeline.Func]'s cleanup contract.
func tlsStage(s *Socket, cfg *tlsoverlay.Config, host string, timeout time.Duration) pipeline.Func[net.Conn, net.Conn] {
	return pipeline.Adapter[net.Conn, net.Conn](func(ctx context.Context, conn net.Conn) (net.Conn, error) {
		if cfg == nil {
			return conn, nil
		}
		s.state.store(stateTLSHandshaking)
		tlsConn, err := tlsoverlay.Handshake(ctx, conn, cfg, host, timeout)
		if err != nil {
			conn.Close()
			s.state.store(stateFailed)
			s.logger.Info("tlsHandshakeFailed", "span", s.span, "host", host, "err", err)
			return nil, err
		}
		s.tlsConn = tlsConn
		s.logger.Info("tlsHandshakeDone", "span", s.span, "host", host)
		return tlsConn, nil
	})
}
