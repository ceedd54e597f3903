// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: github.com/bassosimone/nop's context-transparent suspension
// philosophy, generalized to the listen/accept side spec.md §4.3 requires
// (the teacher has no server-socket component; this is built in its idiom
// rather than adapted from a teacher file).

package socket

import (
	"context"
	"iter"
	"net"
	"sync"
	"sync/atomic"

	"github.com/basswire/asocket/asockerr"
	"github.com/basswire/asocket/internal/obslog"
	"github.com/basswire/asocket/internal/reactor"
)

// Server listens for incoming TCP connections and hands each one off as a
// plain-TCP [*Socket] already in its Ready state; it performs no
// server-side TLS handshake.
type Server struct {
	listener net.Listener
	reactor  *reactor.Reactor
	logger   obslog.Logger
	opts     Options

	listening atomic.Bool
	closeOnce sync.Once
	port      int
}

// NewServer returns an unbound [Server]. Call [Server.Bind] before
// [Server.Accept].
func NewServer() *Server {
	return NewServerWithLogger(obslog.Discard())
}

// NewServerWithLogger is [NewServer] with an explicit [obslog.Logger].
func NewServerWithLogger(logger obslog.Logger) *Server {
	if logger == nil {
		logger = obslog.Discard()
	}
	return &Server{reactor: reactor.New(0, 0), logger: logger}
}

// Port returns the bound port, or -1 before [Server.Bind] succeeds.
func (s *Server) Port() int {
	if !s.listening.Load() {
		return -1
	}
	return s.port
}

// Accept returns a lazy sequence of accepted client sockets. Each
// iteration blocks until a connection arrives, ctx is cancelled, or the
// server is closed. Breaking out of the range loop stops accepting
// further connections; Go listeners have no async-cancel primitive, so an
// in-flight Accept unblocks only when the listener itself closes — the
// iterator's cleanup arranges that by closing the listener if ctx is
// cancelled while a call is outstanding.
func (s *Server) Accept(ctx context.Context) iter.Seq2[*Socket, error] {
	return func(yield func(*Socket, error) bool) {
		stop := watchCancel(ctx, s.listener)
		defer stop()

		for {
			conn, err := s.listener.Accept()
			if err != nil {
				if ctx.Err() != nil {
					yield(nil, asockerr.New(asockerr.KindCancelled, ctx.Err()))
					return
				}
				yield(nil, asockerr.New(asockerr.Classify(err), err))
				return
			}

			if err := applyOptions(conn, s.opts); err != nil {
				conn.Close()
				if !yield(nil, asockerr.New(asockerr.Classify(err), err)) {
					return
				}
				continue
			}

			span := obslog.NewSpanID()
			sock := &Socket{
				reactor:    reactor.New(0, 0),
				logger:     s.logger,
				span:       span,
				localPort:  portOf(conn.LocalAddr()),
				remotePort: portOf(conn.RemoteAddr()),
			}
			// Route the accepted conn through the same observability stage
			// Open's pipeline uses, so accepted connections log per-I/O
			// events the same way dialed ones do.
			observeStage(sock, s.logger).Call(ctx, conn)
			sock.state.store(stateConnected)

			// Server-side TLS (a certificate + private key to present to the
			// client) is outside this module's client-oriented Config shape;
			// the original design marks it absent but extensible, so Accept
			// always surfaces a plain-TCP socket and leaves TLS handover to
			// a caller wiring its own crypto/tls.Config via a future
			// extension point.
			sock.state.store(stateReady)

			s.logger.Info("acceptDone", "span", span, "localPort", sock.localPort, "remotePort", sock.remotePort)
			if !yield(sock, nil) {
				return
			}
		}
	}
}

// Close is idempotent. It closes the listener, which unblocks any pending
// Accept.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.listener != nil {
			err = s.listener.Close()
		}
		s.listening.Store(false)
		s.logger.Info("serverCloseDone", "err", err)
	})
	return err
}
