// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: github.com/bassosimone/nop's ConnectFunc/TLSHandshakeFunc
// composition (connect.go, tls.go), generalized from a one-shot pipeline
// step into a stateful [Socket] that owns its own transport across reads
// and writes.

package socket

import (
	"context"
	"io"
	"net"
	"sync"
	"time"

	"github.com/basswire/asocket/asockerr"
	"github.com/basswire/asocket/buffer"
	"github.com/basswire/asocket/internal/obslog"
	"github.com/basswire/asocket/internal/reactor"
	"github.com/basswire/asocket/tlsoverlay"
)

// Socket is a single TCP (optionally TLS) connection with the state
// machine of spec.md §4.2. The zero value is not usable; construct one
// with [Open].
type Socket struct {
	transport net.Conn
	tlsConn   *tlsoverlay.Conn
	reactor   *reactor.Reactor
	logger    obslog.Logger
	span      string

	state atomicState

	readMu  sync.Mutex
	writeMu sync.Mutex

	closeOnce sync.Once

	localPort  int
	remotePort int
}

// activeConn returns the connection Read/Write/Close should operate on:
// the TLS overlay once the handshake has completed, the raw transport
// otherwise.
func (s *Socket) activeConn() net.Conn {
	if s.tlsConn != nil {
		return s.tlsConn
	}
	return s.transport
}

// Read reads into buf's backing slice at its current write position,
// bounded by timeout (0 means no deadline). A zero-byte EOF is reported as
// [asockerr.KindConnectionClosed].
func (s *Socket) Read(ctx context.Context, buf *buffer.Buffer, timeout time.Duration) (int, error) {
	s.readMu.Lock()
	defer s.readMu.Unlock()

	if !s.state.isOpen() {
		return 0, asockerr.New(asockerr.KindConnectionClosed, io.EOF)
	}

	conn := s.activeConn()
	if timeout > 0 {
		conn.SetReadDeadline(time.Now().Add(timeout))
		defer conn.SetReadDeadline(time.Time{})
	}

	dst := buf.Raw()[buf.Position():buf.Limit()]
	n, err := s.reactor.Submit(ctx, reactor.OpRead, nil, func(opCtx context.Context) (int, error) {
		return readWithContext(opCtx, conn, dst)
	})
	s.logger.Debug("readDone", "span", s.span, "n", n, "err", err)
	if err != nil {
		if n > 0 {
			buf.Advance(n)
		}
		return n, mapErr(err)
	}
	buf.Advance(n)
	return n, nil
}

// Write drains buf (from its current position to its limit) onto the
// connection, looping until every remaining byte is sent or an error
// occurs. On success the returned count always equals the number of bytes
// that were remaining in buf when Write was called.
func (s *Socket) Write(ctx context.Context, buf *buffer.Buffer, timeout time.Duration) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if !s.state.isOpen() {
		return 0, asockerr.New(asockerr.KindConnectionClosed, io.ErrClosedPipe)
	}

	conn := s.activeConn()
	if timeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(timeout))
		defer conn.SetWriteDeadline(time.Time{})
	}

	total := 0
	for buf.HasRemaining() {
		chunk := buf.Bytes()
		// Unlike Read (see readWithContext), this does not race conn.Write
		// against opCtx.Done(): a reactor.Cancel of an in-flight write will
		// not unblock it early. Acceptable for TCP, where a stalled write
		// still completes once the peer's receive window opens, but worth
		// knowing if a future transport can genuinely hang here.
		n, err := s.reactor.Submit(ctx, reactor.OpWrite, nil, func(opCtx context.Context) (int, error) {
			return conn.Write(chunk)
		})
		if n > 0 {
			buf.Advance(n)
			total += n
		}
		if err != nil {
			s.logger.Debug("writeFailed", "span", s.span, "n", total, "err", err)
			return total, mapErr(err)
		}
	}
	s.logger.Debug("writeDone", "span", s.span, "n", total)
	return total, nil
}

// Close is idempotent. It attempts a best-effort TLS shutdown (if a TLS
// session was established) and then closes the transport, reporting the
// first error encountered exactly once.
func (s *Socket) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.state.store(stateClosing)
		s.logger.Info("closeStart", "span", s.span, "localPort", s.localPort, "remotePort", s.remotePort)
		if s.tlsConn != nil {
			_ = s.tlsConn.Close()
		}
		if s.transport != nil {
			err = s.transport.Close()
		}
		s.state.store(stateClosed)
		s.logger.Info("closeDone", "span", s.span, "err", err)
	})
	return err
}

// IsOpen reports whether the socket is in a state where Read/Write may
// succeed. It never blocks.
func (s *Socket) IsOpen() bool { return s.state.isOpen() }

// LocalPort returns the locally bound port, or -1 before the socket
// reaches its Connected state.
func (s *Socket) LocalPort() int { return s.localPort }

// RemotePort returns the peer's port, or -1 before the socket reaches its
// Connected state.
func (s *Socket) RemotePort() int { return s.remotePort }

func (s *Socket) recordPorts(conn net.Conn) {
	s.localPort = portOf(conn.LocalAddr())
	s.remotePort = portOf(conn.RemoteAddr())
}

func portOf(addr net.Addr) int {
	tcpAddr, ok := addr.(*net.TCPAddr)
	if !ok {
		return -1
	}
	return tcpAddr.Port
}

// readWithContext makes a blocking Read responsive to opCtx's
// cancellation by racing it against the deadline-bound read; the read
// itself still relies on conn's own deadline for the common timeout path,
// this only covers cancellation via [internal/reactor.Reactor.Cancel] or
// an ancestor context.
func readWithContext(opCtx context.Context, conn net.Conn, dst []byte) (int, error) {
	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		n, err := conn.Read(dst)
		done <- result{n, err}
	}()
	select {
	case r := <-done:
		return r.n, r.err
	case <-opCtx.Done():
		// conn has no async-cancel primitive; force the blocked Read to
		// return by retroactively expiring its deadline, then wait for it
		// to actually unblock before reporting cancellation.
		conn.SetReadDeadline(time.Unix(0, 1))
		r := <-done
		return r.n, opCtx.Err()
	}
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if ae, ok := err.(*asockerr.Error); ok {
		return ae
	}
	return asockerr.New(asockerr.Classify(err), err)
}
