// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: github.com/bassosimone/nop (observeconn.go)

package obslog

import (
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/bassosimone/safeconn"
)

// ErrClassifier classifies an error into a short label for structured logs.
//
// This is a plain function type (rather than an interface pinned to a
// specific error taxonomy) so that every package can supply its own
// classification without creating an import cycle with the error-kind
// package that actually owns the taxonomy.
type ErrClassifier func(error) string

// ObserveConn wraps conn so that every Read, Write, Close, and deadline
// change is logged through logger at the appropriate level. The wrapper
// implements [net.Conn] and can be used as a drop-in replacement.
func ObserveConn(conn net.Conn, logger Logger, classify ErrClassifier, now func() time.Time) net.Conn {
	return &observedConn{
		conn:     conn,
		classify: classify,
		laddr:    safeconn.LocalAddr(conn),
		logger:   logger,
		protocol: safeconn.Network(conn),
		raddr:    safeconn.RemoteAddr(conn),
		now:      now,
	}
}

type observedConn struct {
	closeOnce sync.Once
	conn      net.Conn
	classify  ErrClassifier
	laddr     string
	logger    Logger
	protocol  string
	raddr     string
	now       func() time.Time
}

var _ net.Conn = (*observedConn)(nil)

// Close implements [net.Conn]. Subsequent calls return [net.ErrClosed],
// consistent with Go's standard library behavior for closed connections.
func (c *observedConn) Close() (err error) {
	err = net.ErrClosed
	c.closeOnce.Do(func() {
		t0 := c.now()
		c.logger.Info("closeStart",
			slog.String("localAddr", c.laddr),
			slog.String("protocol", c.protocol),
			slog.String("remoteAddr", c.raddr),
			slog.Time("t", t0))

		err = c.conn.Close()

		c.logger.Info("closeDone",
			slog.Any("err", err),
			slog.String("errClass", c.classify(err)),
			slog.String("localAddr", c.laddr),
			slog.String("protocol", c.protocol),
			slog.String("remoteAddr", c.raddr),
			slog.Time("t0", t0),
			slog.Time("t", c.now()))
	})
	return
}

func (c *observedConn) LocalAddr() net.Addr  { return c.conn.LocalAddr() }
func (c *observedConn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

func (c *observedConn) Read(buf []byte) (int, error) {
	t0 := c.now()
	c.logger.Debug("readStart",
		slog.Int("ioBufferSize", len(buf)),
		slog.String("localAddr", c.laddr),
		slog.String("protocol", c.protocol),
		slog.String("remoteAddr", c.raddr),
		slog.Time("t", t0))

	n, err := c.conn.Read(buf)

	c.logger.Debug("readDone",
		slog.Int("ioBytesCount", n),
		slog.Any("err", err),
		slog.String("errClass", c.classify(err)),
		slog.String("localAddr", c.laddr),
		slog.String("protocol", c.protocol),
		slog.String("remoteAddr", c.raddr),
		slog.Time("t0", t0),
		slog.Time("t", c.now()))
	return n, err
}

func (c *observedConn) Write(data []byte) (int, error) {
	t0 := c.now()
	c.logger.Debug("writeStart",
		slog.Int("ioBufferSize", len(data)),
		slog.String("localAddr", c.laddr),
		slog.String("protocol", c.protocol),
		slog.String("remoteAddr", c.raddr),
		slog.Time("t", t0))

	n, err := c.conn.Write(data)

	c.logger.Debug("writeDone",
		slog.Int("ioBytesCount", n),
		slog.Any("err", err),
		slog.String("errClass", c.classify(err)),
		slog.String("localAddr", c.laddr),
		slog.String("protocol", c.protocol),
		slog.String("remoteAddr", c.raddr),
		slog.Time("t0", t0),
		slog.Time("t", c.now()))
	return n, err
}

func (c *observedConn) SetDeadline(t time.Time) error {
	c.logger.Debug("setDeadline",
		slog.Time("deadline", t),
		slog.String("localAddr", c.laddr),
		slog.String("protocol", c.protocol),
		slog.String("remoteAddr", c.raddr),
		slog.Time("t", c.now()))
	return c.conn.SetDeadline(t)
}

func (c *observedConn) SetReadDeadline(t time.Time) error {
	c.logger.Debug("setReadDeadline",
		slog.Time("deadline", t),
		slog.String("localAddr", c.laddr),
		slog.String("protocol", c.protocol),
		slog.String("remoteAddr", c.raddr),
		slog.Time("t", c.now()))
	return c.conn.SetReadDeadline(t)
}

func (c *observedConn) SetWriteDeadline(t time.Time) error {
	c.logger.Debug("setWriteDeadline",
		slog.Time("deadline", t),
		slog.String("localAddr", c.laddr),
		slog.String("protocol", c.protocol),
		slog.String("remoteAddr", c.raddr),
		slog.Time("t", c.now()))
	return c.conn.SetWriteDeadline(t)
}
