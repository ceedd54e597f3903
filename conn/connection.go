// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: github.com/bassosimone/nop's ownership-and-wrapping idiom
// ("this type owns its connection, callers must Close it") seen in its
// DNSOverUDPConn/DNSOverTLSConn, combined with ortuman/jackal's
// pkg/transport/socket.go buffered-reader-over-transport shape.

// Package conn implements the connection object of spec.md §4.5: a
// [socket.Socket] plus a [buffer.Pool] plus a [stream.Accumulator],
// wired together so a protocol implementer gets "ask for n bytes" instead
// of "call Read in a loop".
package conn

import (
	"context"
	"sync"
	"time"

	"github.com/basswire/asocket/asockerr"
	"github.com/basswire/asocket/buffer"
	"github.com/basswire/asocket/socket"
	"github.com/basswire/asocket/stream"
)

// Connection bundles a socket, its buffer pool, and its stream
// accumulator. The zero value is not usable; construct one with
// [Connect].
type Connection struct {
	sock *socket.Socket
	pool *buffer.Pool
	acc  *stream.Accumulator
	opts Options

	mu     sync.Mutex
	closed bool
}

// Connect opens a [socket.Socket] to host:port and wraps it with a buffer
// pool and stream accumulator sized per opts.
func Connect(ctx context.Context, host string, port int, opts Options) (*Connection, error) {
	opts = defaultOptions(opts)

	sock, err := socket.Open(ctx, host, port, opts.ConnectTimeout, opts.Options)
	if err != nil {
		return nil, err
	}

	pool := buffer.NewPool(opts.MaxPoolSize, opts.DefaultBufferSize)
	c := &Connection{
		sock: sock,
		pool: pool,
		opts: opts,
	}
	c.acc = stream.NewAccumulator(pool.Release)
	return c, nil
}

// Socket returns the underlying [*socket.Socket].
func (c *Connection) Socket() *socket.Socket { return c.sock }

// Pool returns the connection's [*buffer.Pool].
func (c *Connection) Pool() *buffer.Pool { return c.pool }

// Accumulator returns the connection's [*stream.Accumulator].
func (c *Connection) Accumulator() *stream.Accumulator { return c.acc }

// ReadIntoStream performs one [socket.Socket.Read] into a pool-acquired
// buffer and appends it (ownership transferred) to the accumulator, to be
// released once the consumer drains past it via Accumulator.Advance.
func (c *Connection) ReadIntoStream(ctx context.Context) (int, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return 0, asockerr.New(asockerr.KindConnectionClosed, errConnClosed)
	}

	buf := c.pool.Acquire(c.opts.DefaultBufferSize)
	n, err := c.sock.Read(ctx, buf, c.opts.ReadTimeout)
	if err != nil {
		c.pool.Release(buf)
		c.acc.Close(err)
		return 0, err
	}
	buf.ResetForRead()
	c.acc.Push(buf)
	return n, nil
}

// Write delegates to [socket.Socket.Write], bounded by opts.WriteTimeout.
func (c *Connection) Write(ctx context.Context, buf *buffer.Buffer) (int, error) {
	return c.sock.Write(ctx, buf, c.opts.WriteTimeout)
}

// WithBuffer acquires a buffer of at least minSize bytes, runs f with it,
// and releases it back to the pool on every exit path, including when f
// returns an error or a panic is unwinding through this call (the
// release still fires via defer; this type does not itself recover
// panics).
func (c *Connection) WithBuffer(minSize int, f func(*buffer.Buffer) error) error {
	buf := c.pool.Acquire(minSize)
	defer c.pool.Release(buf)
	return f(buf)
}

// Close closes the socket, drains the buffer pool's idle list, and marks
// the connection closed so subsequent ReadIntoStream/Write calls report
// [asockerr.KindConnectionClosed]. Idempotent.
func (c *Connection) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.acc.Close(nil)
	c.pool.Drain()
	return c.sock.Close()
}

type connClosedError struct{}

func (connClosedError) Error() string { return "conn: connection closed" }

var errConnClosed = connClosedError{}
