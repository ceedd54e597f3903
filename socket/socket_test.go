// SPDX-License-Identifier: GPL-3.0-or-later

package socket

import (
	"context"
	"testing"
	"time"

	"github.com/basswire/asocket/asockerr"
	"github.com/basswire/asocket/buffer"
	"github.com/stretchr/testify/require"
)

func startEchoServer(t *testing.T) (*Server, func()) {
	t.Helper()
	srv := NewServer()
	require.NoError(t, srv.Bind(context.Background(), "127.0.0.1", 0, 0, Options{}))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for sock, err := range srv.Accept(ctx) {
			if err != nil {
				return
			}
			go func(c *Socket) {
				defer c.Close()
				buf := buffer.Allocate(256, buffer.ZoneHeap)
				for {
					n, err := c.Read(context.Background(), buf, 0)
					if err != nil {
						return
					}
					buf.ResetForRead()
					buf.SetLimit(n)
					if _, err := c.Write(context.Background(), buf, 0); err != nil {
						return
					}
					buf.ResetForWrite()
				}
			}(sock)
		}
	}()

	return srv, func() {
		cancel()
		srv.Close()
	}
}

func TestLoopbackEcho(t *testing.T) {
	srv, stop := startEchoServer(t)
	defer stop()

	sock, err := Open(context.Background(), "127.0.0.1", srv.Port(), time.Second, Options{})
	require.NoError(t, err)
	defer sock.Close()

	out := buffer.Wrap([]byte("hello socket"))
	n, err := sock.Write(context.Background(), out, time.Second)
	require.NoError(t, err)
	require.Equal(t, len("hello socket"), n)

	in := buffer.Allocate(64, buffer.ZoneHeap)
	n, err = sock.Read(context.Background(), in, time.Second)
	require.NoError(t, err)
	require.Equal(t, "hello socket", string(in.Raw()[:n]))
}

func TestConcurrentClients(t *testing.T) {
	srv, stop := startEchoServer(t)
	defer stop()

	const clients = 5
	errs := make(chan error, clients)
	for i := 0; i < clients; i++ {
		go func(id int) {
			sock, err := Open(context.Background(), "127.0.0.1", srv.Port(), time.Second, Options{})
			if err != nil {
				errs <- err
				return
			}
			defer sock.Close()

			msg := []byte("ping")
			out := buffer.Wrap(msg)
			if _, err := sock.Write(context.Background(), out, time.Second); err != nil {
				errs <- err
				return
			}
			in := buffer.Allocate(16, buffer.ZoneHeap)
			n, err := sock.Read(context.Background(), in, time.Second)
			if err != nil {
				errs <- err
				return
			}
			if string(in.Raw()[:n]) != "ping" {
				errs <- errMismatch
				return
			}
			errs <- nil
		}(i)
	}
	for i := 0; i < clients; i++ {
		require.NoError(t, <-errs)
	}
}

var errMismatch = mismatchError{}

type mismatchError struct{}

func (mismatchError) Error() string { return "echoed payload mismatch" }

func TestIdleReadTimesOut(t *testing.T) {
	srv, stop := startEchoServer(t)
	defer stop()

	sock, err := Open(context.Background(), "127.0.0.1", srv.Port(), time.Second, Options{})
	require.NoError(t, err)
	defer sock.Close()

	buf := buffer.Allocate(16, buffer.ZoneHeap)
	_, err = sock.Read(context.Background(), buf, 50*time.Millisecond)
	require.Error(t, err)
}

func TestRapidReconnect(t *testing.T) {
	srv, stop := startEchoServer(t)
	defer stop()

	for i := 0; i < 10; i++ {
		sock, err := Open(context.Background(), "127.0.0.1", srv.Port(), time.Second, Options{})
		require.NoError(t, err)
		require.True(t, sock.IsOpen())
		require.Greater(t, sock.LocalPort(), 0)
		require.Equal(t, srv.Port(), sock.RemotePort())
		require.NoError(t, sock.Close())
		require.False(t, sock.IsOpen())
	}
}

func TestSocketCloseIsIdempotent(t *testing.T) {
	srv, stop := startEchoServer(t)
	defer stop()

	sock, err := Open(context.Background(), "127.0.0.1", srv.Port(), time.Second, Options{})
	require.NoError(t, err)

	require.NoError(t, sock.Close())
	require.NoError(t, sock.Close())
}

func TestOpenUnreachableReportsConnectionRefused(t *testing.T) {
	srv := NewServer()
	require.NoError(t, srv.Bind(context.Background(), "127.0.0.1", 0, 0, Options{}))
	port := srv.Port()
	require.NoError(t, srv.Close())

	_, err := Open(context.Background(), "127.0.0.1", port, time.Second, Options{})
	require.Error(t, err)
	require.Equal(t, asockerr.KindConnectionRefused, asockerr.KindOf(err))
}
