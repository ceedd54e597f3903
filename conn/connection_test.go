// SPDX-License-Identifier: GPL-3.0-or-later

package conn

import (
	"context"
	"testing"
	"time"

	"github.com/basswire/asocket/buffer"
	"github.com/basswire/asocket/socket"
	"github.com/stretchr/testify/require"
)

func startEchoServer(t *testing.T) (*socket.Server, func()) {
	t.Helper()
	srv := socket.NewServer()
	require.NoError(t, srv.Bind(context.Background(), "127.0.0.1", 0, 0, socket.Options{}))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for sock, err := range srv.Accept(ctx) {
			if err != nil {
				return
			}
			go func(s *socket.Socket) {
				defer s.Close()
				buf := buffer.Allocate(256, buffer.ZoneHeap)
				for {
					n, err := s.Read(context.Background(), buf, 0)
					if err != nil {
						return
					}
					buf.ResetForRead()
					buf.SetLimit(n)
					if _, err := s.Write(context.Background(), buf, 0); err != nil {
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

func TestConnectReadIntoStreamAndWrite(t *testing.T) {
	srv, stop := startEchoServer(t)
	defer stop()

	c, err := Connect(context.Background(), "127.0.0.1", srv.Port(), Options{ConnectTimeout: time.Second})
	require.NoError(t, err)
	defer c.Close()

	out := buffer.Wrap([]byte("ping"))
	n, err := c.Write(context.Background(), out)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	_, err = c.ReadIntoStream(context.Background())
	require.NoError(t, err)

	view, err := c.Accumulator().Ensure(context.Background(), 4)
	require.NoError(t, err)
	got, err := view.Bytes(4)
	require.NoError(t, err)
	require.Equal(t, "ping", string(got))
}

func TestWithBufferReleasesOnError(t *testing.T) {
	srv, stop := startEchoServer(t)
	defer stop()

	c, err := Connect(context.Background(), "127.0.0.1", srv.Port(), Options{ConnectTimeout: time.Second, MaxPoolSize: 4})
	require.NoError(t, err)
	defer c.Close()

	before := c.Pool().Outstanding()
	err = c.WithBuffer(64, func(buf *buffer.Buffer) error {
		return errIntentional
	})
	require.ErrorIs(t, err, errIntentional)
	require.Equal(t, before, c.Pool().Outstanding())
}

type intentionalError struct{}

func (intentionalError) Error() string { return "intentional failure" }

var errIntentional = intentionalError{}

func TestConnectionCloseIsIdempotentAndDrainsPool(t *testing.T) {
	srv, stop := startEchoServer(t)
	defer stop()

	c, err := Connect(context.Background(), "127.0.0.1", srv.Port(), Options{ConnectTimeout: time.Second})
	require.NoError(t, err)

	_ = c.WithBuffer(32, func(*buffer.Buffer) error { return nil })
	require.Greater(t, c.Pool().IdleCount(), 0)

	require.NoError(t, c.Close())
	require.Equal(t, 0, c.Pool().IdleCount())
	require.NoError(t, c.Close())

	_, err = c.ReadIntoStream(context.Background())
	require.Error(t, err)
}
