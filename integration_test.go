// SPDX-License-Identifier: GPL-3.0-or-later

package asocket

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/basswire/asocket/buffer"
	"github.com/basswire/asocket/conn"
	"github.com/basswire/asocket/socket"
	"github.com/basswire/asocket/stream"
	"github.com/basswire/asocket/tlsoverlay"
	"github.com/stretchr/testify/require"
)

func selfSignedCert(t *testing.T) tls.Certificate {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "127.0.0.1"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &priv.PublicKey, priv)
	require.NoError(t, err)
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: priv}
}

// startLineEchoTLSServer listens with cert and echoes back whatever bytes
// it receives, one read chunk at a time.
func startLineEchoTLSServer(t *testing.T, cert tls.Certificate) net.Listener {
	t.Helper()
	ln, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{Certificates: []tls.Certificate{cert}})
	require.NoError(t, err)
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				buf := make([]byte, 256)
				for {
					n, err := c.Read(buf)
					if n > 0 {
						c.Write(buf[:n])
					}
					if err != nil {
						return
					}
				}
			}(c)
		}
	}()
	return ln
}

// TestOpenOverTLSRoundTrip drives [socket.Open] through a real TLS
// handshake against a self-signed loopback server, the scenario spec.md
// §8 describes as an HTTPS-style round trip without depending on a live
// Internet host.
func TestOpenOverTLSRoundTrip(t *testing.T) {
	cert := selfSignedCert(t)
	ln := startLineEchoTLSServer(t, cert)
	defer ln.Close()

	_, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg := &tlsoverlay.Config{AllowSelfSigned: true, VerifyHostname: true}
	sock, err := socket.Open(context.Background(), "127.0.0.1", port, time.Second, socket.Options{TLS: cfg})
	require.NoError(t, err)
	defer sock.Close()

	out := buffer.Wrap([]byte("GET /\r\n"))
	n, err := sock.Write(context.Background(), out, time.Second)
	require.NoError(t, err)
	require.Equal(t, 7, n)

	in := buffer.Allocate(64, buffer.ZoneHeap)
	n, err = sock.Read(context.Background(), in, time.Second)
	require.NoError(t, err)
	in.ResetForRead()
	in.SetLimit(n)
	require.Equal(t, "GET /\r\n", string(in.Bytes()))
}

// TestConnectionStreamLinesOverPlainTCP exercises the full conn.Connection
// + stream.Lines pipeline spec.md §8 describes for a line-oriented
// protocol client, without TLS.
func TestConnectionStreamLinesOverPlainTCP(t *testing.T) {
	srv := socket.NewServer()
	require.NoError(t, srv.Bind(context.Background(), "127.0.0.1", 0, 0, socket.Options{}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		for s, err := range srv.Accept(ctx) {
			if err != nil {
				return
			}
			go func(s *socket.Socket) {
				defer s.Close()
				buf := buffer.Wrap([]byte("first\nsecond\nthird\n"))
				s.Write(context.Background(), buf, 0)
			}(s)
		}
	}()

	c, err := conn.Connect(context.Background(), "127.0.0.1", srv.Port(), conn.Options{ConnectTimeout: time.Second})
	require.NoError(t, err)
	defer c.Close()

	readCtx, readCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer readCancel()

	var lines []string
	for line, err := range stream.Lines(stream.ReadFlowString(readCtx, c.Socket(), "utf-8", 64, 0)) {
		if err != nil {
			break
		}
		lines = append(lines, line)
		if len(lines) == 3 {
			break
		}
	}
	require.Equal(t, []string{"first", "second", "third"}, lines)
}
