// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: github.com/bassosimone/nop's TLSHandshakeFunc.Call /
// TLSEngineStdlib / peerCerts (tls.go).

package tlsoverlay

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"net"
	"time"

	"github.com/basswire/asocket/asockerr"
)

// Conn is a handshaked TLS connection. It implements [net.Conn] by
// delegating to the embedded [*tls.Conn]; Close attempts a best-effort
// close_notify and never propagates its own failure, per spec.md §4.4.
type Conn struct {
	*tls.Conn
}

var _ net.Conn = (*Conn)(nil)

// Read implements [net.Conn], translating a zero-byte EOF and
// post-handshake protocol errors into this module's closed taxonomy.
func (c *Conn) Read(b []byte) (int, error) {
	n, err := c.Conn.Read(b)
	if err != nil {
		return n, translateRecordErr(err)
	}
	return n, nil
}

// Write implements [net.Conn], translating post-handshake protocol
// errors into this module's closed taxonomy.
func (c *Conn) Write(b []byte) (int, error) {
	n, err := c.Conn.Write(b)
	if err != nil {
		return n, translateRecordErr(err)
	}
	return n, nil
}

// Close attempts a clean close_notify shutdown, best-effort: failure to
// deliver it is swallowed, per spec.md §4.4 Shutdown.
func (c *Conn) Close() error {
	_ = c.Conn.Close()
	return nil
}

func translateRecordErr(err error) error {
	kind := asockerr.Classify(err)
	if kind == asockerr.KindOther {
		// Anything post-handshake that Classify didn't recognize as a
		// closed/timeout/cancel condition is a TLS record-layer problem
		// (bad MAC, unexpected alert, version mismatch after renegotiation).
		kind = asockerr.KindTLSProtocolError
	}
	return asockerr.New(kind, err)
}

// Handshake drives a TLS client handshake over transport, an already
// connected but not yet encrypted [net.Conn] (typically obtained from
// socket.Open's Connected state), and returns a [*Conn] ready for
// application data, or a mapped [*asockerr.Error] on failure.
//
// hostname sets SNI (always sent, per spec.md §4.4) and, when
// cfg.VerifyCertificates and cfg.VerifyHostname are both true, is also the
// name the peer certificate must match. timeout bounds the whole handshake; exceeding it reports
// [asockerr.KindTLSHandshakeFailed].
func Handshake(ctx context.Context, transport net.Conn, cfg *Config, hostname string, timeout time.Duration) (*Conn, error) {
	if cfg == nil {
		cfg = NewConfig()
	}

	tlsCfg := &tls.Config{
		ServerName: hostname,
		RootCAs:    trustPool(),
	}
	if cfg.IsInsecure() {
		// crypto/tls's built-in verification is all-or-nothing and cannot
		// express "skip expiry but still check the chain" or "skip hostname
		// but still check the chain" — the four escape hatches are
		// independent per spec.md §3, so whenever any one of them is set we
		// disable the built-in check and run our own, which keeps every
		// check the flags leave enabled (VerifyCertificates=false alone
		// skips them all, hostname included).
		tlsCfg.InsecureSkipVerify = true //nolint:gosec
		tlsCfg.VerifyPeerCertificate = makeVerifier(cfg, hostname)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tlsConn := tls.Client(transport, tlsCfg)
	err := tlsConn.HandshakeContext(ctx)
	if err != nil {
		tlsConn.Close()
		if ctx.Err() != nil {
			return nil, &asockerr.Error{
				Kind:            asockerr.KindTLSHandshakeFailed,
				Err:             ctx.Err(),
				ProviderMessage: "handshake timed out",
			}
		}
		return nil, &asockerr.Error{
			Kind:            asockerr.KindTLSHandshakeFailed,
			Err:             err,
			ProviderMessage: err.Error(),
			PeerCertificate: asockerr.PeerCertificate(err),
		}
	}
	return &Conn{Conn: tlsConn}, nil
}

// makeVerifier builds a crypto/tls.Config.VerifyPeerCertificate callback
// that re-implements the chain/hostname checks crypto/tls's built-in
// verifier would have performed, except for whichever of them cfg
// relaxes. This is the only way to express "skip expiry but still check
// the chain" or "skip hostname but still check the chain", neither of
// which InsecureSkipVerify alone can express (it disables every check).
func makeVerifier(cfg *Config, hostname string) func([][]byte, [][]*x509.Certificate) error {
	return func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
		if !cfg.VerifyCertificates {
			return nil
		}

		certs := make([]*x509.Certificate, 0, len(rawCerts))
		for _, raw := range rawCerts {
			cert, err := x509.ParseCertificate(raw)
			if err != nil {
				return err
			}
			certs = append(certs, cert)
		}
		if len(certs) == 0 {
			return nil
		}
		leaf := certs[0]

		now := time.Now()
		if !cfg.AllowExpiredCertificates {
			if now.Before(leaf.NotBefore) || now.After(leaf.NotAfter) {
				return x509.CertificateInvalidError{Cert: leaf, Reason: x509.Expired}
			}
		}
		if cfg.VerifyHostname {
			if err := leaf.VerifyHostname(hostname); err != nil {
				return err
			}
		}

		roots := trustPool()
		if cfg.AllowSelfSigned {
			roots = x509.NewCertPool()
			roots.AddCert(leaf)
		}
		opts := x509.VerifyOptions{
			Roots:         roots,
			Intermediates: x509.NewCertPool(),
			CurrentTime:   now,
		}
		for _, c := range certs[1:] {
			opts.Intermediates.AddCert(c)
		}
		if cfg.AllowExpiredCertificates {
			opts.CurrentTime = leaf.NotBefore.Add(time.Hour)
		}
		_, err := leaf.Verify(opts)
		return err
	}
}
