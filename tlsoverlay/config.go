// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: github.com/bassosimone/nop's tls.go (TLSHandshakeFunc,
// TLSEngine, TLSConn), generalized from a single pipeline [Func] step
// into a standalone package the socket engine's state machine drives
// directly (§4.2's TlsHandshaking state).

// Package tlsoverlay implements the non-blocking TLS handshake and
// record-layer overlay of spec.md §4.4: it sits between the socket
// engine and the caller, presenting one behavior contract regardless of
// which TLS provider backs it (this module always uses crypto/tls, Go's
// platform-supplied provider).
package tlsoverlay

// Config is the TLS policy record of spec.md §3's TlsConfig.
type Config struct {
	// VerifyCertificates validates the peer chain against the trust
	// store. Default true.
	VerifyCertificates bool

	// VerifyHostname matches the certificate SAN/CN against the connect
	// hostname. Default true. Has no effect when VerifyCertificates is
	// false, which skips every peer-certificate check.
	VerifyHostname bool

	// AllowExpiredCertificates suppresses the certificate "not after"
	// check.
	AllowExpiredCertificates bool

	// AllowSelfSigned suppresses chain-of-trust verification.
	AllowSelfSigned bool
}

// NewConfig returns a [Config] with spec.md §3's defaults: verification
// and hostname matching on, both escape hatches off.
func NewConfig() *Config {
	return &Config{VerifyCertificates: true, VerifyHostname: true}
}

// IsInsecure reports whether any setting relaxes the secure defaults. It
// is true as soon as one flag is relaxed, even when the remaining checks
// are still enforced; only with all four relaxed does the overlay accept
// any certificate from any server.
func (c *Config) IsInsecure() bool {
	if c == nil {
		return false
	}
	return !c.VerifyCertificates || !c.VerifyHostname || c.AllowExpiredCertificates || c.AllowSelfSigned
}
