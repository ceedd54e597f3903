// SPDX-License-Identifier: GPL-3.0-or-later

package asockerr

import "fmt"

// Error wraps an underlying cause with a closed [Kind] and, for TLS
// handshake failures, the provider's own message and offending
// certificate (DER-encoded), mirroring the certificate-extraction idiom
// of github.com/bassosimone/nop's TLSHandshakeFunc.peerCerts.
type Error struct {
	Kind Kind
	Err  error

	// ProviderMessage carries the TLS provider's own diagnostic text for
	// KindTLSHandshakeFailed / KindTLSProtocolError; empty otherwise.
	ProviderMessage string

	// PeerCertificate is the DER-encoded certificate the handshake
	// rejected, when the underlying error identifies one; nil otherwise.
	PeerCertificate []byte
}

// New wraps err under kind. Returns nil if err is nil.
func New(kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.ProviderMessage != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Err, e.ProviderMessage)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Err)
}

// Unwrap exposes the underlying cause so [errors.Is] / [errors.As] still
// see the original net/tls/x509 error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same Kind, so callers
// can write errors.Is(err, &asockerr.Error{Kind: asockerr.KindTimeout})-style
// comparisons; more conveniently, use [KindOf].
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.Kind == e.Kind
}

// KindOf extracts the [Kind] from err, returning [KindOther] if err is
// not an *Error (or is nil, in which case it returns 0 — callers should
// check err != nil first).
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}
	var e *Error
	if ok := asErr(err, &e); ok {
		return e.Kind
	}
	return KindOther
}

func asErr(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
