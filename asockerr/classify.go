// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: github.com/bassosimone/nop (errclassifier.go) and its
// platform errno tables (errclass/unix.go, errclass/windows.go), generalized
// from "classify to a string label for logging" into "classify to this
// module's closed [Kind] enum".

package asockerr

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"os"
)

// Classify maps an arbitrary error observed during a socket operation to
// its [Kind]. It never returns 0 for a non-nil err; unrecognized errors
// map to [KindOther].
//
// Classify does not wrap err; callers that need a wrapped *Error should
// use [New] with the result.
func Classify(err error) Kind {
	if err == nil {
		return 0
	}

	switch {
	case errors.Is(err, context.Canceled):
		return KindCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
		return KindConnectionClosed
	}

	var x509HostnameErr x509.HostnameError
	var x509UnknownAuthorityErr x509.UnknownAuthorityError
	var x509InvalidErr x509.CertificateInvalidError
	var tlsRecordErr tls.RecordHeaderError
	switch {
	case errors.As(err, &x509HostnameErr),
		errors.As(err, &x509UnknownAuthorityErr),
		errors.As(err, &x509InvalidErr):
		return KindTLSHandshakeFailed
	case errors.As(err, &tlsRecordErr):
		return KindTLSProtocolError
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	if errno, ok := classifyErrno(err); ok {
		return errno
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsNotFound {
			return KindUnknownHost
		}
		return KindOther
	}

	var pathErr *os.SyscallError
	if errors.As(err, &pathErr) {
		return KindOther
	}

	return KindOther
}

// PeerCertificate extracts the DER-encoded certificate a handshake error
// identifies as the cause, if any, mirroring the certificate-extraction
// logic of github.com/bassosimone/nop's TLSHandshakeFunc.peerCerts.
func PeerCertificate(err error) []byte {
	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return hostnameErr.Certificate.Raw
	}
	var authorityErr x509.UnknownAuthorityError
	if errors.As(err, &authorityErr) {
		return authorityErr.Cert.Raw
	}
	var invalidErr x509.CertificateInvalidError
	if errors.As(err, &invalidErr) {
		return invalidErr.Cert.Raw
	}
	return nil
}
