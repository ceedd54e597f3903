//go:build !linux

// SPDX-License-Identifier: GPL-3.0-or-later

package tlsoverlay

import "crypto/x509"

// trustPool returns the platform system trust store, or nil (provider
// default) when unavailable. Non-Linux platforms don't need the
// Debian/RHEL/SUSE/Alpine bundle fallback of spec.md §4.4, which only
// applies where there is no single platform-blessed trust API.
func trustPool() *x509.CertPool {
	pool, err := x509.SystemCertPool()
	if err != nil {
		return nil
	}
	return pool
}
