//go:build linux

// SPDX-License-Identifier: GPL-3.0-or-later

package tlsoverlay

import (
	"crypto/x509"
	"os"
)

// linuxCABundlePaths lists common CA bundle locations in the order
// spec.md §4.4 prescribes: Debian → RHEL → SUSE → Alpine.
var linuxCABundlePaths = []string{
	"/etc/ssl/certs/ca-certificates.crt",                // Debian/Ubuntu
	"/etc/pki/tls/certs/ca-bundle.crt",                   // RHEL/Fedora/CentOS
	"/etc/ssl/ca-bundle.pem",                             // SUSE
	"/etc/ssl/certs/ca-certificates.crt",                 // Alpine (shares Debian's path)
}

// trustPool builds the trust store: the system pool if it is non-empty,
// otherwise the first Linux CA bundle path that exists and parses,
// otherwise nil (provider default).
func trustPool() *x509.CertPool {
	if pool, err := x509.SystemCertPool(); err == nil && pool != nil && len(pool.Subjects()) > 0 { //nolint:staticcheck
		return pool
	}
	for _, path := range linuxCABundlePaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		pool := x509.NewCertPool()
		if pool.AppendCertsFromPEM(data) {
			return pool
		}
	}
	return nil
}
