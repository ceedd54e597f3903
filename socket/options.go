// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: github.com/bassosimone/nop's Config record (config.go) —
// generalized from "one Dialer + one ErrClassifier" into the full
// SocketOptions record of spec.md §3.

package socket

import "github.com/basswire/asocket/tlsoverlay"

// Tri is a tri-valued setting: enabled, disabled, or "leave the platform
// default alone". Zero value is TriDefault.
type Tri int

const (
	TriDefault Tri = iota
	TriOn
	TriOff
)

// Options is the configuration record recognized by [Open] and
// [Server.Bind], mirroring spec.md §3's SocketOptions.
type Options struct {
	// TCPNoDelay disables Nagle's algorithm when TriOn.
	TCPNoDelay Tri

	// ReuseAddress allows rebinding to an address still in TIME_WAIT.
	ReuseAddress Tri

	// KeepAlive enables TCP keep-alive probes.
	KeepAlive Tri

	// ReceiveBuffer sets SO_RCVBUF in bytes; nil leaves the platform
	// default.
	ReceiveBuffer *int

	// SendBuffer sets SO_SNDBUF in bytes; nil leaves the platform
	// default.
	SendBuffer *int

	// TLS enables TLS with the given policy when non-nil; plain TCP
	// otherwise. See package tlsoverlay for [tlsoverlay.Config].
	TLS *tlsoverlay.Config
}
