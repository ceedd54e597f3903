// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: github.com/bassosimone/nop's Config record, generalized
// the same way socket.Options generalizes it, one layer up.

package conn

import (
	"time"

	"github.com/basswire/asocket/socket"
)

// Options configures [Connect]. It embeds [socket.Options] and adds the
// timing and pooling knobs spec.md's ConnectionOptions specifies.
type Options struct {
	socket.Options

	// ConnectTimeout bounds the initial dial (and TLS handshake, if any).
	ConnectTimeout time.Duration

	// ReadTimeout bounds each ReadIntoStream call. Zero means no deadline.
	ReadTimeout time.Duration

	// WriteTimeout bounds each Write call. Zero means no deadline.
	WriteTimeout time.Duration

	// MaxPoolSize caps how many idle buffers [buffer.Pool] retains.
	MaxPoolSize int

	// DefaultBufferSize is the capacity requested when no larger minimum
	// is needed.
	DefaultBufferSize int

	// Threading records whether the caller intends cooperative (single
	// goroutine at a time) or parallel (concurrent reader + writer)
	// access. Go always schedules goroutines in parallel across
	// GOMAXPROCS regardless of this field, and Connection does not read
	// it: its read and write paths behave the same under either value
	// (both [socket.Socket.Read] and [socket.Socket.Write] already hold
	// independent per-direction mutexes, so ThreadingParallel is safe by
	// construction — this field exists for API parity with the original
	// design, not because Go needs it to behave correctly).
	Threading Threading
}

// Threading selects the concurrency contract a [Connection] exposes to
// its caller.
type Threading int

const (
	// ThreadingCooperative is the default: the caller is expected to
	// drive one read or write at a time.
	ThreadingCooperative Threading = iota

	// ThreadingParallel documents that the caller intends to read and
	// write concurrently from separate goroutines.
	ThreadingParallel
)

func defaultOptions(opts Options) Options {
	if opts.MaxPoolSize <= 0 {
		opts.MaxPoolSize = 16
	}
	if opts.DefaultBufferSize <= 0 {
		opts.DefaultBufferSize = 4096
	}
	return opts
}
