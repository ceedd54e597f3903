// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: github.com/bassosimone/nop (func.go, unit.go)

// Package pipeline provides the composable-step abstraction the socket
// engine's connect path is built from: socket.Open composes a dial
// stage, an apply-options stage, an observability stage, and a TLS
// stage — each a [Func] — into one chain via [Compose4], and
// socket.Server.Accept runs the same observability stage over accepted
// connections. Advanced callers can reuse these primitives to build
// their own custom pipelines in front of a [*socket.Socket].
package pipeline

import "context"

// Unit is a type containing no information (an explicit "void"), used to
// build a [Func] that takes no meaningful input or returns no meaningful
// output.
type Unit struct{}

// Func is a single pipeline stage: one success mode, one failure mode.
//
// Resource-cleanup contract: when a Func receives a closeable resource as
// input and returns an error, it is responsible for closing that resource
// before returning, so a composed pipeline never leaks resources on
// partial failure.
type Func[A, B any] interface {
	Call(ctx context.Context, input A) (B, error)
}

// Adapter wraps a plain function as a [Func].
type Adapter[A, B any] func(ctx context.Context, input A) (B, error)

// Call implements [Func].
func (f Adapter[A, B]) Call(ctx context.Context, input A) (B, error) {
	return f(ctx, input)
}

// Const returns a [Func] that always returns value, ignoring its input.
func Const[B any](value B) Func[Unit, B] {
	return Adapter[Unit, B](func(context.Context, Unit) (B, error) {
		return value, nil
	})
}
