// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: ortuman/jackal's pkg/transport/socket.go buffered-reader-
// over-transport idiom, generalized from bufio.Reader's copying window
// into a zero-copy [buffer.FragmentedView] over queued chunks, and on the
// teacher's "suspension is an ordinary blocking call" philosophy
// translated to Go's native sync.Cond instead of a callback queue.

// Package stream implements the streaming helpers of spec.md §4.6/§4.7:
// an accumulator that lets a consumer ask for "at least n bytes" without
// copying, plus lazy byte/line sequences built over it.
package stream

import (
	"context"
	"sync"

	"github.com/basswire/asocket/asockerr"
	"github.com/basswire/asocket/buffer"
)

// Accumulator is a FIFO of buffered chunks that lets a consumer block
// until at least n bytes are available, then hand out a zero-copy
// [buffer.FragmentedView] over every chunk queued at that moment.
//
// Accumulator is safe for concurrent use: one producer goroutine calls
// Push/Close while one consumer goroutine calls Ensure/Advance, matching
// how [conn.Connection] drives it.
type Accumulator struct {
	mu      sync.Mutex
	cond    *sync.Cond
	chunks  []*buffer.Buffer
	closed  bool
	closeAt error
	release func(*buffer.Buffer)
}

// NewAccumulator returns an empty Accumulator. release, if non-nil, is
// called for every chunk that Advance fully consumes, so a caller backed
// by a [buffer.Pool] can return the chunk to it.
func NewAccumulator(release func(*buffer.Buffer)) *Accumulator {
	a := &Accumulator{release: release}
	a.cond = sync.NewCond(&a.mu)
	return a
}

// Push appends buf (already flipped to read mode via ResetForRead) to the
// tail of the queue and wakes any Ensure waiting for more bytes.
func (a *Accumulator) Push(buf *buffer.Buffer) {
	if buf == nil || !buf.HasRemaining() {
		return
	}
	a.mu.Lock()
	a.chunks = append(a.chunks, buf)
	a.mu.Unlock()
	a.cond.Broadcast()
}

// Close marks the accumulator terminal: every chunk already queued is
// still delivered by Ensure, and once fewer bytes remain than an Ensure
// call asks for, that call and every later one return cause (or
// [asockerr.KindConnectionClosed] if cause is nil). Subsequent Close calls
// are no-ops.
func (a *Accumulator) Close(cause error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	if cause == nil {
		cause = asockerr.New(asockerr.KindConnectionClosed, errClosedSource)
	}
	a.closed = true
	a.closeAt = cause
	a.mu.Unlock()
	a.cond.Broadcast()
}

// Ensure blocks until at least n bytes are queued, ctx is done, or the
// accumulator closes with fewer than n bytes remaining, whichever happens
// first. On success it returns a [*buffer.FragmentedView] over every chunk
// currently queued (at least n bytes, possibly more); consumed bytes are
// only released once [Accumulator.Advance] moves past them.
func (a *Accumulator) Ensure(ctx context.Context, n int) (*buffer.FragmentedView, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	stop := context.AfterFunc(ctx, a.cond.Broadcast)
	defer stop()

	for {
		if total := a.totalLocked(); total >= n {
			return buffer.NewFragmentedView(append([]*buffer.Buffer(nil), a.chunks...)...), nil
		}
		if a.closed {
			return nil, a.closeAt
		}
		if err := ctx.Err(); err != nil {
			return nil, asockerr.New(asockerr.KindCancelled, err)
		}
		a.cond.Wait()
	}
}

// Advance consumes n bytes from the front of the queue, releasing any
// chunk fully drained in the process via the release callback passed to
// [NewAccumulator]. n must not exceed the total queued bytes.
func (a *Accumulator) Advance(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for n > 0 && len(a.chunks) > 0 {
		head := a.chunks[0]
		take := n
		if take > head.Remaining() {
			take = head.Remaining()
		}
		head.Advance(take)
		n -= take
		if !head.HasRemaining() {
			a.chunks = a.chunks[1:]
			if a.release != nil {
				a.release(head)
			}
		}
	}
}

// Buffered returns the total number of unread bytes currently queued.
func (a *Accumulator) Buffered() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totalLocked()
}

func (a *Accumulator) totalLocked() int {
	total := 0
	for _, c := range a.chunks {
		total += c.Remaining()
	}
	return total
}

type closedSourceError struct{}

func (closedSourceError) Error() string { return "stream: source closed" }

var errClosedSource = closedSourceError{}
