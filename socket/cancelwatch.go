// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: github.com/bassosimone/nop's cancelwatch.go (context
// cancellation unblocking a synchronous operation that has no native
// cancel channel) — adapted from watching a single TLSConn to watching
// anything with a Close() error method, since both a [*Socket] and a
// [net.Listener] need the same treatment.

package socket

import "context"

// watchCancel arranges for closer.Close to run once ctx is done, as long
// as the returned stop function has not already been called. Use it
// around any blocking call with no native cancellation channel, mirroring
// the teacher's rationale: a context-aware caller should never have to
// wait out a stdlib call that ignores context entirely.
func watchCancel(ctx context.Context, closer interface{ Close() error }) (stop func() bool) {
	return context.AfterFunc(ctx, func() {
		closer.Close()
	})
}
