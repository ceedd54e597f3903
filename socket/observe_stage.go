// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: github.com/bassosimone/nop's ObserveConnFunc stage
// (observeconn.go), used here by both [Open] (via [pipeline.Compose4])
// and [Server.Accept] — this file carries no build tag because both
// callers need it, including platforms where dialing/binding a real
// socket is unsupported but a conn can still be wrapped for logging.

package socket

import (
	"context"
	"net"
	"time"

	"github.com/basswire/asocket/asockerr"
	"github.com/basswire/asocket/internal/obslog"
	"github.com/basswire/asocket/pipeline"
)

// observeStage wraps conn with [obslog.ObserveConn] so every Read, Write,
// Close, and deadline change logs through logger, and records the
// wrapped conn as s.transport so Read/Write (the non-TLS case) flow
// through it too. It never fails.
func observeStage(s *Socket, logger obslog.Logger) pipeline.Func[net.Conn, net.Conn] {
	return pipeline.Adapter[net.Conn, net.Conn](func(ctx context.Context, conn net.Conn) (net.Conn, error) {
		observed := obslog.ObserveConn(conn, logger, classifyLabel, time.Now)
		s.transport = observed
		return observed, nil
	})
}

// classifyLabel adapts [asockerr.Classify] to the string-label shape
// [obslog.ErrClassifier] expects in structured logs.
func classifyLabel(err error) string {
	if err == nil {
		return ""
	}
	return asockerr.Classify(err).String()
}
