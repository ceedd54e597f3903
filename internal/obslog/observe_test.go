// SPDX-License-Identifier: GPL-3.0-or-later

package obslog

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu    sync.Mutex
	infos []string
	debug []string
}

func (r *recordingLogger) Debug(msg string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.debug = append(r.debug, msg)
}

func (r *recordingLogger) Info(msg string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, msg)
}

func TestObserveConnLogsIO(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	rec := &recordingLogger{}
	observed := ObserveConn(client, rec, func(error) string { return "" }, time.Now)

	go func() {
		buf := make([]byte, 5)
		server.Read(buf)
	}()

	n, err := observed.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	require.NoError(t, observed.Close())
	assert.Equal(t, net.ErrClosed, observed.Close())

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Contains(t, rec.debug, "writeStart")
	assert.Contains(t, rec.debug, "writeDone")
	assert.Contains(t, rec.infos, "closeStart")
	assert.Contains(t, rec.infos, "closeDone")
}
