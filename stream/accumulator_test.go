// SPDX-License-Identifier: GPL-3.0-or-later

package stream

import (
	"context"
	"testing"
	"time"

	"github.com/basswire/asocket/buffer"
	"github.com/stretchr/testify/require"
)

func TestEnsureReturnsOnceEnoughBytesQueued(t *testing.T) {
	acc := NewAccumulator(nil)

	go func() {
		time.Sleep(10 * time.Millisecond)
		chunk := buffer.Wrap([]byte("hello "))
		acc.Push(chunk)
		chunk2 := buffer.Wrap([]byte("world"))
		acc.Push(chunk2)
	}()

	view, err := acc.Ensure(context.Background(), 11)
	require.NoError(t, err)
	require.Equal(t, 11, view.Len())

	got, err := view.Bytes(11)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(got))
}

func TestEnsureSeesTerminalCloseAfterDraining(t *testing.T) {
	acc := NewAccumulator(nil)
	acc.Push(buffer.Wrap([]byte("ab")))
	acc.Close(nil)

	view, err := acc.Ensure(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, 2, view.Len())
	acc.Advance(2)

	_, err = acc.Ensure(context.Background(), 1)
	require.Error(t, err)
}

func TestEnsureRespectsContextCancellation(t *testing.T) {
	acc := NewAccumulator(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := acc.Ensure(ctx, 100)
	require.Error(t, err)
}

func TestAdvanceReleasesFullyConsumedChunks(t *testing.T) {
	var released []*buffer.Buffer
	acc := NewAccumulator(func(b *buffer.Buffer) { released = append(released, b) })

	acc.Push(buffer.Wrap([]byte("ab")))
	acc.Push(buffer.Wrap([]byte("cd")))

	view, err := acc.Ensure(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, 4, view.Len())

	acc.Advance(3)
	require.Len(t, released, 1)
	require.Equal(t, 1, acc.Buffered())
}
