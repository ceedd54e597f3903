// SPDX-License-Identifier: GPL-3.0-or-later

package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferWriteThenRead(t *testing.T) {
	b := Allocate(16, ZoneHeap)
	require.NoError(t, b.WriteByte(0x01))
	require.NoError(t, b.WriteUint16(0x0203))
	require.NoError(t, b.WriteUint32(0x04050607))
	require.NoError(t, b.WriteBytes([]byte("hi")))

	b.ResetForRead()
	v, err := b.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), v)

	u16, err := b.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0203), u16)

	u32, err := b.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x04050607), u32)

	raw, err := b.ReadBytes(2)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(raw))
	assert.False(t, b.HasRemaining())
}

func TestBufferShortBuffer(t *testing.T) {
	b := Allocate(1, ZoneHeap)
	require.NoError(t, b.WriteByte(1))
	assert.Error(t, b.WriteByte(2))
}

func TestBufferSliceSharesBackingArray(t *testing.T) {
	b := Allocate(4, ZoneHeap)
	require.NoError(t, b.WriteBytes([]byte("abcd")))
	b.ResetForRead()

	s := b.Slice()
	s.Raw()[0] = 'Z'
	assert.Equal(t, byte('Z'), b.Raw()[0])
}

func TestFragmentedViewZeroCopyWithinOneChunk(t *testing.T) {
	c1 := Wrap([]byte("hello"))
	v := NewFragmentedView(c1)

	got, err := v.Bytes(5)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	got[0] = 'H'
	assert.Equal(t, byte('H'), c1.Raw()[0])
}

func TestFragmentedViewAcrossChunkBoundary(t *testing.T) {
	c1 := Wrap([]byte("ab"))
	c2 := Wrap([]byte("cdef"))
	v := NewFragmentedView(c1, c2)

	assert.Equal(t, 6, v.Len())
	got, err := v.Bytes(4)
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(got))
}

func TestFragmentedViewAdvanceReleasesConsumedChunks(t *testing.T) {
	c1 := Wrap([]byte("ab"))
	c2 := Wrap([]byte("cd"))
	v := NewFragmentedView(c1, c2)

	var released []*Buffer
	v.Advance(3, func(b *Buffer) { released = append(released, b) })

	require.Len(t, released, 1)
	assert.Equal(t, 1, v.Len())
}

func TestPoolAcquireReleaseRespectsMaxSize(t *testing.T) {
	p := NewPool(1, 64)

	b1 := p.Acquire(32)
	b2 := p.Acquire(32)
	assert.Equal(t, 2, p.Outstanding())

	p.Release(b1)
	assert.Equal(t, 1, p.IdleCount())

	p.Release(b2)
	assert.Equal(t, 1, p.IdleCount(), "second release should be discarded past maxSize")
	assert.Equal(t, 0, p.Outstanding())
}

func TestPoolAcquireReusesIdleBuffer(t *testing.T) {
	p := NewPool(4, 64)
	b := p.Acquire(32)
	p.Release(b)

	reused := p.Acquire(16)
	assert.Same(t, b, reused)
	assert.Equal(t, 0, reused.Position(), "Acquire resets for write")
}
