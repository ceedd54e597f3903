// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on this module's own design notes (§9 "Fragmented buffers and
// cycles"): a zero-copy logical concatenation of several buffers,
// represented as a slice-backed list of chunk references with a shared
// cursor rather than a two-buffer linked FragmentedReadBuffer(head, tail),
// so consumed chunks can be released immediately and no reference cycle
// bookkeeping is needed (Go's buffers carry no back-references).

package buffer

// FragmentedView is a read-only, zero-copy logical concatenation of
// several [Buffer] chunks in arrival order. It is returned by
// stream.Accumulator.Ensure and consumed by a protocol parser.
type FragmentedView struct {
	chunks []*Buffer
}

// NewFragmentedView builds a view over chunks, in order. The view does
// not take ownership: releasing chunks back to a pool remains the
// caller's responsibility once they are fully consumed.
func NewFragmentedView(chunks ...*Buffer) *FragmentedView {
	return &FragmentedView{chunks: chunks}
}

// Len returns the total number of unread bytes across all chunks.
func (v *FragmentedView) Len() int {
	total := 0
	for _, c := range v.chunks {
		total += c.Remaining()
	}
	return total
}

// Bytes returns the first n bytes of the view. When n fits within the
// first chunk, the returned slice aliases that chunk's backing array
// (zero-copy); when it spans a chunk boundary, the bytes are copied into
// a freshly allocated slice since no contiguous backing array exists.
// It does not advance the view; call Advance separately.
func (v *FragmentedView) Bytes(n int) ([]byte, error) {
	if n > v.Len() {
		return nil, errShortBuffer
	}
	if len(v.chunks) > 0 && v.chunks[0].Remaining() >= n {
		return v.chunks[0].Bytes()[:n], nil
	}
	out := make([]byte, 0, n)
	for _, c := range v.chunks {
		if len(out) == n {
			break
		}
		need := n - len(out)
		b := c.Bytes()
		if len(b) > need {
			b = b[:need]
		}
		out = append(out, b...)
	}
	return out, nil
}

// Advance consumes n bytes from the front of the view, releasing (via
// release, which may be nil) any chunk fully consumed in the process.
func (v *FragmentedView) Advance(n int, release func(*Buffer)) {
	for n > 0 && len(v.chunks) > 0 {
		head := v.chunks[0]
		take := n
		if take > head.Remaining() {
			take = head.Remaining()
		}
		head.Advance(take)
		n -= take
		if !head.HasRemaining() {
			v.chunks = v.chunks[1:]
			if release != nil {
				release(head)
			}
		}
	}
}
