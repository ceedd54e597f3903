// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: this module's pipeline package (Func/Compose), applying
// the same one-step-transform shape to a lazy buffer sequence instead of
// a single value. compress/flate is the stdlib fallback for the
// map-buffer operator's concrete compression instance — the retrieval
// pack wires no third-party compression library anywhere, so this is the
// "no suitable third-party library" case recorded in DESIGN.md.

package stream

import (
	"bytes"
	"compress/flate"
	"io"
	"iter"

	"github.com/basswire/asocket/buffer"
)

// MapBuffer applies transform to every buffer produced by seq, stopping
// at the first error from either seq or transform.
func MapBuffer(seq iter.Seq2[*buffer.Buffer, error], transform func(*buffer.Buffer) (*buffer.Buffer, error)) iter.Seq2[*buffer.Buffer, error] {
	return func(yield func(*buffer.Buffer, error) bool) {
		for buf, err := range seq {
			if err != nil {
				yield(nil, err)
				return
			}
			out, err := transform(buf)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(out, nil) {
				return
			}
		}
	}
}

// Deflate returns a [MapBuffer] transform that compresses each buffer
// independently (one flate stream per buffer) at level.
func Deflate(level int) func(*buffer.Buffer) (*buffer.Buffer, error) {
	return func(buf *buffer.Buffer) (*buffer.Buffer, error) {
		var out bytes.Buffer
		w, err := flate.NewWriter(&out, level)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buffer.Wrap(out.Bytes()), nil
	}
}

// Inflate returns a [MapBuffer] transform that decompresses each buffer
// independently, the counterpart of [Deflate].
func Inflate() func(*buffer.Buffer) (*buffer.Buffer, error) {
	return func(buf *buffer.Buffer) (*buffer.Buffer, error) {
		r := flate.NewReader(bytes.NewReader(buf.Bytes()))
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return buffer.Wrap(out), nil
	}
}
