// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: this module's own socket engine (socket.Socket.Read) plus
// the pack's charset-decoding precedent for golang.org/x/text/encoding
// (transitively present via x/text in the retrieval pack's go.sum
// entries, e.g. WhileEndless-go-rawhttp).

package stream

import (
	"context"
	"iter"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/basswire/asocket/buffer"
	"github.com/basswire/asocket/socket"
)

// reader is the subset of [*socket.Socket] ReadFlow needs, kept narrow so
// callers can substitute a fake in tests.
type reader interface {
	Read(ctx context.Context, buf *buffer.Buffer, timeout time.Duration) (int, error)
}

var _ reader = (*socket.Socket)(nil)

// ReadFlow returns a lazy sequence of byte chunks read from sock, each up
// to bufSize bytes. Backpressure is structural: the next Read is not
// submitted until the consumer resumes the range loop, since a Go
// range-over-func iterator runs its body inline with no internal
// buffering. The sequence ends after the first error (including a
// closed-connection EOF), which is yielded once as the second value.
func ReadFlow(ctx context.Context, sock reader, bufSize int, timeout time.Duration) iter.Seq2[[]byte, error] {
	if bufSize <= 0 {
		bufSize = 4096
	}
	return func(yield func([]byte, error) bool) {
		for {
			buf := buffer.Allocate(bufSize, buffer.ZoneHeap)
			n, err := sock.Read(ctx, buf, timeout)
			if err != nil {
				yield(nil, err)
				return
			}
			chunk := make([]byte, n)
			copy(chunk, buf.Raw()[:n])
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

// ReadFlowString wraps [ReadFlow], decoding each chunk from charset into
// UTF-8. An empty or "utf-8" charset is a zero-cost passthrough; other
// charsets route through golang.org/x/text/encoding. An unknown charset
// name yields a single error.
func ReadFlowString(ctx context.Context, sock reader, charset string, bufSize int, timeout time.Duration) iter.Seq2[string, error] {
	enc, err := lookupEncoding(charset)
	if err != nil {
		return func(yield func(string, error) bool) { yield("", err) }
	}

	return func(yield func(string, error) bool) {
		for chunk, err := range ReadFlow(ctx, sock, bufSize, timeout) {
			if err != nil {
				yield("", err)
				return
			}
			if enc == nil {
				if !yield(string(chunk), nil) {
					return
				}
				continue
			}
			decoded, decErr := enc.NewDecoder().String(string(chunk))
			if decErr != nil {
				yield("", decErr)
				return
			}
			if !yield(decoded, nil) {
				return
			}
		}
	}
}

func lookupEncoding(charset string) (encoding.Encoding, error) {
	switch charset {
	case "", "utf-8", "UTF-8":
		return nil, nil
	case "utf-16", "UTF-16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "iso-8859-1", "latin1", "ISO-8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252":
		return charmap.Windows1252, nil
	default:
		return nil, unsupportedCharsetError{charset}
	}
}

type unsupportedCharsetError struct{ charset string }

func (e unsupportedCharsetError) Error() string {
	return "stream: unsupported charset " + e.charset
}
