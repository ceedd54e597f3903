// SPDX-License-Identifier: GPL-3.0-or-later

package stream

import (
	"iter"
	"strings"
)

// Lines splits a sequence of decoded string chunks into lines, handling
// both "\n" and "\r\n" across chunk boundaries. Any trailing partial line
// left over when the source sequence ends (without a final terminator)
// is dropped, per spec.md §4.6 — a caller that needs the tail must drain
// the remainder itself from the underlying source.
func Lines(seq iter.Seq2[string, error]) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		var pending strings.Builder

		emit := func(line string) bool {
			line = strings.TrimSuffix(line, "\r")
			return yield(line, nil)
		}

		for chunk, err := range seq {
			if err != nil {
				yield("", err)
				return
			}
			pending.WriteString(chunk)
			for {
				buffered := pending.String()
				idx := strings.IndexByte(buffered, '\n')
				if idx < 0 {
					break
				}
				line := buffered[:idx]
				pending.Reset()
				pending.WriteString(buffered[idx+1:])
				if !emit(line) {
					return
				}
			}
		}
		// Source exhausted with no trailing terminator: the remainder is
		// an incomplete line and is intentionally dropped.
	}
}
