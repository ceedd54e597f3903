//go:build !unix && !windows

// SPDX-License-Identifier: GPL-3.0-or-later

package asockerr

// classifyErrno is a no-op on platforms with no syscall-errno table (e.g.
// js/wasm, where every socket operation already returns
// [KindUnsupportedOperation] before a syscall error could occur, or plan9).
func classifyErrno(err error) (Kind, bool) {
	return 0, false
}
