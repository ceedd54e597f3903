// SPDX-License-Identifier: GPL-3.0-or-later

package socket

import "net"

// applyOptions applies the TCP-level settings of opts to conn. conn is
// expected to be a *net.TCPConn (true for everything [Open] and
// [Server.Accept] hand back); on any other net.Conn implementation
// (notably net.Pipe, used by tests) every setting is silently a no-op,
// since there is no socket underneath to configure.
func applyOptions(conn net.Conn, opts Options) error {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}

	if opts.TCPNoDelay != TriDefault {
		if err := tcpConn.SetNoDelay(opts.TCPNoDelay == TriOn); err != nil {
			return err
		}
	}
	if opts.KeepAlive != TriDefault {
		if err := tcpConn.SetKeepAlive(opts.KeepAlive == TriOn); err != nil {
			return err
		}
	}
	if opts.ReceiveBuffer != nil {
		if err := tcpConn.SetReadBuffer(*opts.ReceiveBuffer); err != nil {
			return err
		}
	}
	if opts.SendBuffer != nil {
		if err := tcpConn.SetWriteBuffer(*opts.SendBuffer); err != nil {
			return err
		}
	}
	// ReuseAddress is a listen-time setting (SO_REUSEADDR governs bind(2),
	// not connect(2)); see Server.Bind for where it is actually applied.
	return nil
}
