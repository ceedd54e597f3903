//go:build unix

// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: this module's own errno tables (asockerr/errno_unix.go) and
// spec.md §6's "Socket options applied via setsockopt" requirement, which
// stdlib's *net.TCPConn cannot express for SO_REUSEADDR / IPV6_V6ONLY.

package socket

import (
	"net"
	"os"

	"golang.org/x/sys/unix"
)

func controlSetReuseAddr(fd uintptr) error {
	return unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
}

func controlSetV6Only(fd uintptr, v bool) error {
	n := 0
	if v {
		n = 1
	}
	return unix.SetsockoptInt(int(fd), unix.IPPROTO_IPV6, unix.IPV6_V6ONLY, n)
}

// bindListenerWithBacklog builds a listening socket directly from
// unix.Socket/Bind/Listen so backlog actually reaches listen(2),
// bypassing net.ListenConfig's own unconfigurable listen() call.
func bindListenerWithBacklog(host string, port int, backlog int, reuseAddr bool) (net.Listener, error) {
	domain, sa, err := unixSockaddr(host, port)
	if err != nil {
		return nil, err
	}

	fd, err := unix.Socket(domain, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	if reuseAddr {
		if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
			unix.Close(fd)
			return nil, os.NewSyscallError("setsockopt", err)
		}
	}
	if domain == unix.AF_INET6 {
		// Best-effort dual-stack wildcard; ignore failure as in
		// bindListenerDefault's equivalent path.
		_ = unix.SetsockoptInt(fd, unix.IPPROTO_IPV6, unix.IPV6_V6ONLY, 0)
	}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, os.NewSyscallError("bind", err)
	}
	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return nil, os.NewSyscallError("listen", err)
	}

	file := os.NewFile(uintptr(fd), "asocket-listener")
	defer file.Close()
	return net.FileListener(file)
}

// unixSockaddr resolves host:port into the socket family and
// unix.Sockaddr bindListenerWithBacklog needs. An empty host binds the
// IPv6 wildcard (paired with IPV6_V6ONLY=false for dual-stack), matching
// bindListenerDefault's behavior for the "tcp" network.
func unixSockaddr(host string, port int) (int, unix.Sockaddr, error) {
	if host == "" {
		return unix.AF_INET6, &unix.SockaddrInet6{Port: port}, nil
	}

	ip := net.ParseIP(host)
	if ip == nil {
		resolved, err := net.ResolveIPAddr("ip", host)
		if err != nil {
			return 0, nil, err
		}
		ip = resolved.IP
	}
	if v4 := ip.To4(); v4 != nil {
		var addr [4]byte
		copy(addr[:], v4)
		return unix.AF_INET, &unix.SockaddrInet4{Port: port, Addr: addr}, nil
	}
	var addr [16]byte
	copy(addr[:], ip.To16())
	return unix.AF_INET6, &unix.SockaddrInet6{Port: port, Addr: addr}, nil
}

