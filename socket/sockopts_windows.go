//go:build windows

// SPDX-License-Identifier: GPL-3.0-or-later

package socket

import (
	"net"
	"os"

	"golang.org/x/sys/windows"
)

func controlSetReuseAddr(fd uintptr) error {
	return windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_REUSEADDR, 1)
}

func controlSetV6Only(fd uintptr, v bool) error {
	n := 0
	if v {
		n = 1
	}
	return windows.SetsockoptInt(windows.Handle(fd), windows.IPPROTO_IPV6, windows.IPV6_V6ONLY, n)
}

// bindListenerWithBacklog is windows' counterpart to the unix raw-socket
// path: net.ListenConfig has the same unconfigurable listen() call on
// this platform too, so reaching a custom backlog means building the
// socket directly with windows.Socket/Bind/Listen.
func bindListenerWithBacklog(host string, port int, backlog int, reuseAddr bool) (net.Listener, error) {
	domain, sa, err := windowsSockaddr(host, port)
	if err != nil {
		return nil, err
	}

	handle, err := windows.Socket(domain, windows.SOCK_STREAM, windows.IPPROTO_TCP)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	if reuseAddr {
		if err := windows.SetsockoptInt(handle, windows.SOL_SOCKET, windows.SO_REUSEADDR, 1); err != nil {
			windows.Closesocket(handle)
			return nil, os.NewSyscallError("setsockopt", err)
		}
	}
	if domain == windows.AF_INET6 {
		_ = windows.SetsockoptInt(handle, windows.IPPROTO_IPV6, windows.IPV6_V6ONLY, 0)
	}
	if err := windows.Bind(handle, sa); err != nil {
		windows.Closesocket(handle)
		return nil, os.NewSyscallError("bind", err)
	}
	if err := windows.Listen(handle, backlog); err != nil {
		windows.Closesocket(handle)
		return nil, os.NewSyscallError("listen", err)
	}

	file := os.NewFile(uintptr(handle), "asocket-listener")
	defer file.Close()
	return net.FileListener(file)
}

func windowsSockaddr(host string, port int) (int, windows.Sockaddr, error) {
	if host == "" {
		return windows.AF_INET6, &windows.SockaddrInet6{Port: port}, nil
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
		return windows.AF_INET, &windows.SockaddrInet4{Port: port, Addr: addr}, nil
	}
	var addr [16]byte
	copy(addr[:], ip.To16())
	return windows.AF_INET6, &windows.SockaddrInet6{Port: port, Addr: addr}, nil
}
