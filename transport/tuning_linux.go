//go:build linux

package transport

import (
	"net"

	"golang.org/x/sys/unix"
)

// applyPlatformTuning applies Linux-specific socket options beyond what the
// net package's portable SetKeepAlive/SetNoDelay expose, the way the
// teacher engine's socket.Apply does for its listener sockets.
func applyPlatformTuning(conn *net.TCPConn) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return
	}
	_ = raw.Control(func(fd uintptr) {
		// TCP_QUICKACK: disable delayed ACK, cutting tail latency for the
		// short request/response exchanges HTTP/1.1 produces.
		_ = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_QUICKACK, 1)
	})
}
