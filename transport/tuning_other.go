//go:build !linux

package transport

import "net"

// applyPlatformTuning is a no-op on platforms without TCP_QUICKACK.
func applyPlatformTuning(conn *net.TCPConn) {}
