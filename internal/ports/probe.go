package ports

import (
	"net"
	"strconv"
)

// Available reports whether a listening socket can be opened on loopback
// at the given port. The socket is released immediately; this is a
// best-effort probe and can race with other processes.
func Available(port int) bool {
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return false
	}
	_ = listener.Close()
	return true
}
