//go:build !windows

package server

import (
	"fmt"
	"net"
	"os"

	"github.com/revq/revq/common"
)

// createListener creates a Unix socket listener with TCP fallback.
// Transport priority: Unix socket > TCP.
func (s *Server) createListener() (net.Listener, error) {
	socketPath := common.SocketPath()
	_ = os.Remove(socketPath)
	l, err := net.ListenUnix("unix", &net.UnixAddr{
		Name: socketPath,
		Net:  "unix",
	})
	if err != nil {
		s.log.Warning("cannot listen on unix socket: %v", err)
		s.log.Warning("falling back to tcp")
		tcpListener, tcpErr := net.Listen("tcp", fmt.Sprintf("%s:%d", common.TCPHost, s.port))
		if tcpErr != nil {
			return nil, fmt.Errorf("error listening: %s", tcpErr.Error())
		}
		return tcpListener, nil
	}
	_ = os.Chmod(socketPath, 0o700)
	return l, nil
}

// cleanup removes the socket file after the listener is closed.
func (s *Server) cleanup() {
	_ = os.Remove(common.SocketPath())
}
