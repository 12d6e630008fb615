//go:build windows

package server

import (
	"fmt"
	"net"

	"github.com/Microsoft/go-winio"

	"github.com/revq/revq/common"
)

// pipeSecurityDescriptor restricts pipe access to SYSTEM, the built-in
// Administrators group and the Creator Owner, so other local users cannot
// drive the scheduler.
const pipeSecurityDescriptor = "D:(A;;GA;;;SY)(A;;GA;;;BA)(A;;GA;;;CO)"

// createListener creates a Windows named pipe listener with TCP fallback.
// Transport priority: named pipe > TCP.
func (s *Server) createListener() (net.Listener, error) {
	cfg := &winio.PipeConfig{
		SecurityDescriptor: pipeSecurityDescriptor,
	}
	l, err := winio.ListenPipe(common.PipePath(), cfg)
	if err != nil {
		s.log.Warning("named pipe creation failed: %v", err)
		s.log.Warning("falling back to tcp (firewall prompts may occur)")
		tcpListener, tcpErr := net.Listen("tcp", fmt.Sprintf("%s:%d", common.TCPHost, s.port))
		if tcpErr != nil {
			return nil, fmt.Errorf("error listening: %s", tcpErr.Error())
		}
		return tcpListener, nil
	}
	return l, nil
}

// cleanup is a no-op on Windows; the pipe disappears with its listener.
func (s *Server) cleanup() {}
