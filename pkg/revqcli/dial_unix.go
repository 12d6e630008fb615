//go:build !windows

package revqcli

import (
	"net"

	"github.com/revq/revq/common"
)

func dial() (net.Conn, error) {
	return net.Dial("unix", common.SocketPath())
}
