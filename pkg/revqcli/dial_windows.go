//go:build windows

package revqcli

import (
	"net"
	"time"

	"github.com/Microsoft/go-winio"

	"github.com/revq/revq/common"
)

func dial() (net.Conn, error) {
	timeout := 5 * time.Second
	return winio.DialPipe(common.PipePath(), &timeout)
}
