// Package revqcli is the thin JSON-RPC client for the revq daemon, used
// by the revq command line tool and embeddable by other presentation
// layers.
package revqcli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"

	"github.com/revq/revq/common"
)

// Client is a connection to a running revq daemon.
type Client struct {
	conn net.Conn
	rpc  *jrpc2.Client
}

// NewClient connects over the platform transport (Unix socket or named
// pipe).
func NewClient() (*Client, error) {
	conn, err := dial()
	if err != nil {
		return nil, fmt.Errorf("error connecting to daemon: %w", err)
	}
	return wrap(conn), nil
}

// NewTCPClient connects over the TCP fallback transport.
func NewTCPClient(port int) (*Client, error) {
	conn, err := net.Dial("tcp", net.JoinHostPort(common.TCPHost, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("error connecting to daemon: %w", err)
	}
	return wrap(conn), nil
}

// NewClientConn wraps an established connection, mainly for tests.
func NewClientConn(conn net.Conn) *Client {
	return wrap(conn)
}

func wrap(conn net.Conn) *Client {
	return &Client{
		conn: conn,
		rpc:  jrpc2.NewClient(channel.Line(conn, conn), nil),
	}
}

// Close shuts the connection down.
func (c *Client) Close() error {
	err := c.rpc.Close()
	if cerr := c.conn.Close(); err == nil {
		err = cerr
	}
	return err
}
