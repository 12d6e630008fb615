//go:build !windows

package common

import (
	"os"
	"path/filepath"
)

// DefaultSocketName is the default Unix socket file name.
const DefaultSocketName = "revqd.sock"

// SocketPath returns the Unix socket path for the daemon. The
// REVQ_SOCKET_NAME environment variable overrides the file name; an
// absolute value is used as-is.
func SocketPath() string {
	name := os.Getenv(SocketNameEnv)
	if name == "" {
		name = DefaultSocketName
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(os.TempDir(), name)
}
