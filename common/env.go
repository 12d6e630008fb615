package common

// Environment variables recognized by the daemon and client.
const (
	// SocketNameEnv overrides the Unix socket file name.
	SocketNameEnv = "REVQ_SOCKET_NAME"

	// PipeNameEnv overrides the Windows named pipe name.
	PipeNameEnv = "REVQ_PIPE_NAME"

	// TCPPortEnv overrides the TCP fallback port.
	TCPPortEnv = "REVQ_TCP_PORT"

	// DataDirEnv overrides the daemon's data directory (database and
	// pretagging checkpoint).
	DataDirEnv = "REVQ_DATA_DIR"
)
