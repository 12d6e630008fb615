//go:build windows

package common

import (
	"os"
	"strings"
)

// DefaultPipeName is the default Windows named pipe name.
const DefaultPipeName = "revqd"

// PipePath returns the Windows named pipe path for the daemon. The
// REVQ_PIPE_NAME environment variable overrides the name; a value already
// carrying the \\.\pipe\ prefix is used as-is.
func PipePath() string {
	if name := os.Getenv(PipeNameEnv); name != "" {
		if strings.HasPrefix(name, `\\.\pipe\`) {
			return name
		}
		return `\\.\pipe\` + name
	}
	return `\\.\pipe\` + DefaultPipeName
}
