//go:build !windows

package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSocketPathDefault(t *testing.T) {
	t.Setenv(SocketNameEnv, "")
	want := filepath.Join(os.TempDir(), DefaultSocketName)
	if got := SocketPath(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSocketPathNameOverride(t *testing.T) {
	t.Setenv(SocketNameEnv, "custom.sock")
	want := filepath.Join(os.TempDir(), "custom.sock")
	if got := SocketPath(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSocketPathAbsoluteOverride(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "revqd.sock")
	t.Setenv(SocketNameEnv, abs)
	if got := SocketPath(); got != abs {
		t.Errorf("got %q, want %q", got, abs)
	}
}
