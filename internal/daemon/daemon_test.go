package daemon

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/revq/revq/common"
	"github.com/revq/revq/internal/api"
	"github.com/revq/revq/pkg/logger"
	"github.com/revq/revq/pkg/revqcli"
)

func TestDataDirExplicit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	cfg := &Config{DataDir: dir}
	got, err := cfg.dataDir()
	if err != nil {
		t.Fatalf("dataDir: %v", err)
	}
	if got != dir {
		t.Errorf("got %q, want %q", got, dir)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Errorf("data dir not created: %v", err)
	}
}

func TestDataDirFromEnv(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "env-data")
	t.Setenv(common.DataDirEnv, dir)
	cfg := &Config{}
	got, err := cfg.dataDir()
	if err != nil {
		t.Fatalf("dataDir: %v", err)
	}
	if got != dir {
		t.Errorf("got %q, want %q", got, dir)
	}
}

func TestRefreshLoopBadCronReturns(t *testing.T) {
	log := logger.NewMockLogger()
	done := make(chan struct{})
	go func() {
		runRefreshLoop(context.Background(), log, "not a cron", nil)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("refresh loop did not stop on a bad expression")
	}
	if len(log.ErrorCalls) == 0 {
		t.Error("expected the bad expression to be logged")
	}
}

func TestRunServesAndShutsDown(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "revqd-test.sock")
	t.Setenv(common.SocketNameEnv, socket)

	cfg := &Config{
		DataDir: t.TempDir(),
		Build:   api.BuildInfo{Version: "e2e-test"},
	}
	r := New(cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	var conn net.Conn
	var err error
	for i := 0; i < 200; i++ {
		conn, err = net.Dial("unix", socket)
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		cancel()
		t.Fatalf("daemon never came up: %v", err)
	}
	client := revqcli.NewClientConn(conn)

	res, err := client.Version(context.Background())
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if res.Version != "e2e-test" {
		t.Errorf("got version %q, want %q", res.Version, "e2e-test")
	}

	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	if err := client.Track(context.Background(), "n1", "incremental", ""); err != nil {
		t.Fatalf("Track: %v", err)
	}
	if _, err := client.CompleteReview(context.Background(), "n1", now.AddDate(0, 0, -2)); err != nil {
		t.Fatalf("CompleteReview: %v", err)
	}
	due, err := client.Due(context.Background(), now, "")
	if err != nil {
		t.Fatalf("Due: %v", err)
	}
	if len(due.Items) != 1 || due.Items[0].ID != "n1" {
		t.Errorf("unexpected due result: %+v", due)
	}
	client.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v on cancel, want nil", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	// The database must survive the shutdown for the next boot.
	if _, err := os.Stat(filepath.Join(cfg.DataDir, databaseFile)); err != nil {
		t.Errorf("database file missing after shutdown: %v", err)
	}
}
