package revqcli

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"

	"github.com/revq/revq/internal/api"
	"github.com/revq/revq/pkg/revlib"
)

// newTestClient serves a real API over an in-memory pipe and returns a
// client connected to it.
func newTestClient(t *testing.T) *Client {
	t.Helper()
	store, err := revlib.NewStore(revlib.Config{}, revlib.NewMemBackend(), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	a := api.NewApi(context.Background(), nil, store,
		revlib.NewRanker(store),
		revlib.NewPretagger(store, nil, nil, ""),
		api.BuildInfo{Version: "0.0.0-test", BuildType: "dev"})

	serverSide, clientSide := net.Pipe()
	srv := jrpc2.NewServer(a.Methods(), nil)
	srv.Start(channel.Line(serverSide, serverSide))

	client := NewClientConn(clientSide)
	t.Cleanup(func() {
		client.Close()
		srv.Stop()
		store.Close()
	})
	return client
}

func TestVersion(t *testing.T) {
	c := newTestClient(t)
	res, err := c.Version(context.Background())
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if res.Version != "0.0.0-test" {
		t.Errorf("got version %q, want %q", res.Version, "0.0.0-test")
	}
}

func TestTrackReviewDue(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	if err := c.Track(ctx, "articles", "incremental", ""); err != nil {
		t.Fatalf("Track: %v", err)
	}
	if err := c.Track(ctx, "articles/gc", "incremental", "articles"); err != nil {
		t.Fatalf("Track (child): %v", err)
	}
	if err := c.SetPriority(ctx, "articles", 15); err != nil {
		t.Fatalf("SetPriority: %v", err)
	}

	rev, err := c.CompleteReview(ctx, "articles/gc", now.AddDate(0, 0, -3))
	if err != nil {
		t.Fatalf("CompleteReview: %v", err)
	}
	if rev.Interval != 1 {
		t.Errorf("got interval %v, want 1", rev.Interval)
	}

	due, err := c.Due(ctx, now, "")
	if err != nil {
		t.Fatalf("Due: %v", err)
	}
	if len(due.Items) != 1 {
		t.Fatalf("got %d due items, want 1", len(due.Items))
	}
	it := due.Items[0]
	if it.ID != "articles/gc" || it.Priority != 15 {
		t.Errorf("unexpected due item: %+v", it)
	}

	shield, err := c.Shield(ctx, now, 1)
	if err != nil {
		t.Fatalf("Shield: %v", err)
	}
	if len(shield.Items) != 1 {
		t.Errorf("got %d shield items, want 1", len(shield.Items))
	}

	if err := c.ClearPriority(ctx, "articles"); err != nil {
		t.Fatalf("ClearPriority: %v", err)
	}
	node, err := c.Get(ctx, "articles/gc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if node.EffectivePriority != 10 {
		t.Errorf("got effective priority %d, want default 10", node.EffectivePriority)
	}
	if len(node.History) != 1 {
		t.Errorf("got %d history entries, want 1", len(node.History))
	}
}

func TestSetParentAndRemove(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	if err := c.Track(ctx, "a", "incremental", ""); err != nil {
		t.Fatalf("Track: %v", err)
	}
	if err := c.Track(ctx, "b", "flashcard", ""); err != nil {
		t.Fatalf("Track: %v", err)
	}
	if err := c.SetParent(ctx, "b", "a"); err != nil {
		t.Fatalf("SetParent: %v", err)
	}
	node, err := c.Get(ctx, "b")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if node.Parent != "a" {
		t.Errorf("got parent %q, want %q", node.Parent, "a")
	}

	if err := c.Remove(ctx, "b"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := c.Get(ctx, "b"); err == nil {
		t.Error("expected an error for a removed node")
	}
}

func TestPretagOverWire(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := c.Track(ctx, id, "flashcard", ""); err != nil {
			t.Fatalf("Track(%s): %v", id, err)
		}
	}
	if _, err := c.PretagRun(ctx); err != nil {
		t.Fatalf("PretagRun: %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		res, err := c.PretagProgress(ctx)
		if err != nil {
			t.Fatalf("PretagProgress: %v", err)
		}
		if res.State == "completed" {
			if res.Processed != 3 || res.Total != 3 {
				t.Errorf("got %d/%d processed, want 3/3", res.Processed, res.Total)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("pass stuck in state %q", res.State)
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Nothing is running anymore, so cancel must be rejected.
	if err := c.PretagCancel(ctx); err == nil {
		t.Error("expected an error cancelling an idle worker")
	}
}
