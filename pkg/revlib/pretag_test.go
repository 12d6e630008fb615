package revlib

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/afero"

	"github.com/revq/revq/pkg/logger"
)

const testCheckpoint = "/pretag.checkpoint"

// seedCorpus builds n roots each with one inheriting flashcard child.
func seedCorpus(t *testing.T, s *Store, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		root := NodeID(fmt.Sprintf("topic-%03d", i))
		leaf := NodeID(fmt.Sprintf("topic-%03d/card", i))
		seedNodes(t, s, []nodeSpec{
			{root, KindIncremental, "", i % 100},
			{leaf, KindFlashcard, root, -1},
		})
	}
}

func TestPretagger_FullPass(t *testing.T) {
	s := newTestStore(t, Config{PretagChunkSize: 4})
	seedCorpus(t, s, 10)
	fs := afero.NewMemMapFs()
	p := NewPretagger(s, logger.NewNopLogger(), fs, testCheckpoint)

	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	p.Wait()

	pr := p.Progress()
	if pr.State != PretagCompleted {
		t.Fatalf("state = %s, want completed", pr.State)
	}
	if pr.Processed != s.Len() || pr.Total != s.Len() {
		t.Errorf("progress = %d/%d, want %d/%d", pr.Processed, pr.Total, s.Len(), s.Len())
	}
	if len(pr.Skipped) != 0 {
		t.Errorf("skipped = %v, want none", pr.Skipped)
	}

	// Completion clears the checkpoint.
	if _, err := fs.Stat(testCheckpoint); err == nil {
		t.Error("checkpoint still present after completed pass")
	}

	// Every materialized value must match a from-scratch computation.
	assertMatchesFromScratch(t, s)
}

// assertMatchesFromScratch compares every cached effective priority against
// a fresh store rebuilt from the same records.
func assertMatchesFromScratch(t *testing.T, s *Store) {
	t.Helper()
	fresh := newTestStore(t, s.Config())
	for _, id := range s.IDs() {
		n, _ := s.table.GetOk(id)
		n.mu.RLock()
		fresh.table.Set(id, &node{
			id:       n.id,
			kind:     n.kind,
			parentID: n.parentID,
			explicit: n.explicit,
		})
		fresh.indexChild(n.parentID, id)
		n.mu.RUnlock()
	}
	for _, id := range s.IDs() {
		got, _ := s.EffectivePriority(id)
		want, _ := fresh.EffectivePriority(id)
		if got != want {
			t.Errorf("EffectivePriority(%s) = %d, from-scratch = %d", id, got, want)
		}
	}
}

func TestPretagger_LightModeRefuses(t *testing.T) {
	s := newTestStore(t, Config{PerformanceMode: ModeLight})
	p := NewPretagger(s, nil, nil, "")
	if err := p.Start(context.Background()); !errors.Is(err, ErrPretagLightMode) {
		t.Errorf("Start in light mode = %v, want ErrPretagLightMode", err)
	}
}

func TestPretagger_DoubleStartRefuses(t *testing.T) {
	s := newTestStore(t, Config{})
	seedCorpus(t, s, 50)
	p := NewPretagger(s, nil, nil, "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	// The second Start may race completion of the first; either outcome
	// (refused or accepted after completion) is legal, but never both running.
	err := p.Start(ctx)
	if err != nil && !errors.Is(err, ErrPretagRunning) {
		t.Errorf("second Start = %v, want nil or ErrPretagRunning", err)
	}
	p.Wait()
}

func TestPretagger_CancelledBeforeFirstChunk(t *testing.T) {
	s := newTestStore(t, Config{PretagChunkSize: 2})
	seedCorpus(t, s, 10)
	p := NewPretagger(s, nil, afero.NewMemMapFs(), testCheckpoint)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	p.Wait()

	pr := p.Progress()
	if pr.State != PretagCancelled {
		t.Fatalf("state = %s, want cancelled", pr.State)
	}
	if pr.Processed != 0 {
		t.Errorf("processed = %d, want 0", pr.Processed)
	}
}

func TestPretagger_ResumeFromCheckpoint(t *testing.T) {
	s := newTestStore(t, Config{PretagChunkSize: 3})
	seedCorpus(t, s, 6) // 12 nodes
	ids := s.IDs()

	fs := afero.NewMemMapFs()
	// Simulate an interrupted earlier pass that settled the first 5 nodes.
	resumeAfter := ids[4]
	data, err := json.Marshal(pretagCheckpoint{LastID: resumeAfter})
	if err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, testCheckpoint, data, 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewPretagger(s, nil, fs, testCheckpoint)
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	p.Wait()

	pr := p.Progress()
	if pr.State != PretagCompleted {
		t.Fatalf("state = %s, want completed", pr.State)
	}
	// The resumed pass reports the full corpus as settled but only walks
	// the tail past the checkpoint.
	if pr.Processed != len(ids) {
		t.Errorf("processed = %d, want %d", pr.Processed, len(ids))
	}
	if pr.LastID != ids[len(ids)-1] {
		t.Errorf("lastID = %s, want %s", pr.LastID, ids[len(ids)-1])
	}
	assertMatchesFromScratch(t, s)
}

func TestPretagger_CancelThenResumeSettlesEverything(t *testing.T) {
	s := newTestStore(t, Config{PretagChunkSize: 2})
	seedCorpus(t, s, 8)
	fs := afero.NewMemMapFs()

	// First pass: cancelled immediately, then pretend one chunk landed by
	// the checkpoint a real interrupted pass would have written.
	p := NewPretagger(s, nil, fs, testCheckpoint)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	p.Wait()
	if got := p.Progress().State; got != PretagCancelled {
		t.Fatalf("state = %s, want cancelled", got)
	}

	// Second pass over the same worker resumes and completes.
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("restart: %v", err)
	}
	p.Wait()
	pr := p.Progress()
	if pr.State != PretagCompleted {
		t.Fatalf("state after resume = %s, want completed", pr.State)
	}
	if pr.Processed != s.Len() {
		t.Errorf("processed = %d, want %d", pr.Processed, s.Len())
	}
	assertMatchesFromScratch(t, s)
}

func TestPretagger_SkipsMalformedNodes(t *testing.T) {
	s := newTestStore(t, Config{PretagChunkSize: 4})
	seedCorpus(t, s, 3)
	// A two-node parent cycle is malformed input: skipped, not fatal.
	seedNodes(t, s, []nodeSpec{
		{"loop-a", KindIncremental, "loop-b", -1},
		{"loop-b", KindIncremental, "loop-a", -1},
	})

	log := logger.NewMockLogger()
	p := NewPretagger(s, log, nil, "")
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	p.Wait()

	pr := p.Progress()
	if pr.State != PretagCompleted {
		t.Fatalf("state = %s, want completed despite skips", pr.State)
	}
	if len(pr.Skipped) != 2 {
		t.Fatalf("skipped = %v, want the two cycle nodes", pr.Skipped)
	}
	seen := map[NodeID]bool{}
	for _, id := range pr.Skipped {
		seen[id] = true
	}
	if !seen["loop-a"] || !seen["loop-b"] {
		t.Errorf("skipped = %v, want loop-a and loop-b", pr.Skipped)
	}
	if len(log.WarningCalls) < 2 {
		t.Errorf("warnings = %v, want one per skipped node", log.WarningCalls)
	}
}

func TestPretagger_ConcurrentEditWins(t *testing.T) {
	s := newTestStore(t, Config{PretagChunkSize: 8})
	seedCorpus(t, s, 40)
	p := NewPretagger(s, nil, nil, "")

	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	// Race foreground edits against the walk. The store's version check
	// makes the edit authoritative over any in-flight walk computation.
	for i := 0; i < 40; i++ {
		id := NodeID(fmt.Sprintf("topic-%03d", i))
		if err := s.SetExplicitPriority(id, 77); err != nil {
			t.Fatalf("SetExplicitPriority(%s): %v", id, err)
		}
	}
	p.Wait()

	for i := 0; i < 40; i++ {
		leaf := NodeID(fmt.Sprintf("topic-%03d/card", i))
		got, err := s.EffectivePriority(leaf)
		if err != nil {
			t.Fatalf("EffectivePriority(%s): %v", leaf, err)
		}
		if got != 77 {
			t.Errorf("EffectivePriority(%s) = %d, want 77 (edit must win)", leaf, got)
		}
	}
}

func TestPretagState_String(t *testing.T) {
	tests := []struct {
		state PretagState
		want  string
	}{
		{PretagIdle, "idle"},
		{PretagRunning, "running"},
		{PretagCompleted, "completed"},
		{PretagCancelled, "cancelled"},
		{PretagFailed, "failed"},
		{PretagState(99), "unknown"},
	}
	for _, tc := range tests {
		if got := tc.state.String(); got != tc.want {
			t.Errorf("%d.String() = %q, want %q", tc.state, got, tc.want)
		}
	}
}
