package revlib

import (
	"testing"
	"time"
)

// dueNode seeds a node with an explicit priority and due time.
func dueNode(t *testing.T, s *Store, id NodeID, kind Kind, prio int, due time.Time) {
	t.Helper()
	seedNodes(t, s, []nodeSpec{{id, kind, "", prio}})
	if err := s.UpsertDueAt(id, due); err != nil {
		t.Fatalf("UpsertDueAt(%s): %v", id, err)
	}
}

func TestRanker_OrderingAndTieBreaks(t *testing.T) {
	s := newTestStore(t, Config{})
	r := NewRanker(s)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	earlier := now.Add(-2 * time.Hour)
	early := now.Add(-time.Hour)

	// Priority ascending first, ties by due time, further ties by id.
	dueNode(t, s, "c", KindFlashcard, 20, early)
	dueNode(t, s, "b", KindIncremental, 10, early)
	dueNode(t, s, "a", KindIncremental, 20, early)
	dueNode(t, s, "d", KindFlashcard, 20, earlier)
	dueNode(t, s, "future", KindFlashcard, 1, now.Add(time.Hour))
	seedNodes(t, s, []nodeSpec{{"never", KindIncremental, "", 1}})

	want := []NodeID{"b", "d", "a", "c"}
	got := r.DueSet(now, KindAny).IDs()
	if len(got) != len(want) {
		t.Fatalf("DueSet ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DueSet ids = %v, want %v", got, want)
		}
	}
}

func TestRanker_Deterministic(t *testing.T) {
	s := newTestStore(t, Config{})
	r := NewRanker(s)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	due := now.Add(-time.Minute)

	for _, id := range []NodeID{"n3", "n1", "n4", "n2", "n5"} {
		dueNode(t, s, id, KindFlashcard, 50, due)
	}

	first := r.DueSet(now, KindAny).IDs()
	for i := 0; i < 5; i++ {
		again := r.DueSet(now, KindAny).IDs()
		if len(again) != len(first) {
			t.Fatalf("run %d: length %d, want %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d: order %v, want %v", i, again, first)
			}
		}
	}
	// All ties: ordering must be id ascending.
	want := []NodeID{"n1", "n2", "n3", "n4", "n5"}
	for i := range want {
		if first[i] != want[i] {
			t.Fatalf("order = %v, want %v", first, want)
		}
	}
}

func TestRanker_KindFilter(t *testing.T) {
	s := newTestStore(t, Config{})
	r := NewRanker(s)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	due := now.Add(-time.Minute)

	dueNode(t, s, "inc1", KindIncremental, 10, due)
	dueNode(t, s, "card1", KindFlashcard, 5, due)
	dueNode(t, s, "inc2", KindIncremental, 1, due)

	tests := []struct {
		kind Kind
		want []NodeID
	}{
		{KindAny, []NodeID{"inc2", "card1", "inc1"}},
		{KindIncremental, []NodeID{"inc2", "inc1"}},
		{KindFlashcard, []NodeID{"card1"}},
	}
	for _, tc := range tests {
		got := r.DueSet(now, tc.kind).IDs()
		if len(got) != len(tc.want) {
			t.Fatalf("DueSet(%s) = %v, want %v", tc.kind, got, tc.want)
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Fatalf("DueSet(%s) = %v, want %v", tc.kind, got, tc.want)
			}
		}
	}
}

func TestRanker_SnapshotIsolation(t *testing.T) {
	s := newTestStore(t, Config{})
	r := NewRanker(s)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	due := now.Add(-time.Minute)

	dueNode(t, s, "a", KindFlashcard, 10, due)
	dueNode(t, s, "b", KindFlashcard, 20, due)

	set := r.DueSet(now, KindAny)
	if set.Len() != 2 {
		t.Fatalf("Len = %d, want 2", set.Len())
	}

	// A mutation after the snapshot must not leak into it.
	if err := s.SetExplicitPriority("b", 1); err != nil {
		t.Fatalf("SetExplicitPriority: %v", err)
	}
	ids := set.IDs()
	if ids[0] != "a" || ids[1] != "b" {
		t.Errorf("open snapshot changed: %v", ids)
	}

	// A fresh query observes the change.
	fresh := r.DueSet(now, KindAny).IDs()
	if fresh[0] != "b" || fresh[1] != "a" {
		t.Errorf("fresh snapshot = %v, want [b a]", fresh)
	}
}

func TestRanker_RemovedNodeLeavesDueSet(t *testing.T) {
	s := newTestStore(t, Config{})
	r := NewRanker(s)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	dueNode(t, s, "a", KindFlashcard, 10, now.Add(-time.Minute))
	if got := r.DueSet(now, KindAny).Len(); got != 1 {
		t.Fatalf("Len = %d, want 1", got)
	}
	if err := s.Remove("a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got := r.DueSet(now, KindAny).Len(); got != 0 {
		t.Errorf("Len after Remove = %d, want 0", got)
	}
}

func TestRanker_InheritedPriorityRanksSubtree(t *testing.T) {
	s := newTestStore(t, Config{})
	r := NewRanker(s)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	due := now.Add(-time.Minute)

	seedNodes(t, s, []nodeSpec{
		{"topic", KindIncremental, "", 30},
		{"card", KindFlashcard, "topic", -1},
	})
	if err := s.UpsertDueAt("card", due); err != nil {
		t.Fatalf("UpsertDueAt: %v", err)
	}
	dueNode(t, s, "solo", KindFlashcard, 40, due)

	items := r.DueSet(now, KindAny).Items()
	if len(items) != 2 {
		t.Fatalf("items = %v, want 2 entries", items)
	}
	if items[0].ID != "card" || items[0].Priority != 30 {
		t.Errorf("items[0] = %+v, want card at inherited 30", items[0])
	}

	// Ancestor edit re-ranks the descendant on the next query.
	if err := s.SetExplicitPriority("topic", 90); err != nil {
		t.Fatalf("SetExplicitPriority: %v", err)
	}
	items = r.DueSet(now, KindAny).Items()
	if items[0].ID != "solo" || items[1].Priority != 90 {
		t.Errorf("after ancestor edit: %+v", items)
	}
}

func TestRanker_Shield(t *testing.T) {
	s := newTestStore(t, Config{ShieldTopK: 2})
	r := NewRanker(s)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	due := now.Add(-time.Minute)

	dueNode(t, s, "a", KindFlashcard, 30, due)
	dueNode(t, s, "b", KindIncremental, 10, due)
	dueNode(t, s, "c", KindFlashcard, 20, due)

	shield := r.Shield(now, s.Config().ShieldTopK)
	if len(shield) != 2 {
		t.Fatalf("shield = %v, want 2 entries", shield)
	}
	if shield[0].ID != "b" || shield[1].ID != "c" {
		t.Errorf("shield = [%s %s], want [b c]", shield[0].ID, shield[1].ID)
	}

	// The shield is the truncated due-set, so K beyond the set is fine.
	if got := r.Shield(now, 10); len(got) != 3 {
		t.Errorf("Shield(10) = %d entries, want 3", len(got))
	}
	if got := r.Shield(now, 0); got != nil {
		t.Errorf("Shield(0) = %v, want nil", got)
	}
}

func TestDueSet_AllIsRestartable(t *testing.T) {
	s := newTestStore(t, Config{})
	r := NewRanker(s)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	due := now.Add(-time.Minute)

	dueNode(t, s, "a", KindFlashcard, 1, due)
	dueNode(t, s, "b", KindFlashcard, 2, due)

	set := r.DueSet(now, KindAny)
	for round := 0; round < 2; round++ {
		var got []NodeID
		for item := range set.All() {
			got = append(got, item.ID)
		}
		if len(got) != 2 || got[0] != "a" || got[1] != "b" {
			t.Fatalf("round %d: %v, want [a b]", round, got)
		}
	}

	// Early break must not poison later iterations.
	for item := range set.All() {
		_ = item
		break
	}
	count := 0
	for range set.All() {
		count++
	}
	if count != 2 {
		t.Errorf("after early break: %d items, want 2", count)
	}
}
