package revlib

import (
	"iter"
	"sort"
	"sync"
	"time"

	"github.com/revq/revq/pkg/logger"
)

// DueItem is one entry of a ranked due-set snapshot.
type DueItem struct {
	// ID identifies the due node.
	ID NodeID `json:"id"`
	// Kind is the node's unit kind.
	Kind Kind `json:"kind"`
	// Priority is the effective priority the ranking used.
	Priority int `json:"priority"`
	// DueAt is the node's scheduled review time.
	DueAt time.Time `json:"due_at"`
}

// rankEntry mirrors the ranking inputs of one node inside the ranker's
// cache. Entries are refreshed only for nodes the store marked dirty.
type rankEntry struct {
	id   NodeID
	kind Kind
	prio int
	due  *time.Time
}

// Ranker serves ordered due-set queries over a store. Ordering is
// effective priority ascending (lower is more urgent), ties broken by due
// time ascending, then id ascending, so repeated queries over unchanged
// state are byte-for-byte identical.
type Ranker struct {
	store *Store
	log   logger.Logger

	mu      sync.Mutex
	entries map[NodeID]rankEntry
}

// NewRanker creates a ranker over the store. The store's dirty marks drive
// incremental cache refresh, so one ranker per store instance is expected.
func NewRanker(store *Store) *Ranker {
	return &Ranker{
		store:   store,
		log:     store.log,
		entries: make(map[NodeID]rankEntry),
	}
}

// refresh folds all pending store mutations into the entry cache.
// Caller must hold r.mu.
func (r *Ranker) refresh() {
	for _, id := range r.store.takeDirty() {
		n, ok := r.store.table.GetOk(id)
		if !ok {
			delete(r.entries, id)
			continue
		}
		prio, err := r.store.EffectivePriority(id)
		if err != nil {
			// Degraded resolution (cyclic hierarchy). Rank with the
			// fallback value rather than dropping the node.
			r.log.Warning("ranker: %v", err)
		}
		n.mu.RLock()
		e := rankEntry{id: id, kind: n.kind, prio: prio}
		if n.nextDue != nil {
			t := *n.nextDue
			e.due = &t
		}
		n.mu.RUnlock()
		r.entries[id] = e
	}
}

// DueSet returns a consistent snapshot of the nodes due at now, ordered
// per the ranker's contract. kind filters to one unit kind; KindAny keeps
// both. The snapshot never streams later mutations into an open iteration;
// re-query to observe changes.
func (r *Ranker) DueSet(now time.Time, kind Kind) *DueSet {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refresh()

	items := make([]DueItem, 0, len(r.entries))
	for _, e := range r.entries {
		if e.due == nil || e.due.After(now) {
			continue
		}
		if kind != KindAny && e.kind != kind {
			continue
		}
		items = append(items, DueItem{ID: e.id, Kind: e.kind, Priority: e.prio, DueAt: *e.due})
	}
	sort.Sort(dueOrder(items))
	return &DueSet{items: items}
}

// Shield returns the top-k most urgent due items: exactly the head of the
// DueSet ordering, not a separate algorithm. k below 1 yields an empty set.
func (r *Ranker) Shield(now time.Time, k int) []DueItem {
	if k < 1 {
		return nil
	}
	set := r.DueSet(now, KindAny)
	if set.Len() < k {
		k = set.Len()
	}
	out := make([]DueItem, k)
	copy(out, set.items)
	return out
}

// dueOrder sorts by priority, then due time, then id.
type dueOrder []DueItem

func (x dueOrder) Len() int { return len(x) }

func (x dueOrder) Less(i, j int) bool {
	if x[i].Priority != x[j].Priority {
		return x[i].Priority < x[j].Priority
	}
	if !x[i].DueAt.Equal(x[j].DueAt) {
		return x[i].DueAt.Before(x[j].DueAt)
	}
	return x[i].ID < x[j].ID
}

func (x dueOrder) Swap(i, j int) { x[i], x[j] = x[j], x[i] }

// DueSet is a finite, restartable, ordered snapshot of due nodes.
type DueSet struct {
	items []DueItem
}

// Len returns the number of due items in the snapshot.
func (d *DueSet) Len() int { return len(d.items) }

// Items returns a copy of the snapshot's entries in rank order.
func (d *DueSet) Items() []DueItem {
	out := make([]DueItem, len(d.items))
	copy(out, d.items)
	return out
}

// IDs returns the ranked node ids.
func (d *DueSet) IDs() []NodeID {
	out := make([]NodeID, len(d.items))
	for i, it := range d.items {
		out[i] = it.ID
	}
	return out
}

// All iterates the snapshot lazily in rank order. The sequence is
// restartable: ranging again replays the same snapshot.
func (d *DueSet) All() iter.Seq[DueItem] {
	return func(yield func(DueItem) bool) {
		for _, it := range d.items {
			if !yield(it) {
				return
			}
		}
	}
}
