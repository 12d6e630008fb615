package revlib

import (
	"fmt"
	"sort"
	"time"

	"github.com/revq/revq/pkg/logger"
)

// Store is the authoritative priority store for one corpus instance. It
// maps node ids to explicit priority, cached effective priority, due time
// and repetition history, and writes every mutation through to its Backend.
//
// Mutations to a single node are serialized by a per-node lock; reads of
// different nodes proceed in parallel. A mutation that returns is visible
// to every later read of the same node.
type Store struct {
	cfg     Config
	backend Backend
	log     logger.Logger
	ivl     IntervalScheduler

	// table guards the node map and the children index, not node state.
	table    VMap[NodeID, *node]
	children VMap[NodeID, map[NodeID]struct{}]

	// dirty collects ids whose ranking inputs changed since the ranker
	// last rebuilt its entries.
	dirty VMap[NodeID, struct{}]
}

// NewStore creates a store over the given backend and replays its
// persisted records. The config is validated (and zero-values filled)
// before use. A nil log discards messages.
func NewStore(cfg Config, backend Backend, log logger.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	s := &Store{
		cfg:      cfg,
		backend:  backend,
		log:      log,
		ivl:      NewIntervalScheduler(cfg),
		table:    NewVMap[NodeID, *node](),
		children: NewVMap[NodeID, map[NodeID]struct{}](),
		dirty:    NewVMap[NodeID, struct{}](),
	}
	recs, err := backend.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("revlib: loading backend: %w", err)
	}
	for _, rec := range recs {
		n := &node{
			id:       rec.ID,
			kind:     rec.Kind,
			parentID: rec.ParentID,
		}
		if rec.ExplicitPriority != nil {
			v := *rec.ExplicitPriority
			n.explicit = &v
		}
		if rec.NextDueAt != nil {
			t := *rec.NextDueAt
			n.nextDue = &t
		}
		if len(rec.History) > 0 {
			n.history = make([]Repetition, len(rec.History))
			copy(n.history, rec.History)
		}
		s.table.Set(rec.ID, n)
		s.indexChild(rec.ParentID, rec.ID)
		s.dirty.Set(rec.ID, struct{}{})
	}
	return s, nil
}

// Close releases the backing storage.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Config returns the store's validated configuration.
func (s *Store) Config() Config {
	return s.cfg
}

// Len returns the number of tracked nodes.
func (s *Store) Len() int {
	return s.table.Len()
}

// IDs returns all tracked node ids in stable ascending order.
func (s *Store) IDs() []NodeID {
	ids := s.table.Keys()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Store) lookup(id NodeID) (*node, error) {
	n, ok := s.table.GetOk(id)
	if !ok {
		return nil, fmt.Errorf("revlib: %q: %w", id, ErrNotFound)
	}
	return n, nil
}

func (s *Store) indexChild(parent, child NodeID) {
	if parent == "" {
		return
	}
	s.children.Update(parent, func(set map[NodeID]struct{}) map[NodeID]struct{} {
		if set == nil {
			set = make(map[NodeID]struct{})
		}
		set[child] = struct{}{}
		return set
	})
}

func (s *Store) unindexChild(parent, child NodeID) {
	if parent == "" {
		return
	}
	s.children.Update(parent, func(set map[NodeID]struct{}) map[NodeID]struct{} {
		delete(set, child)
		return set
	})
}

// markDirty flags a node for the ranker's incremental cache refresh.
func (s *Store) markDirty(id NodeID) {
	s.dirty.Set(id, struct{}{})
}

// takeDirty drains and returns the set of dirty ids.
func (s *Store) takeDirty() []NodeID {
	return s.dirty.Drain()
}

// persist writes the node's record through to the backend.
// Caller must hold n.mu.
func (s *Store) persist(n *node) error {
	if err := s.backend.SaveNode(n.record()); err != nil {
		return fmt.Errorf("revlib: persisting %q: %w", n.id, err)
	}
	return nil
}

// Track registers a node for scheduling. Priority and interval state is
// created lazily here, on first scheduling touch, not at tagging time.
// Tracking an already-tracked node is a no-op unless the kind differs,
// which fails with ErrKindConflict.
func (s *Store) Track(id NodeID, kind Kind, parent NodeID) error {
	if !kind.valid() {
		return fmt.Errorf("revlib: %q: unknown kind %d", id, kind)
	}
	if existing, ok := s.table.GetOk(id); ok {
		existing.mu.RLock()
		same := existing.kind == kind
		existing.mu.RUnlock()
		if !same {
			return fmt.Errorf("revlib: %q: %w", id, ErrKindConflict)
		}
		return nil
	}
	n := &node{id: id, kind: kind, parentID: parent}
	s.table.Set(id, n)
	s.indexChild(parent, id)
	s.markDirty(id)
	n.mu.Lock()
	defer n.mu.Unlock()
	return s.persist(n)
}

// Remove discards all scheduling state for a node, e.g. when the host
// removes its classification. The scheduler retains no ranking data for
// untracked nodes. Children of the removed node stay tracked; their
// cached priorities are invalidated so they re-resolve without it.
func (s *Store) Remove(id NodeID) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	s.invalidateSubtree(id)
	n.mu.Lock()
	parent := n.parentID
	n.mu.Unlock()
	s.table.Delete(id)
	s.unindexChild(parent, id)
	s.children.Delete(id)
	s.dirty.Set(id, struct{}{})
	if err := s.backend.DeleteNode(id); err != nil {
		return fmt.Errorf("revlib: deleting %q: %w", id, err)
	}
	return nil
}

// Get returns a snapshot of the node with its effective priority resolved.
// A cyclic ancestor chain degrades to the kind default and is not an error
// here; the cycle is logged once per resolution.
func (s *Store) Get(id NodeID) (NodeState, error) {
	n, err := s.lookup(id)
	if err != nil {
		return NodeState{}, err
	}
	eff, rerr := s.EffectivePriority(id)
	if rerr != nil {
		s.log.Warning("get %s: %v", id, rerr)
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	st := n.snapshot()
	st.EffectivePriority = eff
	return st, nil
}

// SetExplicitPriority assigns an explicit priority in [0, 100] and eagerly
// invalidates the cached effective priority of the whole subtree below id.
// Out-of-range values fail with ErrInvalidRange and change nothing.
func (s *Store) SetExplicitPriority(id NodeID, value int) error {
	if value < 0 || value > 100 {
		return fmt.Errorf("revlib: priority %d: %w", value, ErrInvalidRange)
	}
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	n.mu.Lock()
	v := value
	n.explicit = &v
	n.effectiveOK = false
	n.version++
	perr := s.persist(n)
	n.mu.Unlock()
	s.invalidateSubtree(id)
	return perr
}

// ClearExplicitPriority reverts a node to inherited priority and
// invalidates the subtree like SetExplicitPriority does.
func (s *Store) ClearExplicitPriority(id NodeID) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	n.mu.Lock()
	n.explicit = nil
	n.effectiveOK = false
	n.version++
	perr := s.persist(n)
	n.mu.Unlock()
	s.invalidateSubtree(id)
	return perr
}

// SetParent rewires the inheritance relation of a node and invalidates the
// subtree rooted at it. An empty parent makes the node a root.
func (s *Store) SetParent(id, parent NodeID) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	n.mu.Lock()
	old := n.parentID
	n.parentID = parent
	n.effectiveOK = false
	n.version++
	perr := s.persist(n)
	n.mu.Unlock()
	s.unindexChild(old, id)
	s.indexChild(parent, id)
	s.invalidateSubtree(id)
	return perr
}

// RecordRepetition appends a repetition event atomically. The timestamp
// must advance strictly past the last recorded repetition (ErrOutOfOrder)
// and the interval must be positive (ErrInvalidInterval); on failure the
// history is left unchanged.
func (s *Store) RecordRepetition(id NodeID, at time.Time, interval float64) error {
	if interval <= 0 {
		return fmt.Errorf("revlib: interval %v: %w", interval, ErrInvalidInterval)
	}
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if last := n.lastRepetition(); last != nil && !at.After(last.At) {
		return fmt.Errorf("revlib: %q: repetition at %s: %w", id, at.Format(time.RFC3339), ErrOutOfOrder)
	}
	n.history = append(n.history, Repetition{At: at, Interval: interval})
	n.version++
	s.markDirty(id)
	return s.persist(n)
}

// UpsertDueAt sets the node's next due time explicitly.
func (s *Store) UpsertDueAt(id NodeID, at time.Time) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	t := at
	n.nextDue = &t
	n.version++
	s.markDirty(id)
	return s.persist(n)
}

// ResetDue clears the node's due tracking without touching its history.
func (s *Store) ResetDue(id NodeID) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextDue = nil
	n.version++
	s.markDirty(id)
	return s.persist(n)
}

// CompleteRepetition records a finished repetition at now, derives the next
// interval from the previous one (or the configured initial interval on the
// first repetition) and advances the due time. On any failure the node,
// including its due time, is left exactly as it was.
func (s *Store) CompleteRepetition(id NodeID, now time.Time) (time.Time, error) {
	n, err := s.lookup(id)
	if err != nil {
		return time.Time{}, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	var prev *float64
	if last := n.lastRepetition(); last != nil {
		if !now.After(last.At) {
			return time.Time{}, fmt.Errorf("revlib: %q: repetition at %s: %w", id, now.Format(time.RFC3339), ErrOutOfOrder)
		}
		prev = &last.Interval
	}
	next, err := s.ivl.Next(prev)
	if err != nil {
		return time.Time{}, fmt.Errorf("revlib: %q: %w", id, err)
	}
	due := s.ivl.DueAfter(now, next)
	n.history = append(n.history, Repetition{At: now, Interval: next})
	n.nextDue = &due
	n.version++
	s.markDirty(id)
	if err := s.persist(n); err != nil {
		return time.Time{}, err
	}
	return due, nil
}
