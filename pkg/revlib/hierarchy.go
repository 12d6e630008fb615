package revlib

import (
	"fmt"
)

// chainEntry is one inheriting node on an ancestor walk, captured with the
// version it was read at so a concurrent edit invalidates the cache write.
type chainEntry struct {
	n       *node
	version uint64
}

// EffectivePriority resolves the priority used for ranking: the node's
// explicit value if present, else the nearest ancestor's explicit value,
// else the configured default for the node's kind.
//
// The walk is iterative over parent ids with a visited set bounded by the
// corpus size, never a recursive pointer chase; a cycle in the parent
// relation returns the kind default together with ErrCyclicHierarchy.
// Resolved values are memoized per node and invalidated eagerly by
// explicit-priority and parent edits.
func (s *Store) EffectivePriority(id NodeID) (int, error) {
	n, err := s.lookup(id)
	if err != nil {
		return 0, err
	}

	n.mu.RLock()
	if n.effectiveOK {
		v := n.effective
		n.mu.RUnlock()
		return v, nil
	}
	queriedKind := n.kind
	n.mu.RUnlock()

	visited := make(map[NodeID]struct{})
	chain := make([]chainEntry, 0, 8)

	cur := n
	for {
		if _, seen := visited[cur.id]; seen {
			// Malformed parent relation. Degrade to the kind default and
			// skip memoization so a repaired hierarchy resolves cleanly.
			return s.cfg.defaultPriority(queriedKind),
				fmt.Errorf("revlib: %q: %w", id, ErrCyclicHierarchy)
		}
		visited[cur.id] = struct{}{}

		cur.mu.RLock()
		ver := cur.version
		explicit := cur.explicit
		parent := cur.parentID
		cur.mu.RUnlock()

		if explicit != nil {
			v := *explicit
			s.memoize(chainEntry{cur, ver}, v)
			for _, ce := range chain {
				s.memoize(ce, v)
			}
			return v, nil
		}
		chain = append(chain, chainEntry{cur, ver})

		if parent == "" {
			break
		}
		next, ok := s.table.GetOk(parent)
		if !ok {
			// Dangling parent reference: treat as a root.
			break
		}
		cur = next
	}

	// No explicit value anywhere on the path. Every inheriting node falls
	// back to the default of its own kind.
	for _, ce := range chain {
		ce.n.mu.RLock()
		k := ce.n.kind
		ce.n.mu.RUnlock()
		s.memoize(ce, s.cfg.defaultPriority(k))
	}
	return s.cfg.defaultPriority(queriedKind), nil
}

// memoize caches a resolved value on a node unless the node was edited
// since it was read. The edit wins; the next resolution recomputes.
func (s *Store) memoize(ce chainEntry, value int) {
	ce.n.mu.Lock()
	if ce.n.version == ce.version {
		ce.n.effective = value
		ce.n.effectiveOK = true
	}
	ce.n.mu.Unlock()
}

// invalidateSubtree clears the cached effective priority of id and every
// transitive descendant. Eager by design tradeoff: priority edits are rare
// next to reads, so O(subtree) per edit buys O(1) resolution afterwards.
func (s *Store) invalidateSubtree(root NodeID) {
	visited := make(map[NodeID]struct{})
	queue := []NodeID{root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, seen := visited[id]; seen {
			continue
		}
		visited[id] = struct{}{}

		if n, ok := s.table.GetOk(id); ok && id != root {
			n.mu.Lock()
			n.effectiveOK = false
			n.version++
			n.mu.Unlock()
		}
		s.markDirty(id)

		for child := range s.children.Get(id) {
			queue = append(queue, child)
		}
	}
}
