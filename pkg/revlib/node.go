// Package revlib implements the scheduling core of revq: a priority-driven
// spaced-repetition scheduler over a hierarchically nested corpus of
// incremental-reading nodes and flashcards. It maintains the authoritative
// priority store, resolves inherited priorities over ancestor chains,
// computes repetition intervals, and serves ranked due-set queries.
package revlib

import (
	"sync"
	"time"
)

// NodeID is the opaque stable identifier of a schedulable node,
// unique across the corpus.
type NodeID string

// Kind distinguishes the two schedulable unit kinds.
// A node's kind is immutable after creation.
type Kind uint8

const (
	// KindAny is the zero value, used only as a query filter meaning "all kinds".
	KindAny Kind = iota
	// KindIncremental is a free-form content unit under spaced review.
	KindIncremental
	// KindFlashcard is a question/answer unit.
	KindFlashcard
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindIncremental:
		return "incremental"
	case KindFlashcard:
		return "flashcard"
	case KindAny:
		return "any"
	default:
		return "unknown"
	}
}

func (k Kind) valid() bool {
	return k == KindIncremental || k == KindFlashcard
}

// ParseKind converts a kind name to a Kind. Empty and "any" mean KindAny.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "incremental":
		return KindIncremental, true
	case "flashcard":
		return KindFlashcard, true
	case "", "any":
		return KindAny, true
	default:
		return KindAny, false
	}
}

// Repetition is a single completed repetition event.
// History entries are append-only and never rewritten.
type Repetition struct {
	// At is the wall-clock completion time of the repetition.
	At time.Time `json:"at"`
	// Interval is the interval produced by this repetition, in days.
	// Stored with sub-day precision; repeated multiplication compounds
	// rounding error if truncated.
	Interval float64 `json:"interval"`
}

// node is the in-memory state of a tracked node. The embedded RWMutex
// serializes mutations per node while allowing parallel reads of
// different nodes.
type node struct {
	mu sync.RWMutex

	id       NodeID
	kind     Kind
	parentID NodeID

	// explicit is the user-assigned priority; nil means "inherit".
	explicit *int
	// effective caches the resolved priority; valid only when effectiveOK.
	effective   int
	effectiveOK bool

	// nextDue, once set, is only advanced by a completed repetition or an
	// explicit reset. Never silently rewound.
	nextDue *time.Time
	history []Repetition

	// version is bumped on every mutation. The pretagging worker compares
	// versions so a concurrent edit wins over a stale walk computation.
	version uint64
}

// NodeState is an immutable snapshot of a node, safe to hand to callers.
type NodeState struct {
	// ID is the unique identifier of the node.
	ID NodeID `json:"id"`
	// Kind tags the node as incremental or flashcard.
	Kind Kind `json:"kind"`
	// ParentID is the enclosing hierarchy node, if any. Relation only,
	// used solely for priority inheritance.
	ParentID NodeID `json:"parent_id,omitempty"`
	// ExplicitPriority is the user-assigned priority; nil means inherited.
	ExplicitPriority *int `json:"explicit_priority,omitempty"`
	// EffectivePriority is the resolved priority used for ranking.
	EffectivePriority int `json:"effective_priority"`
	// NextDueAt is the next scheduled review time; nil means never scheduled.
	NextDueAt *time.Time `json:"next_due_at,omitempty"`
	// History is the append-only repetition history, oldest first.
	History []Repetition `json:"history,omitempty"`
}

// snapshot copies the node's state. Caller must hold n.mu (read or write).
func (n *node) snapshot() NodeState {
	st := NodeState{
		ID:       n.id,
		Kind:     n.kind,
		ParentID: n.parentID,
	}
	if n.explicit != nil {
		v := *n.explicit
		st.ExplicitPriority = &v
	}
	if n.nextDue != nil {
		t := *n.nextDue
		st.NextDueAt = &t
	}
	if len(n.history) > 0 {
		st.History = make([]Repetition, len(n.history))
		copy(st.History, n.history)
	}
	return st
}

// record converts the node to its persisted form. Caller must hold n.mu.
func (n *node) record() NodeRecord {
	rec := NodeRecord{
		ID:       n.id,
		Kind:     n.kind,
		ParentID: n.parentID,
	}
	if n.explicit != nil {
		v := *n.explicit
		rec.ExplicitPriority = &v
	}
	if n.nextDue != nil {
		t := *n.nextDue
		rec.NextDueAt = &t
	}
	if len(n.history) > 0 {
		rec.History = make([]Repetition, len(n.history))
		copy(rec.History, n.history)
	}
	return rec
}

// lastRepetition returns the most recent history entry, or nil.
// Caller must hold n.mu.
func (n *node) lastRepetition() *Repetition {
	if len(n.history) == 0 {
		return nil
	}
	return &n.history[len(n.history)-1]
}
