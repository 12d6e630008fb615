package revlib

import (
	"sync"
	"time"
)

// NodeRecord is the persisted form of a tracked node: one record per node,
// with its full repetition history. The on-disk format is owned by the
// Backend implementation.
type NodeRecord struct {
	ID               NodeID       `json:"id"`
	Kind             Kind         `json:"kind"`
	ParentID         NodeID       `json:"parent_id,omitempty"`
	ExplicitPriority *int         `json:"explicit_priority,omitempty"`
	NextDueAt        *time.Time   `json:"next_due_at,omitempty"`
	History          []Repetition `json:"history,omitempty"`
}

// Backend persists node records on behalf of the store. The store writes
// through on every mutation and replays LoadAll at startup. A Backend
// error is treated as fatal by the store and surfaced to the caller.
type Backend interface {
	// LoadAll returns every persisted node record.
	LoadAll() ([]NodeRecord, error)
	// SaveNode inserts or replaces the record for rec.ID.
	SaveNode(rec NodeRecord) error
	// DeleteNode removes the record for id. Unknown ids are a no-op.
	DeleteNode(id NodeID) error
	// Close releases backend resources.
	Close() error
}

// MemBackend is an in-memory Backend for tests and light embedding.
// The zero value is not usable; call NewMemBackend.
type MemBackend struct {
	mu   sync.Mutex
	recs map[NodeID]NodeRecord
}

// NewMemBackend creates an empty in-memory backend.
func NewMemBackend() *MemBackend {
	return &MemBackend{recs: make(map[NodeID]NodeRecord)}
}

// LoadAll returns a copy of every stored record.
func (b *MemBackend) LoadAll() ([]NodeRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]NodeRecord, 0, len(b.recs))
	for _, rec := range b.recs {
		out = append(out, rec)
	}
	return out, nil
}

// SaveNode stores a copy of rec.
func (b *MemBackend) SaveNode(rec NodeRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.recs[rec.ID] = rec
	return nil
}

// DeleteNode drops the record for id.
func (b *MemBackend) DeleteNode(id NodeID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.recs, id)
	return nil
}

// Close is a no-op.
func (b *MemBackend) Close() error { return nil }

var _ Backend = (*MemBackend)(nil)
