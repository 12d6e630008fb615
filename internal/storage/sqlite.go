// Package storage provides the persistent backend for the revq priority
// store: one SQLite database per corpus, one row per tracked node plus its
// repetition history.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/revq/revq/pkg/revlib"
)

const schema = `
CREATE TABLE IF NOT EXISTS nodes (
	id                TEXT PRIMARY KEY,
	kind              INTEGER NOT NULL,
	parent_id         TEXT NOT NULL DEFAULT '',
	explicit_priority INTEGER,
	next_due_at       INTEGER
);
CREATE TABLE IF NOT EXISTS repetitions (
	node_id  TEXT NOT NULL,
	seq      INTEGER NOT NULL,
	at       INTEGER NOT NULL,
	interval REAL NOT NULL,
	PRIMARY KEY (node_id, seq)
);
`

// SQLite persists node records in a SQLite database via modernc.org/sqlite.
// explicit_priority and next_due_at are NULLable: NULL means "inherit" and
// "never scheduled" respectively. Timestamps are stored as unix
// nanoseconds; intervals as REAL fractional days.
type SQLite struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists. WAL mode keeps foreground reads from blocking on the
// pretagging worker's writes.
func Open(path string) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// LoadAll reads every node record with its repetition history replayed in
// recorded order.
func (s *SQLite) LoadAll() ([]revlib.NodeRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, kind, parent_id, explicit_priority, next_due_at
		FROM nodes
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to query nodes: %w", err)
	}
	defer rows.Close()

	var recs []revlib.NodeRecord
	index := make(map[revlib.NodeID]int)
	for rows.Next() {
		var (
			id, parentID string
			kind         int
			explicit     sql.NullInt64
			nextDue      sql.NullInt64
		)
		if err := rows.Scan(&id, &kind, &parentID, &explicit, &nextDue); err != nil {
			return nil, fmt.Errorf("storage: failed to scan node row: %w", err)
		}
		rec := revlib.NodeRecord{
			ID:       revlib.NodeID(id),
			Kind:     revlib.Kind(kind),
			ParentID: revlib.NodeID(parentID),
		}
		if explicit.Valid {
			v := int(explicit.Int64)
			rec.ExplicitPriority = &v
		}
		if nextDue.Valid {
			t := time.Unix(0, nextDue.Int64)
			rec.NextDueAt = &t
		}
		index[rec.ID] = len(recs)
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: failed to iterate node rows: %w", err)
	}

	reps, err := s.db.Query(`
		SELECT node_id, at, interval
		FROM repetitions
		ORDER BY node_id ASC, seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to query repetitions: %w", err)
	}
	defer reps.Close()
	for reps.Next() {
		var (
			nodeID   string
			at       int64
			interval float64
		)
		if err := reps.Scan(&nodeID, &at, &interval); err != nil {
			return nil, fmt.Errorf("storage: failed to scan repetition row: %w", err)
		}
		i, ok := index[revlib.NodeID(nodeID)]
		if !ok {
			// Orphan history row; the node record is authoritative.
			continue
		}
		recs[i].History = append(recs[i].History, revlib.Repetition{
			At:       time.Unix(0, at),
			Interval: interval,
		})
	}
	if err := reps.Err(); err != nil {
		return nil, fmt.Errorf("storage: failed to iterate repetition rows: %w", err)
	}
	return recs, nil
}

// SaveNode writes the full record for rec.ID in one transaction.
func (s *SQLite) SaveNode(rec revlib.NodeRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var explicit sql.NullInt64
	if rec.ExplicitPriority != nil {
		explicit = sql.NullInt64{Int64: int64(*rec.ExplicitPriority), Valid: true}
	}
	var nextDue sql.NullInt64
	if rec.NextDueAt != nil {
		nextDue = sql.NullInt64{Int64: rec.NextDueAt.UnixNano(), Valid: true}
	}
	if _, err := tx.Exec(`
		INSERT INTO nodes (id, kind, parent_id, explicit_priority, next_due_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			parent_id = excluded.parent_id,
			explicit_priority = excluded.explicit_priority,
			next_due_at = excluded.next_due_at
	`, string(rec.ID), int(rec.Kind), string(rec.ParentID), explicit, nextDue); err != nil {
		return fmt.Errorf("storage: failed to upsert node %s: %w", rec.ID, err)
	}

	if _, err := tx.Exec(`DELETE FROM repetitions WHERE node_id = ?`, string(rec.ID)); err != nil {
		return fmt.Errorf("storage: failed to clear history for %s: %w", rec.ID, err)
	}
	for i, rep := range rec.History {
		if _, err := tx.Exec(`
			INSERT INTO repetitions (node_id, seq, at, interval)
			VALUES (?, ?, ?, ?)
		`, string(rec.ID), i, rep.At.UnixNano(), rep.Interval); err != nil {
			return fmt.Errorf("storage: failed to insert repetition for %s: %w", rec.ID, err)
		}
	}
	return tx.Commit()
}

// DeleteNode drops the node row and its history. Unknown ids are a no-op.
func (s *SQLite) DeleteNode(id revlib.NodeID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM repetitions WHERE node_id = ?`, string(id)); err != nil {
		return fmt.Errorf("storage: failed to delete history for %s: %w", id, err)
	}
	if _, err := tx.Exec(`DELETE FROM nodes WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("storage: failed to delete node %s: %w", id, err)
	}
	return tx.Commit()
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

var _ revlib.Backend = (*SQLite)(nil)
