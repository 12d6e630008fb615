package common

import "time"

// VersionResult is the response for system.getVersion.
type VersionResult struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"buildType,omitempty"`
}

// NodeParam is a common input carrying just a node id.
type NodeParam struct {
	ID string `json:"id"`
}

// TrackParams is the input for node.track.
type TrackParams struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Parent string `json:"parent,omitempty"`
}

// SetParentParams is the input for node.setParent.
type SetParentParams struct {
	ID string `json:"id"`
	// Parent empty makes the node a root.
	Parent string `json:"parent"`
}

// SetPriorityParams is the input for priority.set. A nil Value reverts the
// node to inherited priority, mirroring priority.clear.
type SetPriorityParams struct {
	ID    string `json:"id"`
	Value *int   `json:"value"`
}

// Rep is one repetition history entry on the wire.
type Rep struct {
	At       time.Time `json:"at"`
	Interval float64   `json:"interval"`
}

// NodeResult is the response for node.get.
type NodeResult struct {
	ID                string     `json:"id"`
	Kind              string     `json:"kind"`
	Parent            string     `json:"parent,omitempty"`
	ExplicitPriority  *int       `json:"explicitPriority,omitempty"`
	EffectivePriority int        `json:"effectivePriority"`
	NextDueAt         *time.Time `json:"nextDueAt,omitempty"`
	History           []Rep      `json:"history,omitempty"`
}

// ReviewParams is the input for review.complete. A zero Now means the
// daemon's current time.
type ReviewParams struct {
	ID  string    `json:"id"`
	Now time.Time `json:"now,omitempty"`
}

// ReviewResult is the response for review.complete.
type ReviewResult struct {
	NextDueAt time.Time `json:"nextDueAt"`
	// Interval is the freshly computed interval in days.
	Interval float64 `json:"interval"`
}

// DueParams is the input for queue.due and queue.shield. A zero Now means
// the daemon's current time; an empty Kind means both kinds. TopK applies
// to queue.shield only; zero uses the configured value.
type DueParams struct {
	Now  time.Time `json:"now,omitempty"`
	Kind string    `json:"kind,omitempty"`
	TopK int       `json:"topK,omitempty"`
}

// DueItem is a single ranked entry of a due-set response.
type DueItem struct {
	ID       string    `json:"id"`
	Kind     string    `json:"kind"`
	Priority int       `json:"priority"`
	DueAt    time.Time `json:"dueAt"`
}

// DueResult is the response for queue.due and queue.shield.
type DueResult struct {
	Items []DueItem `json:"items"`
}

// PretagResult is the response for the pretag methods.
type PretagResult struct {
	State     string   `json:"state"`
	Processed int      `json:"processed"`
	Total     int      `json:"total"`
	LastID    string   `json:"lastId,omitempty"`
	Skipped   []string `json:"skipped,omitempty"`
}

// EmptyResult is a placeholder for methods that return no data.
type EmptyResult struct{}
