package revlib

import "errors"

var (
	// ErrNotFound is returned when a node id is not tracked by the store.
	ErrNotFound = errors.New("node is not tracked by the scheduler")

	// ErrInvalidRange is returned when a priority value falls outside [0, 100].
	ErrInvalidRange = errors.New("priority must be between 0 and 100")

	// ErrInvalidInterval is returned when a computed repetition interval is
	// not positive. The previous due time is left untouched.
	ErrInvalidInterval = errors.New("computed interval is not positive")

	// ErrOutOfOrder is returned when a repetition timestamp does not advance
	// past the last recorded repetition. History is left unchanged.
	ErrOutOfOrder = errors.New("repetition timestamp regresses behind history")

	// ErrCyclicHierarchy is returned when the parent chain of a node loops
	// back on itself. Resolution degrades to the kind default.
	ErrCyclicHierarchy = errors.New("parent chain contains a cycle")

	// ErrKindConflict is returned when a node is re-tracked with a different
	// kind. A node's kind is immutable after creation.
	ErrKindConflict = errors.New("node kind is immutable")

	ErrPretagRunning    = errors.New("pretagging pass is already running")
	ErrPretagLightMode  = errors.New("pretagging is disabled in light performance mode")
	ErrPretagNotRunning = errors.New("no pretagging pass is running")
)
