package cmd

const DESCRIPTION = `
Revq is a priority-driven scheduler for incremental reading and
flashcard review. It tracks elements in a hierarchy, spaces their
repetitions out over growing intervals, and ranks what is due so
you always see the most important material first.
`

const (
	DueDescription = `The due command lists every tracked element whose next
repetition has come due, ordered by priority (lower value
means more urgent) with earlier due dates breaking ties.

Example:
        revq due
        revq due --kind flashcard

`
	ShieldDescription = `The shield command shows only the top few due elements,
hiding the rest of the queue so a large backlog does not
turn into noise.

Example:
        revq shield
        revq shield --top 5

`
	ReviewDescription = `The review command marks an element as reviewed now. The
daemon computes the next interval from the previous one and
schedules the following repetition.

Example:
        revq review <element id>

`
	TrackDescription = `The track command registers an element with the scheduler.
An element is either incremental reading material or a
flashcard, and may optionally start under a parent.

Example:
        revq track <element id> --kind incremental
        revq track <element id> -k flashcard -p <parent id>

`
	GetDescription = `The get command prints the tracked state of an element:
its kind, parent, explicit and effective priority, next due
date and repetition history.

Example:
        revq get <element id>

`
	RemoveDescription = `The rm command stops tracking an element and discards its
scheduling state. Children of the element stay tracked and
fall back to their own defaults.

Example:
        revq rm <element id>

`
	LinkDescription = `The link command attaches an element under a parent so it
inherits the parent's priority. Passing an empty parent
detaches the element and makes it a root.

Example:
        revq link <element id> <parent id>

`
	SetPriorityDescription = `The set-priority command pins an element to an explicit
priority between 0 and 100. Descendants without their own
explicit priority inherit it.

Example:
        revq set-priority <element id> 25

`
	ClearPriorityDescription = `The clear-priority command removes an element's explicit
priority so it again inherits from its nearest prioritized
ancestor, or falls back to the default for its kind.

Example:
        revq clear-priority <element id>

`
	PretagDescription = `The pretag command walks the whole hierarchy and settles an
effective priority on every element. The pass is resumable:
if it is cancelled or the daemon restarts, the next run
continues from the last checkpoint.

Example:
        revq pretag
        revq pretag cancel
        revq pretag status

`
	DaemonDescription = `The daemon command runs the revq scheduler daemon in the
foreground. The daemon owns the element store and serves the
RPC interface the other commands talk to.

Example:
        revq daemon
        revq daemon --web-port 8080

`
)
