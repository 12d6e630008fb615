// Package common provides the shared constants and wire types of the revq
// client-daemon protocol. Both pkg/revqcli and the daemon API import it, so
// it must stay free of daemon-side dependencies.
package common

// JSON-RPC method names exposed by the daemon.
const (
	MethodSystemVersion = "system.getVersion"

	MethodNodeGet       = "node.get"
	MethodNodeTrack     = "node.track"
	MethodNodeRemove    = "node.remove"
	MethodNodeSetParent = "node.setParent"

	MethodPrioritySet   = "priority.set"
	MethodPriorityClear = "priority.clear"

	MethodReviewComplete = "review.complete"

	MethodQueueDue    = "queue.due"
	MethodQueueShield = "queue.shield"

	MethodPretagRun      = "pretag.run"
	MethodPretagCancel   = "pretag.cancel"
	MethodPretagProgress = "pretag.progress"
)

// TCPHost is the loopback host used by the TCP fallback transport.
const TCPHost = "127.0.0.1"

// DefaultTCPPort is the daemon's TCP fallback port.
const DefaultTCPPort = 4122
