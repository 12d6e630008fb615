//go:build windows

package logger

import (
	"fmt"

	"golang.org/x/sys/windows/svc/eventlog"
)

// Event IDs used for revqd entries in the Windows Event Log.
const (
	EventIDInfo    uint32 = 1
	EventIDWarning uint32 = 2
	EventIDError   uint32 = 3
)

// EventLogger writes to the Windows Event Log. The event source must be
// registered (eventlog.InstallAsEventCreate) before the logger is opened,
// typically at service installation.
type EventLogger struct {
	log *eventlog.Log
}

// NewEventLogger opens the event log source, usually the service name.
func NewEventLogger(sourceName string) (*EventLogger, error) {
	elog, err := eventlog.Open(sourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}
	return &EventLogger{log: elog}, nil
}

// Info writes an informational event. Write errors are dropped; the
// daemon must keep running even when event logging fails.
func (e *EventLogger) Info(format string, args ...interface{}) {
	_ = e.log.Info(EventIDInfo, fmt.Sprintf(format, args...))
}

// Warning writes a warning event.
func (e *EventLogger) Warning(format string, args ...interface{}) {
	_ = e.log.Warning(EventIDWarning, fmt.Sprintf(format, args...))
}

// Error writes an error event.
func (e *EventLogger) Error(format string, args ...interface{}) {
	_ = e.log.Error(EventIDError, fmt.Sprintf(format, args...))
}

// Close releases the event log handle.
func (e *EventLogger) Close() error {
	if e.log != nil {
		return e.log.Close()
	}
	return nil
}

var _ Logger = (*EventLogger)(nil)
