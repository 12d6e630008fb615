// Package logger provides the logging interface shared by all revq
// components. Backends exist for console output, the Windows Event Log,
// fan-out to several sinks, and test capture.
package logger

import (
	"fmt"
	"log"
)

// Logger is implemented by every revq log backend.
type Logger interface {
	// Info logs an informational message (e.g. "pretagging completed").
	Info(format string, args ...interface{})

	// Warning logs a recoverable condition (e.g. a skipped node).
	Warning(format string, args ...interface{})

	// Error logs a failure (e.g. "backend unavailable").
	Error(format string, args ...interface{})

	// Close releases backend resources. Safe to call more than once;
	// backends without resources return nil.
	Close() error
}

// StandardLogger writes through a stdlib *log.Logger with level prefixes.
// This is the default backend for console operation.
type StandardLogger struct {
	logger *log.Logger
}

// NewStandardLogger wraps the given *log.Logger.
func NewStandardLogger(l *log.Logger) *StandardLogger {
	return &StandardLogger{logger: l}
}

// Info logs with an [INFO] prefix.
func (s *StandardLogger) Info(format string, args ...interface{}) {
	s.logger.Printf("[INFO] "+format, args...)
}

// Warning logs with a [WARNING] prefix.
func (s *StandardLogger) Warning(format string, args ...interface{}) {
	s.logger.Printf("[WARNING] "+format, args...)
}

// Error logs with an [ERROR] prefix.
func (s *StandardLogger) Error(format string, args ...interface{}) {
	s.logger.Printf("[ERROR] "+format, args...)
}

// Close is a no-op.
func (s *StandardLogger) Close() error { return nil }

// NopLogger discards all messages. Used when components are embedded
// without a logger and in tests that don't assert on output.
type NopLogger struct{}

// NewNopLogger creates a logger that discards everything.
func NewNopLogger() *NopLogger { return &NopLogger{} }

// Info discards the message.
func (n *NopLogger) Info(format string, args ...interface{}) {}

// Warning discards the message.
func (n *NopLogger) Warning(format string, args ...interface{}) {}

// Error discards the message.
func (n *NopLogger) Error(format string, args ...interface{}) {}

// Close is a no-op.
func (n *NopLogger) Close() error { return nil }

// MockLogger records formatted messages for test assertions.
type MockLogger struct {
	InfoCalls    []string
	WarningCalls []string
	ErrorCalls   []string
	CloseCalled  bool
}

// NewMockLogger creates an empty recording logger.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

// Info records the formatted message.
func (m *MockLogger) Info(format string, args ...interface{}) {
	m.InfoCalls = append(m.InfoCalls, fmt.Sprintf(format, args...))
}

// Warning records the formatted message.
func (m *MockLogger) Warning(format string, args ...interface{}) {
	m.WarningCalls = append(m.WarningCalls, fmt.Sprintf(format, args...))
}

// Error records the formatted message.
func (m *MockLogger) Error(format string, args ...interface{}) {
	m.ErrorCalls = append(m.ErrorCalls, fmt.Sprintf(format, args...))
}

// Close records that it was called.
func (m *MockLogger) Close() error {
	m.CloseCalled = true
	return nil
}

var (
	_ Logger = (*StandardLogger)(nil)
	_ Logger = (*NopLogger)(nil)
	_ Logger = (*MockLogger)(nil)
)
