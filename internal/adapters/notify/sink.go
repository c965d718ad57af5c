// Package notify provides ports.ErrorSink implementations.
package notify

import (
	"sync"

	"go.uber.org/zap"

	"packbrowser/internal/ports"
)

// LogSink writes every report as a warning
type LogSink struct {
	log *zap.Logger
}

var _ ports.ErrorSink = (*LogSink)(nil)

// NewLogSink creates a sink that logs to log
func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Report(message string) {
	s.log.Warn("user notification", zap.String("message", message))
}

// Buffer keeps reports until they are drained. Safe for concurrent use.
type Buffer struct {
	mu       sync.Mutex
	messages []string
}

var _ ports.ErrorSink = (*Buffer)(nil)

func (b *Buffer) Report(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, message)
}

// Drain returns the pending reports, oldest first, and clears them
func (b *Buffer) Drain() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.messages
	b.messages = nil
	return out
}

// Multi fans a report out to several sinks
type Multi []ports.ErrorSink

func (m Multi) Report(message string) {
	for _, sink := range m {
		sink.Report(message)
	}
}
