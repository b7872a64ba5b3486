package test

import (
	"fmt"
	"strings"
	"sync"

	"aiinsights.blog/cli/internal/application/ports"
)

// LogEntry is one captured log call
type LogEntry struct {
	Level   ports.LogLevel
	Message string
	Fields  map[string]interface{}
	Err     error
}

// RecordingLogger implements ports.LoggingGateway and keeps every entry at
// or above its level
type RecordingLogger struct {
	mu      sync.Mutex
	level   ports.LogLevel
	entries []LogEntry
}

// NewRecordingLogger creates a logger at the given level
func NewRecordingLogger(level ports.LogLevel) *RecordingLogger {
	return &RecordingLogger{level: level}
}

func (l *RecordingLogger) Log(level ports.LogLevel, message string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level.Severity() < l.level.Severity() {
		return
	}
	l.entries = append(l.entries, LogEntry{Level: level, Message: message, Fields: fields})
}

func (l *RecordingLogger) LogError(err error, message string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: ports.LogLevelError, Message: message, Fields: fields, Err: err})
}

func (l *RecordingLogger) SetLogLevel(level ports.LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *RecordingLogger) GetLogLevel() ports.LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

func (l *RecordingLogger) ConfigureLogging(config *ports.LoggingConfig) error {
	if config == nil {
		return fmt.Errorf("logging config cannot be nil")
	}
	l.SetLogLevel(config.Level)
	return nil
}

// Entries returns a copy of the captured entries
func (l *RecordingLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// WithMessage returns the entries whose message contains substr
func (l *RecordingLogger) WithMessage(substr string) []LogEntry {
	var out []LogEntry
	for _, e := range l.Entries() {
		if strings.Contains(e.Message, substr) {
			out = append(out, e)
		}
	}
	return out
}

var _ ports.LoggingGateway = (*RecordingLogger)(nil)
