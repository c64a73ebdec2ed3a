// Package logging provides structured event logging for the navigation
// engine. Events are written as JSON lines to an injected writer; a nil
// Logger is a no-op, so library consumers that don't care about logs
// pay nothing.
package logging

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// Category represents the subsystem generating the log
type Category string

const (
	CategoryEngine    Category = "engine"
	CategorySpatial   Category = "spatial"
	CategoryHierarchy Category = "hierarchy"
	CategoryHost      Category = "host"
	CategoryConfig    Category = "config"
)

// Event represents a structured log event
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     Level          `json:"level"`
	Category  Category       `json:"category"`
	EventType string         `json:"type"`
	Message   string         `json:"message,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// Logger writes structured events to a single destination.
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	minLevel Level
	now      func() time.Time
}

// NewLogger creates a logger writing JSONL events to out at the given
// minimum level. A nil writer yields a logger that drops everything.
func NewLogger(out io.Writer, minLevel Level) *Logger {
	if minLevel == "" {
		minLevel = LevelInfo
	}
	return &Logger{
		out:      out,
		minLevel: minLevel,
		now:      time.Now,
	}
}

// Log writes one event. Safe on a nil logger.
func (l *Logger) Log(level Level, category Category, eventType, message string, details map[string]any) {
	if l == nil || l.out == nil {
		return
	}
	if levelRank[level] < levelRank[l.minLevel] {
		return
	}

	ev := Event{
		Timestamp: l.now(),
		Level:     level,
		Category:  category,
		EventType: eventType,
		Message:   message,
		Details:   details,
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Write(data)
	l.out.Write([]byte("\n"))
}

// Debug logs a debug-level event.
func (l *Logger) Debug(category Category, eventType, message string, details map[string]any) {
	l.Log(LevelDebug, category, eventType, message, details)
}

// Info logs an info-level event.
func (l *Logger) Info(category Category, eventType, message string, details map[string]any) {
	l.Log(LevelInfo, category, eventType, message, details)
}

// Warn logs a warn-level event.
func (l *Logger) Warn(category Category, eventType, message string, details map[string]any) {
	l.Log(LevelWarn, category, eventType, message, details)
}

// Error logs an error-level event.
func (l *Logger) Error(category Category, eventType, message string, details map[string]any) {
	l.Log(LevelError, category, eventType, message, details)
}
