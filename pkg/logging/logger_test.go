package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLogger_WritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, LevelDebug)
	l.now = func() time.Time { return time.Unix(1700000000, 0).UTC() }

	l.Info(CategoryEngine, "focus_changed", "focus moved", map[string]any{"index": 2})
	l.Debug(CategorySpatial, "candidate_scored", "", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var ev Event
	if err := json.Unmarshal([]byte(lines[0]), &ev); err != nil {
		t.Fatalf("first line is not valid JSON: %v", err)
	}
	if ev.Level != LevelInfo || ev.Category != CategoryEngine || ev.EventType != "focus_changed" {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev.Details["index"] != float64(2) {
		t.Errorf("details not round-tripped: %v", ev.Details)
	}
}

func TestLogger_MinLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, LevelWarn)

	l.Debug(CategoryEngine, "noisy", "", nil)
	l.Info(CategoryEngine, "noisy", "", nil)
	l.Warn(CategoryEngine, "kept", "", nil)
	l.Error(CategoryEngine, "kept", "", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Errorf("got %d lines, want 2", len(lines))
	}
}

func TestLogger_NilSafe(t *testing.T) {
	var l *Logger
	l.Info(CategoryEngine, "anything", "", nil) // must not panic

	noOut := NewLogger(nil, LevelDebug)
	noOut.Error(CategoryHost, "anything", "", nil) // must not panic
}
