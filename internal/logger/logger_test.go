package logger

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{"debug text", "debug", "text"},
		{"info json", "info", "json"},
		{"warn text", "warn", "text"},
		{"error json", "error", "json"},
		{"unknown level falls back", "trace", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(Config{Level: tt.level, Format: tt.format})
			if l == nil || l.Logger == nil {
				t.Fatal("Expected non-nil logger")
			}
		})
	}
}

func TestWithHelpers(t *testing.T) {
	l := Default()

	if c := l.WithComponent("syncer"); c == nil || c.Logger == nil {
		t.Error("WithComponent returned nil logger")
	}
	if s := l.WithStation("THB"); s == nil || s.Logger == nil {
		t.Error("WithStation returned nil logger")
	}
	if r := l.WithRun("run-1"); r == nil || r.Logger == nil {
		t.Error("WithRun returned nil logger")
	}
}
