package logger

import "testing"

func TestNewAcceptsKnownLevels(t *testing.T) {
	for _, level := range []string{"debug", "INFO", " warn ", "error"} {
		log, err := New(level, "test")
		if err != nil {
			t.Fatalf("level %q: %v", level, err)
		}
		_ = log.Sync()
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("loud", "test"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNewAppliesLevel(t *testing.T) {
	log, err := New("warn", "test")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if log.Core().Enabled(-1) {
		t.Fatalf("debug must be disabled at warn level")
	}
	if !log.Core().Enabled(1) {
		t.Fatalf("warn must be enabled at warn level")
	}
}
