package domain

import (
	"testing"
	"time"
)

func TestNewPingResult(t *testing.T) {
	before := time.Now()
	result := NewPingResult(42 * time.Millisecond)
	after := time.Now()

	if result.Latency != 42*time.Millisecond {
		t.Errorf("expected latency 42ms, got %v", result.Latency)
	}
	if result.Timestamp.Before(before) || result.Timestamp.After(after) {
		t.Error("expected timestamp to be between before and after")
	}
}

func TestPingResult_Message(t *testing.T) {
	tests := []struct {
		name    string
		latency time.Duration
		want    string
	}{
		{"measured", 42 * time.Millisecond, "Pong! (42ms)"},
		{"sub-millisecond", 500 * time.Microsecond, "Pong! (0ms)"},
		{"not measured", 0, "Pong!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewPingResult(tt.latency).Message(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
