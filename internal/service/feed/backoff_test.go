package feed

import (
	"testing"
	"time"
)

func TestBackoffDoublesUntilCap(t *testing.T) {
	b := &Backoff{Base: time.Second, Cap: time.Minute}
	want := []time.Duration{
		time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		32 * time.Second,
		time.Minute,
		time.Minute,
	}
	for i, w := range want {
		if got := b.Next(); got != w {
			t.Fatalf("attempt %d: expected %v, got %v", i, w, got)
		}
	}
	if b.Attempts() != len(want) {
		t.Fatalf("expected %d attempts, got %d", len(want), b.Attempts())
	}
}

func TestBackoffReset(t *testing.T) {
	b := &Backoff{Base: time.Second, Cap: time.Minute}
	b.Next()
	b.Next()
	b.Reset()
	if b.Attempts() != 0 {
		t.Fatalf("expected zero attempts after reset")
	}
	if got := b.Next(); got != time.Second {
		t.Fatalf("expected base delay after reset, got %v", got)
	}
}

func TestBackoffOverflowClampsToCap(t *testing.T) {
	b := &Backoff{Base: time.Second, Cap: time.Minute}
	b.attempt = 62 // shift overflow must not go negative
	if got := b.Next(); got != time.Minute {
		t.Fatalf("expected cap on overflow, got %v", got)
	}
}
