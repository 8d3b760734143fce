package feed

import (
	"context"
	"testing"
	"time"

	"MarketPulse/pkg/logger"
)

func TestSyntheticEmitsPositivePrices(t *testing.T) {
	s := NewSynthetic([]string{"BTC-USD", "XYZ-USD"}, time.Millisecond, 42, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Connect(ctx); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if !s.IsConnected() {
		t.Fatalf("expected connected")
	}

	ticks, _ := s.Read(ctx)
	seen := map[string]int{}
	deadline := time.After(2 * time.Second)
	for len(seen) < 2 || seen["BTC-USD"] < 5 {
		select {
		case tick := <-ticks:
			if tick.Price <= 0 {
				t.Fatalf("non-positive price: %+v", tick)
			}
			if tick.Size <= 0 {
				t.Fatalf("non-positive size: %+v", tick)
			}
			if tick.Timestamp <= 0 {
				t.Fatalf("bad timestamp: %+v", tick)
			}
			seen[tick.Symbol]++
		case <-deadline:
			t.Fatalf("timed out waiting for ticks, saw %v", seen)
		}
	}
}

func TestSyntheticStartsNearBasePrice(t *testing.T) {
	s := NewSynthetic([]string{"BTC-USD"}, time.Millisecond, 1, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticks, _ := s.Read(ctx)
	select {
	case tick := <-ticks:
		if tick.Price < 30000 || tick.Price > 120000 {
			t.Fatalf("BTC synthetic price far from base: %v", tick.Price)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for first tick")
	}
}

func TestSyntheticStopsOnContextCancel(t *testing.T) {
	s := NewSynthetic([]string{"A"}, time.Millisecond, 7, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	ticks, errs := s.Read(ctx)
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ticks:
			if !ok {
				select {
				case _, ok := <-errs:
					if ok {
						t.Fatalf("error channel should close without firing")
					}
				case <-deadline:
					t.Fatalf("error channel did not close")
				}
				return
			}
		case <-deadline:
			t.Fatalf("tick channel did not close after cancel")
		}
	}
}
