package feed

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/pkg/logger"
)

type nopMetrics struct {
	mu         sync.Mutex
	reconnects int
	synthetic  bool
}

func (m *nopMetrics) RecordTickIngested(string)          {}
func (m *nopMetrics) RecordTickDropped(string, string)   {}
func (m *nopMetrics) RecordCandleFinalized(string)       {}
func (m *nopMetrics) RecordSignalEmitted(string, string) {}
func (m *nopMetrics) RecordLastPrice(string, float64)    {}
func (m *nopMetrics) RecordError(string)                 {}
func (m *nopMetrics) RecordLatency(string, float64)      {}

func (m *nopMetrics) RecordReconnect(string) {
	m.mu.Lock()
	m.reconnects++
	m.mu.Unlock()
}

func (m *nopMetrics) RecordSyntheticMode(_ string, active bool) {
	m.mu.Lock()
	m.synthetic = active
	m.mu.Unlock()
}

func (m *nopMetrics) syntheticActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.synthetic
}

// fakeStream fails Connect failures times, then serves the queued
// ticks and closes its channels.
type fakeStream struct {
	mu       sync.Mutex
	failures int
	ticks    []*models.Tick
	connects int
}

func (f *fakeStream) Connect(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects++
	if f.connects <= f.failures {
		return fmt.Errorf("connection refused")
	}
	return nil
}

func (f *fakeStream) Subscribe(context.Context) error { return nil }

func (f *fakeStream) Read(ctx context.Context) (<-chan *models.Tick, <-chan error) {
	ticks := make(chan *models.Tick, len(f.ticks)+1)
	errs := make(chan error, 1)
	go func() {
		defer close(ticks)
		defer close(errs)
		f.mu.Lock()
		queued := f.ticks
		f.ticks = nil
		f.mu.Unlock()
		for _, tk := range queued {
			select {
			case ticks <- tk:
			case <-ctx.Done():
				return
			}
		}
		<-ctx.Done()
	}()
	return ticks, errs
}

func (f *fakeStream) Close() error      { return nil }
func (f *fakeStream) IsConnected() bool { return true }

func fastBackoff() *Backoff {
	return &Backoff{Base: time.Millisecond, Cap: 5 * time.Millisecond}
}

func TestConnectorDeliversTicks(t *testing.T) {
	primary := &fakeStream{ticks: []*models.Tick{
		{Symbol: "BTC-USD", Timestamp: 1, Price: 100, Size: 1},
		{Symbol: "BTC-USD", Timestamp: 2, Price: 101, Size: 1},
	}}
	c := NewConnector("BTC-USD", primary, &fakeStream{}, fastBackoff(), 3, &nopMetrics{}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	for i := 0; i < 2; i++ {
		select {
		case tick := <-c.Ticks():
			if tick.Symbol != "BTC-USD" {
				t.Fatalf("unexpected tick %+v", tick)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for tick %d", i)
		}
	}
}

func TestConnectorRetriesThenConnects(t *testing.T) {
	metrics := &nopMetrics{}
	primary := &fakeStream{
		failures: 2,
		ticks:    []*models.Tick{{Symbol: "ETH-USD", Timestamp: 1, Price: 10, Size: 1}},
	}
	c := NewConnector("ETH-USD", primary, &fakeStream{}, fastBackoff(), 5, metrics, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	select {
	case tick := <-c.Ticks():
		if tick.Price != 10 {
			t.Fatalf("unexpected tick %+v", tick)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for tick after retries")
	}
	if metrics.syntheticActive() {
		t.Fatalf("should not enter synthetic mode while retries remain")
	}
}

func TestConnectorFallsBackToSynthetic(t *testing.T) {
	metrics := &nopMetrics{}
	primary := &fakeStream{failures: 1000}
	fallback := &fakeStream{ticks: []*models.Tick{
		{Symbol: "BTC-USD", Timestamp: 1, Price: 60000, Size: 0.1},
	}}
	c := NewConnector("BTC-USD", primary, fallback, fastBackoff(), 3, metrics, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	select {
	case tick := <-c.Ticks():
		if tick.Price != 60000 {
			t.Fatalf("expected fallback tick, got %+v", tick)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for fallback tick")
	}
	if !metrics.syntheticActive() {
		t.Fatalf("expected synthetic mode recorded")
	}
}

func TestConnectorClosesOutputOnCancel(t *testing.T) {
	primary := &fakeStream{}
	c := NewConnector("BTC-USD", primary, &fakeStream{}, fastBackoff(), 3, &nopMetrics{}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
	if _, ok := <-c.Ticks(); ok {
		// drain until closed
		for range c.Ticks() {
		}
	}
}
