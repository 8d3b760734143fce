package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
	"MarketPulse/internal/market"
	"MarketPulse/internal/strategy"
	"MarketPulse/pkg/logger"
)

type fakeMetrics struct {
	mu        sync.Mutex
	ingested  int
	dropped   map[string]int
	finalized int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{dropped: make(map[string]int)}
}

func (m *fakeMetrics) RecordTickIngested(string) {
	m.mu.Lock()
	m.ingested++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordTickDropped(_, reason string) {
	m.mu.Lock()
	m.dropped[reason]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordCandleFinalized(string) {
	m.mu.Lock()
	m.finalized++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordSignalEmitted(string, string) {}
func (m *fakeMetrics) RecordReconnect(string)             {}
func (m *fakeMetrics) RecordSyntheticMode(string, bool)   {}
func (m *fakeMetrics) RecordLastPrice(string, float64)    {}
func (m *fakeMetrics) RecordError(string)                 {}
func (m *fakeMetrics) RecordLatency(string, float64)      {}

type fakePublisher struct {
	mu      sync.Mutex
	candles []models.CandleUpdate
	signals []models.TradingSignal
}

func (p *fakePublisher) PublishCandleUpdate(_ context.Context, u *models.CandleUpdate) error {
	p.mu.Lock()
	p.candles = append(p.candles, *u)
	p.mu.Unlock()
	return nil
}

func (p *fakePublisher) PublishSignal(_ context.Context, s *models.TradingSignal) error {
	p.mu.Lock()
	p.signals = append(p.signals, *s)
	p.mu.Unlock()
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func testService(pub *fakePublisher, metrics *fakeMetrics) (*MarketService, *SignalStore, *strategy.Tracker) {
	book := market.NewBook(time.Minute, 1000)
	store := NewSignalStore()
	tracker := strategy.NewTracker()
	gen := strategy.NewGenerator(strategy.Params{
		TTL:                8 * time.Hour,
		MaxActivePerSymbol: 2,
		MinScore:           0.3,
		ConfidenceMin:      25,
		ConfidenceMax:      85,
		WinRateWeight:      40,
		ScoreWeight:        30,
		RegimeWeight:       20,
		SharpeWeight:       10,
	}, tracker, logger.Nop())

	var publisher drepo.EventPublisher
	if pub != nil {
		publisher = pub
	}
	svc := NewMarketService(book, store, tracker, gen, publisher, nil, metrics, logger.Nop())
	return svc, store, tracker
}

func tickAt(sec int64, price float64) *models.Tick {
	return &models.Tick{Symbol: "BTC-USD", Timestamp: sec, Price: price, Size: 1}
}

// feedUptrend finalizes one candle per minute along an uptrend whose
// alternating +0.9%/-0.1% bars keep volatility in the medium band, so
// signal generation routes to the momentum strategy.
func feedUptrend(ctx context.Context, svc *MarketService, n int) {
	price := 100.0
	for i := 0; i < n; i++ {
		if i > 0 {
			ret := 0.009
			if i%2 == 0 {
				ret = -0.001
			}
			price *= 1 + ret
		}
		_ = svc.Process(ctx, tickAt(int64(i)*60, price))
	}
}

func TestProcessPublishesUpdatesAndFinalizes(t *testing.T) {
	pub := &fakePublisher{}
	metrics := newFakeMetrics()
	svc, _, _ := testService(pub, metrics)
	ctx := context.Background()

	_ = svc.Process(ctx, tickAt(10, 100))
	_ = svc.Process(ctx, tickAt(20, 101))
	_ = svc.Process(ctx, tickAt(70, 102)) // rollover

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if len(pub.candles) != 4 {
		t.Fatalf("expected 4 candle updates (2 open, 1 final, 1 new open), got %d", len(pub.candles))
	}
	var finals int
	for _, u := range pub.candles {
		if u.IsFinal {
			finals++
		}
	}
	if finals != 1 {
		t.Fatalf("expected 1 final update, got %d", finals)
	}
	if metrics.finalized != 1 {
		t.Fatalf("expected 1 finalized metric, got %d", metrics.finalized)
	}
}

func TestProcessDropsOutOfOrderTick(t *testing.T) {
	metrics := newFakeMetrics()
	svc, _, _ := testService(nil, metrics)
	ctx := context.Background()

	_ = svc.Process(ctx, tickAt(70, 100))
	_ = svc.Process(ctx, tickAt(10, 99)) // earlier bucket

	metrics.mu.Lock()
	defer metrics.mu.Unlock()
	if metrics.dropped["out_of_order"] != 1 {
		t.Fatalf("expected 1 out-of-order drop, got %v", metrics.dropped)
	}
	if metrics.ingested != 1 {
		t.Fatalf("expected 1 ingested, got %d", metrics.ingested)
	}
}

func TestFinalizedCandleResolvesSignals(t *testing.T) {
	metrics := newFakeMetrics()
	svc, store, tracker := testService(nil, metrics)
	ctx := context.Background()

	_ = svc.Process(ctx, tickAt(10, 100))
	store.Add(buySignal("s", 100, 98, 103, time.Now().Add(time.Hour)))

	// Rollover finalizes the first candle with high above the target.
	_ = svc.Process(ctx, tickAt(30, 104))
	_ = svc.Process(ctx, tickAt(70, 104))

	if store.ActiveCount("BTC-USD", time.Now()) != 0 {
		t.Fatalf("signal should be resolved by the finalized candle")
	}
	if tracker.TotalClosed() != 1 {
		t.Fatalf("tracker should have recorded the outcome")
	}
}

func TestGenerateSignalsEndToEnd(t *testing.T) {
	pub := &fakePublisher{}
	metrics := newFakeMetrics()
	svc, store, _ := testService(pub, metrics)
	ctx := context.Background()

	feedUptrend(ctx, svc, 150)

	now := time.Unix(150*60, 0).UTC()
	svc.GenerateSignals(ctx, now)

	active := store.ActiveFor("BTC-USD", now)
	if len(active) == 0 {
		t.Fatalf("expected a signal from a strong uptrend")
	}
	sig := active[0]
	if sig.Type != models.SignalBuy {
		t.Fatalf("expected buy signal, got %s", sig.Type)
	}
	if sig.Confidence < 25 || sig.Confidence > 85 {
		t.Fatalf("confidence out of bounds: %v", sig.Confidence)
	}

	pub.mu.Lock()
	published := len(pub.signals)
	pub.mu.Unlock()
	if published != len(active) {
		t.Fatalf("expected %d published signals, got %d", len(active), published)
	}
}

func TestGenerateSignalsRespectsCap(t *testing.T) {
	metrics := newFakeMetrics()
	svc, store, _ := testService(nil, metrics)
	ctx := context.Background()

	feedUptrend(ctx, svc, 150)
	far := time.Now().Add(time.Hour)
	store.Add(buySignal("x", 100, 98, 1e9, far))
	store.Add(buySignal("y", 100, 98, 1e9, far))

	svc.GenerateSignals(ctx, time.Unix(150*60, 0).UTC())
	if store.ActiveCount("BTC-USD", time.Now()) != 2 {
		t.Fatalf("cap of 2 should block new signals, got %d", store.ActiveCount("BTC-USD", time.Now()))
	}
}
