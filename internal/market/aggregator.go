package market

import (
	"sync"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/pkg/util"
)

// Aggregator builds fixed-interval OHLCV candles from one instrument's
// tick stream. It holds exactly one open candle plus a bounded buffer
// of finalized candles; oldest bars are trimmed on overflow.
//
// The feed goroutine is the sole writer; readers take snapshots under
// the same lock so no one observes a partially-updated open candle.
type Aggregator struct {
	mu        sync.Mutex
	symbol    string
	interval  time.Duration
	retention int

	current *models.Candle
	history []models.Candle
}

// NewAggregator creates an aggregator for one symbol.
func NewAggregator(symbol string, interval time.Duration, retention int) *Aggregator {
	if retention <= 0 {
		retention = 10000
	}
	return &Aggregator{
		symbol:    symbol,
		interval:  interval,
		retention: retention,
	}
}

// Ingest folds a tick into the candle state and returns the resulting
// aggregation steps: one non-final update for a same-bucket tick, a
// final update plus a fresh open update on bucket rollover, or nothing
// for an out-of-order tick.
func (a *Aggregator) Ingest(t *models.Tick) []models.CandleUpdate {
	bucket := util.BucketStart(t.Timestamp, a.interval)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current == nil {
		a.current = a.openCandle(bucket, t)
		return []models.CandleUpdate{{Symbol: a.symbol, Candle: *a.current, IsFinal: false}}
	}

	switch {
	case bucket.Before(a.current.Time):
		// Late tick for an already-finalized bucket.
		return nil

	case bucket.Equal(a.current.Time):
		c := a.current
		c.Close = t.Price
		if t.Price > c.High {
			c.High = t.Price
		}
		if t.Price < c.Low {
			c.Low = t.Price
		}
		c.Volume += t.Size
		return []models.CandleUpdate{{Symbol: a.symbol, Candle: *c, IsFinal: false}}

	default:
		final := *a.current
		a.append(final)
		a.current = a.openCandle(bucket, t)
		return []models.CandleUpdate{
			{Symbol: a.symbol, Candle: final, IsFinal: true},
			{Symbol: a.symbol, Candle: *a.current, IsFinal: false},
		}
	}
}

func (a *Aggregator) openCandle(bucket time.Time, t *models.Tick) *models.Candle {
	return &models.Candle{
		Time:   bucket,
		Open:   t.Price,
		High:   t.Price,
		Low:    t.Price,
		Close:  t.Price,
		Volume: t.Size,
	}
}

func (a *Aggregator) append(c models.Candle) {
	if len(a.history) >= a.retention {
		copy(a.history, a.history[1:])
		a.history[len(a.history)-1] = c
		return
	}
	a.history = append(a.history, c)
}

// Snapshot returns a copy of the finalized candle history, oldest first.
func (a *Aggregator) Snapshot() []models.Candle {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.Candle, len(a.history))
	copy(out, a.history)
	return out
}

// Current returns a copy of the open candle, if any.
func (a *Aggregator) Current() (models.Candle, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return models.Candle{}, false
	}
	return *a.current, true
}

// Len returns the number of finalized candles retained.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.history)
}

// Symbol returns the instrument this aggregator tracks.
func (a *Aggregator) Symbol() string { return a.symbol }

// Interval returns the aggregation bucket size.
func (a *Aggregator) Interval() time.Duration { return a.interval }

// Book holds one aggregator per tracked instrument. Instruments are
// independent, so there is no cross-symbol locking beyond map access.
type Book struct {
	mu        sync.RWMutex
	interval  time.Duration
	retention int
	bySym     map[string]*Aggregator
}

// NewBook creates an empty aggregator registry.
func NewBook(interval time.Duration, retention int) *Book {
	return &Book{
		interval:  interval,
		retention: retention,
		bySym:     make(map[string]*Aggregator),
	}
}

// Get returns the aggregator for symbol, creating it on first use.
func (b *Book) Get(symbol string) *Aggregator {
	b.mu.RLock()
	agg, ok := b.bySym[symbol]
	b.mu.RUnlock()
	if ok {
		return agg
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if agg, ok = b.bySym[symbol]; ok {
		return agg
	}
	agg = NewAggregator(symbol, b.interval, b.retention)
	b.bySym[symbol] = agg
	return agg
}

// Symbols lists instruments with an aggregator.
func (b *Book) Symbols() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.bySym))
	for s := range b.bySym {
		out = append(out, s)
	}
	return out
}
