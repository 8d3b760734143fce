package feed

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
	"MarketPulse/pkg/logger"
)

// basePrices seed the random walk at plausible levels per asset class.
var basePrices = map[string]float64{
	"BTC-USD": 60000,
	"ETH-USD": 3000,
	"SOL-USD": 150,
}

const defaultBasePrice = 100

// regimeFlipEvery controls how often a symbol's drift direction
// reconsiders itself, so synthetic data exhibits trends instead of
// pure noise.
const regimeFlipEvery = 500

// Synthetic is a MarketStream that emits a random-walk tick stream.
// It never fails; the connector switches to it when the real feed is
// declared unreachable.
type Synthetic struct {
	symbols []string
	cadence time.Duration
	rng     *rand.Rand
	log     *logger.Logger

	mu        sync.Mutex
	connected bool
}

// NewSynthetic creates a synthetic stream emitting one tick per symbol
// every cadence.
func NewSynthetic(symbols []string, cadence time.Duration, seed int64, log *logger.Logger) *Synthetic {
	if cadence <= 0 {
		cadence = 250 * time.Millisecond
	}
	return &Synthetic{
		symbols: symbols,
		cadence: cadence,
		rng:     rand.New(rand.NewSource(seed)),
		log:     log,
	}
}

var _ drepo.MarketStream = (*Synthetic)(nil)

func (s *Synthetic) Connect(context.Context) error {
	s.mu.Lock()
	s.connected = true
	s.mu.Unlock()
	s.log.Warn("synthetic feed active", logger.Strings("symbols", s.symbols))
	return nil
}

func (s *Synthetic) Subscribe(context.Context) error { return nil }

// Read emits ticks until the context ends. The error channel never
// fires.
func (s *Synthetic) Read(ctx context.Context) (<-chan *models.Tick, <-chan error) {
	ticks := make(chan *models.Tick, 1024)
	errs := make(chan error, 1)

	go func() {
		defer close(ticks)
		defer close(errs)

		prices := make(map[string]float64, len(s.symbols))
		drifts := make(map[string]float64, len(s.symbols))
		for _, sym := range s.symbols {
			prices[sym] = basePrice(sym)
			drifts[sym] = s.drift()
		}

		ticker := time.NewTicker(s.cadence)
		defer ticker.Stop()

		emitted := 0
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				for _, sym := range s.symbols {
					emitted++
					if emitted%regimeFlipEvery == 0 {
						drifts[sym] = s.drift()
					}
					prices[sym] = s.step(prices[sym], drifts[sym])
					tick := &models.Tick{
						Symbol:    sym,
						Timestamp: now.Unix(),
						Price:     prices[sym],
						Size:      0.01 + s.rng.Float64(),
					}
					select {
					case ticks <- tick:
					default:
					}
				}
			}
		}
	}()

	return ticks, errs
}

// step applies one random-walk move: drift plus gaussian noise scaled
// to the price, floored away from zero.
func (s *Synthetic) step(price, drift float64) float64 {
	noise := s.rng.NormFloat64() * 0.0008
	next := price * (1 + drift + noise)
	if floor := price * 0.5; next < floor {
		next = floor
	}
	return next
}

// drift picks a small per-tick trend in [-0.02%, +0.02%].
func (s *Synthetic) drift() float64 {
	return (s.rng.Float64() - 0.5) * 0.0004
}

func (s *Synthetic) Close() error {
	s.mu.Lock()
	s.connected = false
	s.mu.Unlock()
	return nil
}

func (s *Synthetic) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func basePrice(symbol string) float64 {
	if p, ok := basePrices[strings.ToUpper(symbol)]; ok {
		return p
	}
	return defaultBasePrice
}
