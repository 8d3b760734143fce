package usecase

import (
	"sync"
	"time"

	"MarketPulse/internal/domain/models"
)

// maxClosedRetained bounds the recent-outcome buffer served by the API.
const maxClosedRetained = 500

// SignalStore holds the active signals per symbol and a bounded buffer
// of recently closed ones. Resolution (target, stop, expiry) mutates
// the store and returns the closed records for the tracker. Expiry is
// also evaluated on every read, so a signal whose TTL lapsed between
// sweeps is never served as active.
type SignalStore struct {
	mu      sync.RWMutex
	active  map[string][]*models.TradingSignal
	closed  []models.ClosedSignal
	emitted int
}

func NewSignalStore() *SignalStore {
	return &SignalStore{active: make(map[string][]*models.TradingSignal)}
}

// Add registers a newly emitted signal.
func (s *SignalStore) Add(sig *models.TradingSignal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[sig.Symbol] = append(s.active[sig.Symbol], sig)
	s.emitted++
}

// ActiveCount returns the number of signals unexpired at now for
// symbol.
func (s *SignalStore) ActiveCount(symbol string, now time.Time) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int
	for _, sig := range s.active[symbol] {
		if !sig.Expired(now) {
			n++
		}
	}
	return n
}

// ActiveFor returns copies of the signals for one symbol that are
// unexpired at now.
func (s *SignalStore) ActiveFor(symbol string, now time.Time) []models.TradingSignal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.TradingSignal, 0, len(s.active[symbol]))
	for _, sig := range s.active[symbol] {
		if sig.Expired(now) {
			continue
		}
		out = append(out, *sig)
	}
	return out
}

// AllActive returns copies of every signal unexpired at now.
func (s *SignalStore) AllActive(now time.Time) []models.TradingSignal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.TradingSignal
	for _, list := range s.active {
		for _, sig := range list {
			if sig.Expired(now) {
				continue
			}
			out = append(out, *sig)
		}
	}
	return out
}

// RecentClosed returns up to n most recently closed signals, newest
// first.
func (s *SignalStore) RecentClosed(n int) []models.ClosedSignal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 || n > len(s.closed) {
		n = len(s.closed)
	}
	out := make([]models.ClosedSignal, 0, n)
	for i := len(s.closed) - 1; i >= len(s.closed)-n; i-- {
		out = append(out, s.closed[i])
	}
	return out
}

// TotalEmitted counts every signal ever added.
func (s *SignalStore) TotalEmitted() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.emitted
}

// AvgActiveConfidence averages confidence across signals unexpired at
// now, returning 0 when none are active.
func (s *SignalStore) AvgActiveConfidence(now time.Time) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum float64
	var n int
	for _, list := range s.active {
		for _, sig := range list {
			if sig.Expired(now) {
				continue
			}
			sum += sig.Confidence
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// ResolveAgainstCandle closes any of symbol's active signals whose
// target or stop lies inside the finalized candle's range. When both
// are inside the stop wins, the conservative reading of an ambiguous
// bar.
func (s *SignalStore) ResolveAgainstCandle(symbol string, c models.Candle) []models.ClosedSignal {
	s.mu.Lock()
	defer s.mu.Unlock()

	var closed []models.ClosedSignal
	remaining := s.active[symbol][:0]
	for _, sig := range s.active[symbol] {
		outcome, exit, hit := hitCheck(sig, c)
		if !hit {
			remaining = append(remaining, sig)
			continue
		}
		closed = append(closed, s.closeLocked(sig, outcome, exit, c.Time))
	}
	s.active[symbol] = remaining
	return closed
}

// SweepExpired closes signals past their TTL at now, exiting at
// lastPrice when known and at entry otherwise.
func (s *SignalStore) SweepExpired(now time.Time, lastPrice func(symbol string) (float64, bool)) []models.ClosedSignal {
	s.mu.Lock()
	defer s.mu.Unlock()

	var closed []models.ClosedSignal
	for symbol, list := range s.active {
		remaining := list[:0]
		for _, sig := range list {
			if !sig.Expired(now) {
				remaining = append(remaining, sig)
				continue
			}
			exit := sig.Price
			if p, ok := lastPrice(symbol); ok {
				exit = p
			}
			closed = append(closed, s.closeLocked(sig, models.OutcomeExpired, exit, now))
		}
		s.active[symbol] = remaining
	}
	return closed
}

func (s *SignalStore) closeLocked(sig *models.TradingSignal, outcome models.SignalOutcome, exit float64, at time.Time) models.ClosedSignal {
	c := models.ClosedSignal{
		Signal:     *sig,
		Outcome:    outcome,
		ExitPrice:  exit,
		ProfitLoss: pnl(sig, exit),
		ClosedAt:   at,
	}
	s.closed = append(s.closed, c)
	if len(s.closed) > maxClosedRetained {
		s.closed = s.closed[len(s.closed)-maxClosedRetained:]
	}
	return c
}

func hitCheck(sig *models.TradingSignal, c models.Candle) (models.SignalOutcome, float64, bool) {
	if sig.Type == models.SignalBuy {
		if c.Low <= sig.StopLoss {
			return models.OutcomeStopHit, sig.StopLoss, true
		}
		if c.High >= sig.TakeProfit {
			return models.OutcomeTargetHit, sig.TakeProfit, true
		}
		return "", 0, false
	}
	if c.High >= sig.StopLoss {
		return models.OutcomeStopHit, sig.StopLoss, true
	}
	if c.Low <= sig.TakeProfit {
		return models.OutcomeTargetHit, sig.TakeProfit, true
	}
	return "", 0, false
}

// pnl is the direction-adjusted fractional return.
func pnl(sig *models.TradingSignal, exit float64) float64 {
	if sig.Price == 0 {
		return 0
	}
	if sig.Type == models.SignalBuy {
		return (exit - sig.Price) / sig.Price
	}
	return (sig.Price - exit) / sig.Price
}
