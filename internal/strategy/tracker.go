package strategy

import (
	"math"
	"sync"
	"time"

	"MarketPulse/internal/domain/models"
)

const (
	// minSamples is the realized-outcome count below which a strategy
	// keeps its neutral priors.
	minSamples = 5

	priorWinRate = 0.5
	priorSharpe  = 1.0
)

// Tracker accumulates realized signal outcomes per strategy and serves
// the feedback metrics the generator folds into confidence scoring.
// Safe for concurrent use.
type Tracker struct {
	mu     sync.RWMutex
	closed map[models.StrategyName][]models.ClosedSignal
}

func NewTracker() *Tracker {
	return &Tracker{closed: make(map[models.StrategyName][]models.ClosedSignal)}
}

// Record stores a resolved signal outcome.
func (t *Tracker) Record(c models.ClosedSignal) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed[c.Signal.Strategy] = append(t.closed[c.Signal.Strategy], c)
}

// MetricsFor returns the strategy's realized metrics. Strategies with
// fewer than minSamples outcomes report neutral priors so that a cold
// start neither inflates nor starves confidence.
func (t *Tracker) MetricsFor(name models.StrategyName) models.StrategyMetrics {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := models.StrategyMetrics{
		Strategy:    name,
		WinRate:     priorWinRate,
		SharpeRatio: priorSharpe,
		LastUpdated: time.Now().UTC(),
	}
	closed := t.closed[name]
	out.TotalSignals = len(closed)
	if len(closed) < minSamples {
		return out
	}

	var wins int
	pnls := make([]float64, len(closed))
	for i := range closed {
		pnls[i] = closed[i].ProfitLoss
		if closed[i].Win() {
			wins++
		}
	}

	out.WinRate = float64(wins) / float64(len(closed))
	out.AvgPnL = mean(pnls)
	if sd := stdev(pnls, out.AvgPnL); sd > 0 {
		out.SharpeRatio = out.AvgPnL / sd
	} else {
		out.SharpeRatio = priorSharpe
	}
	out.MaxDrawdown = maxDrawdown(pnls)
	return out
}

// TotalClosed returns the number of resolved signals across strategies.
func (t *Tracker) TotalClosed() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, c := range t.closed {
		n += len(c)
	}
	return n
}

// Stats aggregates realized outcomes across all strategies.
func (t *Tracker) Stats() (winRate, profitability float64, closed int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var wins int
	var pnlSum float64
	for _, list := range t.closed {
		for i := range list {
			closed++
			pnlSum += list[i].ProfitLoss
			if list[i].Win() {
				wins++
			}
		}
	}
	if closed == 0 {
		return priorWinRate, 0, 0
	}
	return float64(wins) / float64(closed), pnlSum / float64(closed), closed
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

func maxDrawdown(pnls []float64) float64 {
	var equity, peak, dd float64
	for _, p := range pnls {
		equity += p
		if equity > peak {
			peak = equity
		}
		if d := peak - equity; d > dd {
			dd = d
		}
	}
	return dd
}
