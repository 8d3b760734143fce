package usecase

import (
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/strategy"
)

// SignalsUseCase serves the signal feed and aggregate statistics.
type SignalsUseCase struct {
	signals *SignalStore
	tracker *strategy.Tracker
}

func NewSignalsUseCase(signals *SignalStore, tracker *strategy.Tracker) *SignalsUseCase {
	return &SignalsUseCase{signals: signals, tracker: tracker}
}

// SignalFeed is the combined active/recent view.
type SignalFeed struct {
	Active []models.TradingSignal `json:"active"`
	Closed []models.ClosedSignal  `json:"closed"`
}

// Feed returns the signals unexpired at call time, optionally filtered
// by symbol, plus the most recently closed ones.
func (uc *SignalsUseCase) Feed(symbol string) *SignalFeed {
	now := time.Now()
	var active []models.TradingSignal
	if symbol == "" {
		active = uc.signals.AllActive(now)
	} else {
		active = uc.signals.ActiveFor(symbol, now)
	}
	return &SignalFeed{
		Active: active,
		Closed: uc.signals.RecentClosed(50),
	}
}

// Stats aggregates lifetime emission counts with realized performance.
func (uc *SignalsUseCase) Stats() models.SignalStats {
	now := time.Now()
	winRate, profitability, _ := uc.tracker.Stats()
	return models.SignalStats{
		TotalSignals:  uc.signals.TotalEmitted(),
		ActiveSignals: len(uc.signals.AllActive(now)),
		WinRate:       winRate,
		AvgConfidence: uc.signals.AvgActiveConfidence(now),
		Profitability: profitability,
	}
}

// StrategyMetrics exposes per-strategy realized metrics.
func (uc *SignalsUseCase) StrategyMetrics() []models.StrategyMetrics {
	names := []models.StrategyName{
		models.StrategyMomentum,
		models.StrategyMeanReversion,
		models.StrategyBreakout,
		models.StrategyVolumeProfile,
	}
	out := make([]models.StrategyMetrics, 0, len(names))
	for _, n := range names {
		out = append(out, uc.tracker.MetricsFor(n))
	}
	return out
}
