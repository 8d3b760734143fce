package models

import "time"

// SignalType is the trade direction of a signal.
type SignalType string

const (
	SignalBuy  SignalType = "buy"
	SignalSell SignalType = "sell"
)

// SignalStrength buckets the absolute conviction score.
type SignalStrength string

const (
	StrengthWeak       SignalStrength = "weak"
	StrengthMedium     SignalStrength = "medium"
	StrengthStrong     SignalStrength = "strong"
	StrengthVeryStrong SignalStrength = "very_strong"
)

// StrategyName identifies the strategy that produced a signal.
type StrategyName string

const (
	StrategyMomentum      StrategyName = "momentum"
	StrategyMeanReversion StrategyName = "mean_reversion"
	StrategyBreakout      StrategyName = "breakout"
	StrategyVolumeProfile StrategyName = "volume_profile"
)

// TradingSignal is a directional trade recommendation. Read-only after
// creation; expiry is evaluated lazily against ExpiresAt.
type TradingSignal struct {
	ID         string         `json:"id"`
	Symbol     string         `json:"symbol"`
	Type       SignalType     `json:"type"`
	Strength   SignalStrength `json:"strength"`
	Confidence float64        `json:"confidence"` // [25,85] by default
	Price      float64        `json:"price"`
	StopLoss   float64        `json:"stopLoss"`
	TakeProfit float64        `json:"takeProfit"`
	RiskReward float64        `json:"riskReward"`
	Timestamp  time.Time      `json:"timestamp"`
	ExpiresAt  time.Time      `json:"expiresAt"`
	Strategy   StrategyName   `json:"strategy"`
	Regime     MarketRegime   `json:"regime"`
	Reasons    []string       `json:"reasons"`
}

// Expired reports whether the signal's TTL has passed at t.
func (s *TradingSignal) Expired(t time.Time) bool { return t.After(s.ExpiresAt) }

// SignalOutcome records how a closed signal resolved.
type SignalOutcome string

const (
	OutcomeTargetHit SignalOutcome = "target_hit"
	OutcomeStopHit   SignalOutcome = "stop_hit"
	OutcomeExpired   SignalOutcome = "expired"
)

// ClosedSignal is a signal plus its realized result.
type ClosedSignal struct {
	Signal     TradingSignal `json:"signal"`
	Outcome    SignalOutcome `json:"outcome"`
	ExitPrice  float64       `json:"exitPrice"`
	ProfitLoss float64       `json:"profitLoss"` // fractional return, direction-adjusted
	ClosedAt   time.Time     `json:"closedAt"`
}

// Win reports whether the closed signal realized a profit.
func (c *ClosedSignal) Win() bool { return c.ProfitLoss > 0 }

// StrategyMetrics aggregates realized outcomes per strategy. Owned and
// mutated exclusively by the performance tracker.
type StrategyMetrics struct {
	Strategy     StrategyName `json:"strategy"`
	TotalSignals int          `json:"totalSignals"`
	WinRate      float64      `json:"winRate"`
	AvgPnL       float64      `json:"avgPnL"`
	SharpeRatio  float64      `json:"sharpeRatio"`
	MaxDrawdown  float64      `json:"maxDrawdown"`
	LastUpdated  time.Time    `json:"lastUpdated"`
}

// SignalStats is the aggregate view served alongside the signal feed.
type SignalStats struct {
	TotalSignals  int     `json:"totalSignals"`
	ActiveSignals int     `json:"activeSignals"`
	WinRate       float64 `json:"winRate"`
	AvgConfidence float64 `json:"avgConfidence"`
	Profitability float64 `json:"profitability"`
}
