// Package strategy turns analyzed market state into trading signals.
// Scoring blends indicator evidence, candlestick patterns, the current
// regime, and realized per-strategy performance.
package strategy

import (
	"math"
	"time"

	"github.com/google/uuid"

	"MarketPulse/internal/analysis/pattern"
	"MarketPulse/internal/analysis/regime"
	"MarketPulse/internal/domain/models"
	"MarketPulse/pkg/logger"
)

// minHistory is the candle count required before any evaluation runs.
const minHistory = 100

// patternWindow bounds how far back pattern confirmation looks.
const patternWindow = 10

// Params tunes signal generation. Zero values are not usable; populate
// from validated configuration.
type Params struct {
	TTL                time.Duration
	MaxActivePerSymbol int
	MinScore           float64
	ConfidenceMin      float64
	ConfidenceMax      float64

	// Confidence weights, in points of the final [min,max] scale.
	WinRateWeight float64
	ScoreWeight   float64
	RegimeWeight  float64
	SharpeWeight  float64
}

// Generator evaluates the regime-selected strategy against a symbol's
// candle history, emitting at most one signal per cycle while the
// per-symbol active cap has room.
type Generator struct {
	params  Params
	tracker *Tracker
	log     *logger.Logger
}

func NewGenerator(params Params, tracker *Tracker, log *logger.Logger) *Generator {
	return &Generator{params: params, tracker: tracker, log: log}
}

// Evaluate scores the one strategy selected for the current regime and
// returns at most one new signal. active is the number of unexpired
// signals already held for the symbol; the per-symbol cap is enforced
// here.
func (g *Generator) Evaluate(symbol string, candles []models.Candle, active int, now time.Time) []*models.TradingSignal {
	if len(candles) < minHistory {
		return nil
	}
	if active >= g.params.MaxActivePerSymbol {
		return nil
	}

	r := regime.Classify(candles)
	patternBias, patternReasons := patternConfirmation(candles)

	name := selectStrategy(r)
	sc := strategyFuncs[name](candles, r)
	sc.value = clampScore(sc.value + patternBias)
	sc.reasons = append(sc.reasons, patternReasons...)

	if math.Abs(sc.value) < g.params.MinScore {
		g.log.Debug("score below threshold",
			logger.String("symbol", symbol),
			logger.String("strategy", string(name)),
			logger.Float64("score", sc.value))
		return nil
	}
	return []*models.TradingSignal{g.build(symbol, name, sc, r, candles, now)}
}

func (g *Generator) build(symbol string, name models.StrategyName, sc score, r models.MarketRegime, candles []models.Candle, now time.Time) *models.TradingSignal {
	price := candles[len(candles)-1].Close

	sigType := models.SignalBuy
	if sc.value < 0 {
		sigType = models.SignalSell
	}

	stopDist := stopDistance(price, r.ReturnStdev)
	takeDist := 2 * stopDist

	stop, take := price-stopDist, price+takeDist
	if sigType == models.SignalSell {
		stop, take = price+stopDist, price-takeDist
	}

	return &models.TradingSignal{
		ID:         uuid.NewString(),
		Symbol:     symbol,
		Type:       sigType,
		Strength:   strength(math.Abs(sc.value)),
		Confidence: g.confidence(name, sc.value, r),
		Price:      price,
		StopLoss:   stop,
		TakeProfit: take,
		RiskReward: takeDist / stopDist,
		Timestamp:  now,
		ExpiresAt:  now.Add(g.params.TTL),
		Strategy:   name,
		Regime:     r,
		Reasons:    sc.reasons,
	}
}

// confidence folds realized strategy performance, score magnitude, and
// regime certainty into a bounded score.
func (g *Generator) confidence(name models.StrategyName, scoreValue float64, r models.MarketRegime) float64 {
	m := g.tracker.MetricsFor(name)

	sharpeTerm := m.SharpeRatio / 3
	if sharpeTerm > 1 {
		sharpeTerm = 1
	}
	if sharpeTerm < 0 {
		sharpeTerm = 0
	}

	c := m.WinRate*g.params.WinRateWeight +
		math.Abs(scoreValue)*g.params.ScoreWeight +
		r.Confidence*g.params.RegimeWeight +
		sharpeTerm*g.params.SharpeWeight

	if c < g.params.ConfidenceMin {
		return g.params.ConfidenceMin
	}
	if c > g.params.ConfidenceMax {
		return g.params.ConfidenceMax
	}
	return c
}

// stopDistance widens the stop with volatility, floored at 2% of price.
func stopDistance(price, returnStdev float64) float64 {
	pct := 2 * returnStdev
	if pct < 0.02 {
		pct = 0.02
	}
	return pct * price
}

func strength(absScore float64) models.SignalStrength {
	switch {
	case absScore >= 0.8:
		return models.StrengthVeryStrong
	case absScore >= 0.6:
		return models.StrengthStrong
	case absScore >= 0.4:
		return models.StrengthMedium
	default:
		return models.StrengthWeak
	}
}

// patternConfirmation nudges the score toward recently completed
// reversal patterns on the latest candle.
func patternConfirmation(candles []models.Candle) (float64, []string) {
	window := candles
	if len(window) > patternWindow {
		window = window[len(window)-patternWindow:]
	}
	last := window[len(window)-1].Time

	var bias float64
	var reasons []string
	for _, m := range pattern.Detect(window) {
		if !m.Time.Equal(last) {
			continue
		}
		step := 0.1 * m.Confidence / 100
		if m.Direction == models.PatternBullish {
			bias += step
		} else {
			bias -= step
		}
		reasons = append(reasons, string(m.Label)+" pattern on latest candle")
	}
	return bias, reasons
}
