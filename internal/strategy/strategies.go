package strategy

import (
	"fmt"

	"MarketPulse/internal/analysis/indicator"
	"MarketPulse/internal/domain/models"
)

// score is a directional conviction in [-1,1]; positive means buy.
type score struct {
	value   float64
	reasons []string
}

func (s *score) add(v float64, reason string) {
	s.value += v
	s.reasons = append(s.reasons, reason)
}

func clampScore(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// momentum scores trend continuation: EMA alignment, MACD histogram,
// and RSI headroom.
func momentum(candles []models.Candle, regime models.MarketRegime) score {
	var s score
	closes := indicator.Closes(candles)

	fast, okF := indicator.Last(indicator.EMA(closes, 9))
	slow, okS := indicator.Last(indicator.EMA(closes, 21))
	if okF && okS {
		if fast > slow {
			s.add(0.35, "EMA9 above EMA21")
		} else if fast < slow {
			s.add(-0.35, "EMA9 below EMA21")
		}
	}

	macd := indicator.MACD(candles, indicator.MACDFast, indicator.MACDSlow, indicator.MACDSignal)
	if n := len(macd); n >= 2 {
		cur, prev := macd[n-1], macd[n-2]
		switch {
		case prev.Histogram <= 0 && cur.Histogram > 0:
			s.add(0.4, "MACD crossed above signal")
		case prev.Histogram >= 0 && cur.Histogram < 0:
			s.add(-0.4, "MACD crossed below signal")
		case cur.Histogram > 0:
			s.add(0.2, "MACD histogram positive")
		case cur.Histogram < 0:
			s.add(-0.2, "MACD histogram negative")
		}
	}

	rsi := indicator.RSI(closes, indicator.RSIPeriod)
	switch indicator.Zone(rsi) {
	case models.ZoneOverbought:
		s.add(-0.15, fmt.Sprintf("RSI overbought at %.1f", rsi))
	case models.ZoneOversold:
		s.add(0.15, fmt.Sprintf("RSI oversold at %.1f", rsi))
	default:
		if rsi > indicator.RSINeutral && regime.Trend == models.TrendBullish {
			s.add(0.1, "RSI confirms uptrend")
		} else if rsi < indicator.RSINeutral && regime.Trend == models.TrendBearish {
			s.add(-0.1, "RSI confirms downtrend")
		}
	}

	s.value = clampScore(s.value)
	return s
}

// meanReversion scores a snap-back toward the Bollinger middle band,
// confirmed by RSI extremes.
func meanReversion(candles []models.Candle, _ models.MarketRegime) score {
	var s score
	closes := indicator.Closes(candles)
	price := closes[len(closes)-1]

	bands := indicator.Bollinger(candles, indicator.BollingerPeriod, indicator.BollingerK)
	if len(bands) == 0 {
		return s
	}
	b := bands[len(bands)-1]
	width := b.Upper - b.Lower

	if width > 0 {
		// position in [-1,1]: -1 at lower band, +1 at upper.
		pos := 2*(price-b.Lower)/width - 1
		switch {
		case pos <= -1:
			s.add(0.5, "price at or below lower Bollinger band")
		case pos >= 1:
			s.add(-0.5, "price at or above upper Bollinger band")
		case pos < -0.6:
			s.add(0.3, "price near lower Bollinger band")
		case pos > 0.6:
			s.add(-0.3, "price near upper Bollinger band")
		}
	}

	rsi := indicator.RSI(closes, indicator.RSIPeriod)
	switch indicator.Zone(rsi) {
	case models.ZoneOversold:
		s.add(0.35, fmt.Sprintf("RSI oversold at %.1f", rsi))
	case models.ZoneOverbought:
		s.add(-0.35, fmt.Sprintf("RSI overbought at %.1f", rsi))
	}

	s.value = clampScore(s.value)
	return s
}

// breakout scores a close beyond recent support/resistance with volume
// confirmation.
func breakout(candles []models.Candle, regime models.MarketRegime) score {
	var s score
	price := candles[len(candles)-1].Close
	support, resistance := Levels(candles[:len(candles)-1], levelLookback)

	if resistance > 0 && price > resistance {
		s.add(0.5, fmt.Sprintf("close %.4f above resistance %.4f", price, resistance))
		if regime.VolumeRatio > 1.5 {
			s.add(0.3, "breakout confirmed by volume surge")
		}
	}
	if support > 0 && price < support {
		s.add(-0.5, fmt.Sprintf("close %.4f below support %.4f", price, support))
		if regime.VolumeRatio > 1.5 {
			s.add(-0.3, "breakdown confirmed by volume surge")
		}
	}

	s.value = clampScore(s.value)
	return s
}

// volumeProfile scores deviation from VWAP under heavy volume; heavy
// trade away from fair value tends to pull price back.
func volumeProfile(candles []models.Candle, regime models.MarketRegime) score {
	var s score
	window := candles
	if len(window) > indicator.BollingerPeriod {
		window = window[len(window)-indicator.BollingerPeriod:]
	}
	vwap := indicator.VWAP(window)
	if vwap == 0 {
		return s
	}
	price := candles[len(candles)-1].Close
	dev := (price - vwap) / vwap

	switch {
	case dev < -0.01:
		s.add(0.4, fmt.Sprintf("price %.2f%% below VWAP", -dev*100))
	case dev > 0.01:
		s.add(-0.4, fmt.Sprintf("price %.2f%% above VWAP", dev*100))
	}
	if regime.Volume == models.LevelHigh && s.value != 0 {
		if s.value > 0 {
			s.add(0.25, "high volume supports reversion")
		} else {
			s.add(-0.25, "high volume supports reversion")
		}
	}

	s.value = clampScore(s.value)
	return s
}

type scoreFunc func([]models.Candle, models.MarketRegime) score

var strategyFuncs = map[models.StrategyName]scoreFunc{
	models.StrategyMomentum:      momentum,
	models.StrategyMeanReversion: meanReversion,
	models.StrategyBreakout:      breakout,
	models.StrategyVolumeProfile: volumeProfile,
}

// selectStrategy maps the regime combination onto the single strategy
// evaluated this cycle. Regimes outside the named rows fall through to
// volume-profile.
func selectStrategy(r models.MarketRegime) models.StrategyName {
	switch {
	case r.Trend == models.TrendBullish && r.Volatility == models.LevelMedium:
		return models.StrategyMomentum
	case r.Trend == models.TrendSideways && r.Volatility == models.LevelLow:
		return models.StrategyMeanReversion
	case r.Volume == models.LevelHigh && r.Volatility == models.LevelHigh:
		return models.StrategyBreakout
	default:
		return models.StrategyVolumeProfile
	}
}
