// Package indicator provides pure technical-indicator functions over an
// ordered candle history. Every function tolerates short histories by
// returning a defined neutral value or an empty slice, never an error.
package indicator

import (
	"math"

	"github.com/markcheno/go-talib"

	"MarketPulse/internal/domain/models"
)

// Default periods used by the strategy layer.
const (
	RSIPeriod       = 14
	MACDFast        = 12
	MACDSlow        = 26
	MACDSignal      = 9
	BollingerPeriod = 20
	BollingerK      = 2.0
	RSINeutral      = 50.0
	OversoldBound   = 30.0
	OverboughtBound = 70.0
)

// Closes extracts the close-price series from a candle history.
func Closes(candles []models.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// RSI computes the latest relative strength index using Wilder-style
// rolling smoothing. Histories shorter than period+1 return the neutral
// value 50, as does a flat series with no price changes.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return RSINeutral
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgGain == 0 && avgLoss == 0 {
		return RSINeutral
	}
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// Zone classifies an RSI reading.
func Zone(rsi float64) models.IndicatorZone {
	switch {
	case rsi < OversoldBound:
		return models.ZoneOversold
	case rsi > OverboughtBound:
		return models.ZoneOverbought
	default:
		return models.ZoneNeutral
	}
}

// SMA returns the simple moving average series. Values are aligned with
// the input: the first period-1 positions are dropped, so index 0 of
// the result corresponds to input index period-1. Returns nil for short
// histories.
func SMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	return talib.Sma(values, period)[period-1:]
}

// EMA returns the exponential moving average series, seeded with the
// simple average of the first period values. Alignment matches SMA.
func EMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	return talib.Ema(values, period)[period-1:]
}

// Last returns the final value of a series, or (0, false) when empty.
func Last(series []float64) (float64, bool) {
	if len(series) == 0 {
		return 0, false
	}
	return series[len(series)-1], true
}

// MACD computes MACD line, signal line, and histogram samples. Requires
// at least slow+signal candles; shorter histories return nil. The
// histogram is Line - Signal by construction.
func MACD(candles []models.Candle, fast, slow, signal int) []models.MACDSample {
	if fast <= 0 || slow <= fast || signal <= 0 {
		return nil
	}
	if len(candles) < slow+signal {
		return nil
	}

	closes := Closes(candles)
	fastEMA := talib.Ema(closes, fast)
	slowEMA := talib.Ema(closes, slow)

	// MACD line is valid from index slow-1 onward.
	line := make([]float64, len(closes)-slow+1)
	for i := range line {
		line[i] = fastEMA[slow-1+i] - slowEMA[slow-1+i]
	}

	sig := talib.Ema(line, signal)

	out := make([]models.MACDSample, 0, len(line)-signal+1)
	for j := signal - 1; j < len(line); j++ {
		idx := slow - 1 + j
		out = append(out, models.MACDSample{
			Time:      candles[idx].Time,
			Line:      line[j],
			Signal:    sig[j],
			Histogram: line[j] - sig[j],
		})
	}
	return out
}

// Bollinger computes middle (SMA), upper, and lower bands at k standard
// deviations. Requires at least period candles; shorter histories
// return nil.
func Bollinger(candles []models.Candle, period int, k float64) []models.BollingerSample {
	if period <= 0 || len(candles) < period {
		return nil
	}

	closes := Closes(candles)
	mid := talib.Sma(closes, period)
	sd := talib.StdDev(closes, period, 1.0)

	out := make([]models.BollingerSample, 0, len(closes)-period+1)
	for i := period - 1; i < len(closes); i++ {
		out = append(out, models.BollingerSample{
			Time:   candles[i].Time,
			Middle: mid[i],
			Upper:  mid[i] + k*sd[i],
			Lower:  mid[i] - k*sd[i],
		})
	}
	return out
}

// VWAP computes the volume-weighted average price over the window using
// each candle's typical price. Zero total volume falls back to the mean
// typical price; an empty window returns 0.
func VWAP(candles []models.Candle) float64 {
	if len(candles) == 0 {
		return 0
	}
	var pvSum, volSum, typSum float64
	for _, c := range candles {
		typ := (c.High + c.Low + c.Close) / 3
		pvSum += typ * c.Volume
		volSum += c.Volume
		typSum += typ
	}
	if volSum == 0 {
		return typSum / float64(len(candles))
	}
	return pvSum / volSum
}

// Returns computes simple period-over-period returns.
func Returns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (closes[i]-closes[i-1])/closes[i-1])
	}
	return out
}

// StdDev computes the population standard deviation.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
