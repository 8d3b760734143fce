// Package regime derives a coarse market-condition classification from
// a rolling candle window: trend via least-squares slope, volatility
// via return stdev, and volume pressure via ratio to recent average.
package regime

import (
	"math"

	"MarketPulse/internal/analysis/indicator"
	"MarketPulse/internal/domain/models"
)

const (
	trendWindow  = 50
	volWindow    = 20
	volumeWindow = 20

	// slopeEpsilon is the normalized per-bar drift below which the
	// market counts as sideways.
	slopeEpsilon = 0.0002

	volLowBound  = 0.002
	volHighBound = 0.01

	volumeLowBound  = 0.8
	volumeHighBound = 1.5

	maxConfidence = 0.95
)

// Classify computes the current regime from the most recent candles.
// Short histories degrade to a neutral sideways/medium regime with low
// confidence rather than erroring.
func Classify(candles []models.Candle) models.MarketRegime {
	out := models.MarketRegime{
		Trend:      models.TrendSideways,
		Volatility: models.LevelMedium,
		Volume:     models.LevelMedium,
	}
	if len(candles) < 2 {
		return out
	}

	closes := indicator.Closes(candles)

	slope := normalizedSlope(tail(closes, trendWindow))
	out.TrendSlope = slope
	switch {
	case slope > slopeEpsilon:
		out.Trend = models.TrendBullish
	case slope < -slopeEpsilon:
		out.Trend = models.TrendBearish
	}

	rets := indicator.Returns(tail(closes, volWindow+1))
	sd := indicator.StdDev(rets)
	out.ReturnStdev = sd
	switch {
	case sd < volLowBound:
		out.Volatility = models.LevelLow
	case sd > volHighBound:
		out.Volatility = models.LevelHigh
	}

	ratio := volumeRatio(candles)
	out.VolumeRatio = ratio
	switch {
	case ratio < volumeLowBound:
		out.Volume = models.LevelLow
	case ratio > volumeHighBound:
		out.Volume = models.LevelHigh
	}

	out.Confidence = confidence(slope, ratio)
	return out
}

// normalizedSlope fits price = a + b*index by ordinary least squares
// and returns the slope divided by the mean price, i.e. fractional
// drift per bar.
func normalizedSlope(closes []float64) float64 {
	n := len(closes)
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range closes {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	slope := (fn*sumXY - sumX*sumY) / denom

	mean := sumY / fn
	if mean == 0 {
		return 0
	}
	return slope / mean
}

// volumeRatio compares the latest bar's volume against the average of
// the preceding window.
func volumeRatio(candles []models.Candle) float64 {
	if len(candles) < 2 {
		return 1
	}
	latest := candles[len(candles)-1].Volume
	window := candles[:len(candles)-1]
	if len(window) > volumeWindow {
		window = window[len(window)-volumeWindow:]
	}
	var sum float64
	for _, c := range window {
		sum += c.Volume
	}
	avg := sum / float64(len(window))
	if avg == 0 {
		return 1
	}
	return latest / avg
}

// confidence blends trend strength and volume pressure, capped at 0.95.
func confidence(slope, volumeRatio float64) float64 {
	trendStrength := math.Abs(slope) / (slopeEpsilon * 10)
	if trendStrength > 1 {
		trendStrength = 1
	}
	volumeStrength := volumeRatio / 2
	if volumeStrength > 1 {
		volumeStrength = 1
	}
	c := 0.6*trendStrength + 0.4*volumeStrength
	if c > maxConfidence {
		c = maxConfidence
	}
	return c
}

func tail(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
