package strategy

import "MarketPulse/internal/domain/models"

const (
	levelLookback = 50
	// pivotSpan is the number of neighbors on each side a bar must
	// dominate to count as a swing point.
	pivotSpan = 2
)

// Levels extracts the nearest support (highest swing low below the last
// close) and resistance (lowest swing high above it) from the trailing
// window. Either value is 0 when no qualifying swing exists.
func Levels(candles []models.Candle, lookback int) (support, resistance float64) {
	if len(candles) == 0 {
		return 0, 0
	}
	window := candles
	if len(window) > lookback {
		window = window[len(window)-lookback:]
	}
	price := window[len(window)-1].Close

	for i := pivotSpan; i < len(window)-pivotSpan; i++ {
		if isSwingLow(window, i) {
			low := window[i].Low
			if low < price && low > support {
				support = low
			}
		}
		if isSwingHigh(window, i) {
			high := window[i].High
			if high > price && (resistance == 0 || high < resistance) {
				resistance = high
			}
		}
	}
	return support, resistance
}

func isSwingLow(candles []models.Candle, i int) bool {
	for j := i - pivotSpan; j <= i+pivotSpan; j++ {
		if j == i {
			continue
		}
		if candles[j].Low < candles[i].Low {
			return false
		}
	}
	return true
}

func isSwingHigh(candles []models.Candle, i int) bool {
	for j := i - pivotSpan; j <= i+pivotSpan; j++ {
		if j == i {
			continue
		}
		if candles[j].High > candles[i].High {
			return false
		}
	}
	return true
}
