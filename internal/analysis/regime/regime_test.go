package regime

import (
	"math"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
)

func series(n int, price func(i int) float64, volume func(i int) float64) []models.Candle {
	out := make([]models.Candle, n)
	base := time.Unix(0, 0).UTC()
	for i := range out {
		p := price(i)
		out[i] = models.Candle{
			Time:   base.Add(time.Duration(i) * time.Minute),
			Open:   p,
			High:   p + 0.5,
			Low:    p - 0.5,
			Close:  p,
			Volume: volume(i),
		}
	}
	return out
}

func flatVolume(int) float64 { return 100 }

func TestClassifyShortHistoryIsNeutral(t *testing.T) {
	got := Classify(nil)
	if got.Trend != models.TrendSideways || got.Volatility != models.LevelMedium || got.Volume != models.LevelMedium {
		t.Fatalf("expected neutral defaults, got %+v", got)
	}
	if got.Confidence != 0 {
		t.Fatalf("expected zero confidence on empty history, got %v", got.Confidence)
	}
}

func TestClassifyBullishTrend(t *testing.T) {
	candles := series(60, func(i int) float64 { return 100 + float64(i) }, flatVolume)
	got := Classify(candles)
	if got.Trend != models.TrendBullish {
		t.Fatalf("expected bullish trend, got %+v", got)
	}
	if got.TrendSlope <= 0 {
		t.Fatalf("expected positive slope, got %v", got.TrendSlope)
	}
}

func TestClassifyBearishTrend(t *testing.T) {
	candles := series(60, func(i int) float64 { return 200 - float64(i) }, flatVolume)
	got := Classify(candles)
	if got.Trend != models.TrendBearish {
		t.Fatalf("expected bearish trend, got %+v", got)
	}
}

func TestClassifyFlatIsSideways(t *testing.T) {
	candles := series(60, func(int) float64 { return 100 }, flatVolume)
	got := Classify(candles)
	if got.Trend != models.TrendSideways {
		t.Fatalf("expected sideways trend, got %+v", got)
	}
	if got.Volatility != models.LevelLow {
		t.Fatalf("flat series should be low volatility, got %+v", got)
	}
}

func TestClassifyVolatilityLevels(t *testing.T) {
	calm := series(60, func(i int) float64 { return 100 + 0.05*float64(i%2) }, flatVolume)
	if got := Classify(calm); got.Volatility != models.LevelLow {
		t.Fatalf("expected low volatility, got %+v", got)
	}

	wild := series(60, func(i int) float64 { return 100 + 5*float64(i%2) }, flatVolume)
	if got := Classify(wild); got.Volatility != models.LevelHigh {
		t.Fatalf("expected high volatility, got %+v", got)
	}
}

func TestClassifyVolumeLevels(t *testing.T) {
	spike := series(60, func(int) float64 { return 100 }, func(i int) float64 {
		if i == 59 {
			return 500
		}
		return 100
	})
	got := Classify(spike)
	if got.Volume != models.LevelHigh {
		t.Fatalf("expected high volume on spike, got %+v", got)
	}
	if math.Abs(got.VolumeRatio-5) > 1e-9 {
		t.Fatalf("expected ratio 5, got %v", got.VolumeRatio)
	}

	dry := series(60, func(int) float64 { return 100 }, func(i int) float64 {
		if i == 59 {
			return 10
		}
		return 100
	})
	if got := Classify(dry); got.Volume != models.LevelLow {
		t.Fatalf("expected low volume, got %+v", got)
	}
}

func TestConfidenceCapped(t *testing.T) {
	candles := series(60, func(i int) float64 { return 100 * math.Pow(1.01, float64(i)) }, func(i int) float64 {
		if i == 59 {
			return 1000
		}
		return 100
	})
	got := Classify(candles)
	if got.Confidence > maxConfidence {
		t.Fatalf("confidence above cap: %v", got.Confidence)
	}
	if got.Confidence <= 0 {
		t.Fatalf("expected positive confidence, got %v", got.Confidence)
	}
}

func TestNormalizedSlopeZeroDenominator(t *testing.T) {
	if got := normalizedSlope([]float64{100}); got != 0 {
		t.Fatalf("expected 0 for single point, got %v", got)
	}
}
