package indicator

import (
	"math"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
)

func candlesFromCloses(closes []float64) []models.Candle {
	out := make([]models.Candle, len(closes))
	base := time.Unix(0, 0).UTC()
	for i, c := range closes {
		out[i] = models.Candle{
			Time:   base.Add(time.Duration(i) * time.Minute),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 100,
		}
	}
	return out
}

func TestRSIShortHistoryIsNeutral(t *testing.T) {
	if got := RSI([]float64{100, 101, 102}, 14); got != RSINeutral {
		t.Fatalf("expected neutral 50, got %v", got)
	}
	if got := RSI(nil, 14); got != RSINeutral {
		t.Fatalf("expected neutral 50 on empty input, got %v", got)
	}
}

func TestRSIFlatSeriesIsNeutral(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100
	}
	if got := RSI(closes, 14); got != RSINeutral {
		t.Fatalf("expected 50 on flat series, got %v", got)
	}
}

func TestRSIBounds(t *testing.T) {
	up := make([]float64, 60)
	down := make([]float64, 60)
	for i := range up {
		up[i] = 100 + float64(i)
		down[i] = 200 - float64(i)
	}
	mixed := make([]float64, 60)
	for i := range mixed {
		mixed[i] = 100 + float64(i%7) - float64(i%3)
	}
	for _, closes := range [][]float64{up, down, mixed} {
		got := RSI(closes, 14)
		if got < 0 || got > 100 {
			t.Fatalf("RSI out of [0,100]: %v", got)
		}
	}
	if got := RSI(up, 14); got != 100 {
		t.Fatalf("expected 100 for monotonic gains, got %v", got)
	}
	if got := RSI(down, 14); got != 0 {
		t.Fatalf("expected 0 for monotonic losses, got %v", got)
	}
}

func TestZone(t *testing.T) {
	if Zone(20) != models.ZoneOversold {
		t.Fatalf("expected oversold")
	}
	if Zone(80) != models.ZoneOverbought {
		t.Fatalf("expected overbought")
	}
	if Zone(50) != models.ZoneNeutral {
		t.Fatalf("expected neutral")
	}
}

func TestSMAKnownValues(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4, 5}, 3)
	want := []float64{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("sma[%d]: expected %v got %v", i, want[i], got[i])
		}
	}
}

func TestSMAShortHistory(t *testing.T) {
	if got := SMA([]float64{1, 2}, 3); got != nil {
		t.Fatalf("expected nil for short history, got %v", got)
	}
}

func TestEMASeededWithSimpleAverage(t *testing.T) {
	got := EMA([]float64{2, 4, 6, 8}, 3)
	if len(got) != 2 {
		t.Fatalf("expected 2 values, got %d", len(got))
	}
	// Seed = mean(2,4,6) = 4; next = 8*0.5 + 4*0.5 = 6.
	if math.Abs(got[0]-4) > 1e-9 {
		t.Fatalf("expected seed 4, got %v", got[0])
	}
	if math.Abs(got[1]-6) > 1e-9 {
		t.Fatalf("expected 6, got %v", got[1])
	}
}

func TestMACDHistogramIdentity(t *testing.T) {
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/9) + float64(i)/15
	}
	samples := MACD(candlesFromCloses(closes), MACDFast, MACDSlow, MACDSignal)
	if len(samples) == 0 {
		t.Fatalf("expected MACD samples")
	}
	for i, s := range samples {
		if math.Abs(s.Histogram-(s.Line-s.Signal)) > 1e-12 {
			t.Fatalf("sample %d: histogram %v != line-signal %v", i, s.Histogram, s.Line-s.Signal)
		}
	}
}

func TestMACDShortHistoryEmpty(t *testing.T) {
	candles := candlesFromCloses(make([]float64, MACDSlow+MACDSignal-1))
	if got := MACD(candles, MACDFast, MACDSlow, MACDSignal); got != nil {
		t.Fatalf("expected nil for short history")
	}
}

func TestBollingerConstantSeries(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
	}
	samples := Bollinger(candlesFromCloses(closes), BollingerPeriod, BollingerK)
	if len(samples) != 11 {
		t.Fatalf("expected 11 samples, got %d", len(samples))
	}
	for _, s := range samples {
		if s.Middle != 100 || s.Upper != 100 || s.Lower != 100 {
			t.Fatalf("constant series should collapse bands: %+v", s)
		}
	}
}

func TestBollingerOrdering(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i%5)
	}
	for _, s := range Bollinger(candlesFromCloses(closes), BollingerPeriod, BollingerK) {
		if s.Upper < s.Middle || s.Middle < s.Lower {
			t.Fatalf("band ordering violated: %+v", s)
		}
	}
}

func TestVWAP(t *testing.T) {
	candles := []models.Candle{
		{High: 11, Low: 9, Close: 10, Volume: 100},
		{High: 21, Low: 19, Close: 20, Volume: 300},
	}
	// typical prices 10 and 20, weighted 1:3 -> 17.5
	if got := VWAP(candles); math.Abs(got-17.5) > 1e-9 {
		t.Fatalf("expected 17.5, got %v", got)
	}
	if got := VWAP(nil); got != 0 {
		t.Fatalf("expected 0 on empty window, got %v", got)
	}
}

func TestStdDev(t *testing.T) {
	if got := StdDev([]float64{2, 2, 2}); got != 0 {
		t.Fatalf("expected 0 stdev, got %v", got)
	}
	got := StdDev([]float64{1, 3})
	if math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected 1, got %v", got)
	}
}
