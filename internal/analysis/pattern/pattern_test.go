package pattern

import (
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
)

func at(i int) time.Time {
	return time.Unix(int64(i)*60, 0).UTC()
}

// neutral is a filler candle with a full body that matches no pattern.
func neutral(i int, base float64) models.Candle {
	return models.Candle{
		Time: at(i), Open: base, High: base + 10, Low: base - 1, Close: base + 9, Volume: 1,
	}
}

func TestDetectRequiresThreeCandles(t *testing.T) {
	candles := []models.Candle{
		{Time: at(0), Open: 100, High: 101, Low: 99, Close: 100.05},
		{Time: at(1), Open: 100, High: 101, Low: 99, Close: 100.05},
	}
	if got := Detect(candles); got != nil {
		t.Fatalf("expected nil below three candles, got %v", got)
	}
}

func TestBullishEngulfing(t *testing.T) {
	candles := []models.Candle{
		neutral(0, 100),
		// Bearish body 104 -> 101.
		{Time: at(1), Open: 104, High: 104.5, Low: 100.5, Close: 101, Volume: 1},
		// Bullish body 100.5 -> 105 fully containing the prior body.
		{Time: at(2), Open: 100.5, High: 105.5, Low: 100, Close: 105, Volume: 1},
	}

	matches := Detect(candles)
	var found *models.PatternMatch
	for i := range matches {
		if matches[i].Label == models.PatternBullishEngulfing {
			found = &matches[i]
		}
	}
	if found == nil {
		t.Fatalf("expected bullish engulfing, got %v", matches)
	}
	if found.Direction != models.PatternBullish {
		t.Fatalf("expected bullish direction")
	}
	if found.Confidence < 50 || found.Confidence > 90 {
		t.Fatalf("confidence out of [50,90]: %v", found.Confidence)
	}
	if !found.Time.Equal(at(2)) {
		t.Fatalf("match should carry the engulfing candle's time")
	}
}

func TestBearishEngulfing(t *testing.T) {
	candles := []models.Candle{
		neutral(0, 100),
		{Time: at(1), Open: 101, High: 104.5, Low: 100.5, Close: 104, Volume: 1},
		{Time: at(2), Open: 104.5, High: 105, Low: 100, Close: 100.5, Volume: 1},
	}
	matches := Detect(candles)
	for _, m := range matches {
		if m.Label == models.PatternBearishEngulfing && m.Direction == models.PatternBearish {
			return
		}
	}
	t.Fatalf("expected bearish engulfing, got %v", matches)
}

func TestDojiVariants(t *testing.T) {
	cases := []struct {
		name   string
		candle models.Candle
		label  models.PatternLabel
	}{
		{
			"dragonfly",
			models.Candle{Time: at(1), Open: 100, High: 100.1, Low: 90, Close: 100.05},
			models.PatternDragonflyDoji,
		},
		{
			"gravestone",
			models.Candle{Time: at(1), Open: 100, High: 110, Low: 99.9, Close: 100.05},
			models.PatternGravestoneDoji,
		},
		{
			"long_legged",
			models.Candle{Time: at(1), Open: 100, High: 104.5, Low: 95.5, Close: 100.1},
			models.PatternLongLeggedDoji,
		},
	}
	for _, tc := range cases {
		candles := []models.Candle{neutral(0, 100), tc.candle, neutral(2, 100)}
		matches := Detect(candles)
		found := false
		for _, m := range matches {
			if m.Label == tc.label {
				found = true
				if m.Confidence < 70 || m.Confidence > 80 {
					t.Fatalf("%s: confidence out of [70,80]: %v", tc.name, m.Confidence)
				}
			}
		}
		if !found {
			t.Fatalf("%s: expected %s in %v", tc.name, tc.label, matches)
		}
	}
}

func TestHammerAndShootingStar(t *testing.T) {
	// Hammer: range 10, bullish body 2 at the top, lower shadow 8.
	hammer := models.Candle{Time: at(1), Open: 98, High: 100, Low: 90, Close: 100}
	candles := []models.Candle{neutral(0, 100), hammer, neutral(2, 100)}
	matches := Detect(candles)
	foundHammer := false
	for _, m := range matches {
		if m.Label == models.PatternHammer {
			foundHammer = true
			if m.Confidence != 85 {
				t.Fatalf("bullish hammer should score 85, got %v", m.Confidence)
			}
			if m.Direction != models.PatternBullish {
				t.Fatalf("hammer should be bullish")
			}
		}
	}
	if !foundHammer {
		t.Fatalf("expected hammer in %v", matches)
	}

	// Shooting star: range 10, bearish body 2 at the bottom, upper shadow 8.
	star := models.Candle{Time: at(1), Open: 92, High: 100, Low: 90, Close: 90}
	candles = []models.Candle{neutral(0, 100), star, neutral(2, 100)}
	matches = Detect(candles)
	for _, m := range matches {
		if m.Label == models.PatternShootingStar {
			if m.Direction != models.PatternBearish {
				t.Fatalf("shooting star should be bearish")
			}
			return
		}
	}
	t.Fatalf("expected shooting star in %v", matches)
}

func TestMorningAndEveningStar(t *testing.T) {
	morning := []models.Candle{
		// Large bearish body.
		{Time: at(0), Open: 110, High: 110.5, Low: 99, Close: 100},
		// Small middle body.
		{Time: at(1), Open: 100, High: 101, Low: 98, Close: 100.5},
		// Large bullish body > 60% of the first.
		{Time: at(2), Open: 100.5, High: 110, Low: 100, Close: 109},
	}
	matches := Detect(morning)
	found := false
	for _, m := range matches {
		if m.Label == models.PatternMorningStar {
			found = true
			if m.Confidence != 85 || m.Direction != models.PatternBullish {
				t.Fatalf("unexpected morning star: %+v", m)
			}
		}
	}
	if !found {
		t.Fatalf("expected morning star in %v", matches)
	}

	evening := []models.Candle{
		{Time: at(0), Open: 100, High: 111, Low: 99.5, Close: 110},
		{Time: at(1), Open: 110, High: 112, Low: 109, Close: 110.5},
		{Time: at(2), Open: 110, High: 110.5, Low: 100, Close: 101},
	}
	matches = Detect(evening)
	for _, m := range matches {
		if m.Label == models.PatternEveningStar && m.Direction == models.PatternBearish {
			return
		}
	}
	t.Fatalf("expected evening star in %v", matches)
}

func TestDetectSortedAndDeduped(t *testing.T) {
	doji := models.Candle{Time: at(1), Open: 100, High: 104.5, Low: 95.5, Close: 100.1}
	candles := []models.Candle{neutral(0, 100), doji, neutral(2, 100), neutral(3, 100)}
	matches := Detect(candles)
	type key struct {
		t     int64
		label models.PatternLabel
	}
	seen := make(map[key]bool)
	var prev time.Time
	for i, m := range matches {
		if i > 0 && m.Time.Before(prev) {
			t.Fatalf("matches not sorted by time")
		}
		prev = m.Time
		k := key{m.Time.Unix(), m.Label}
		if seen[k] {
			t.Fatalf("duplicate (time,label): %+v", m)
		}
		seen[k] = true
	}
}
