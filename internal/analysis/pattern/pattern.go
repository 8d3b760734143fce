// Package pattern classifies single- and multi-candle formations from
// geometric body/shadow ratios. The rules are heuristic; each match
// carries a confidence score in [0,100].
package pattern

import (
	"sort"

	"MarketPulse/internal/domain/models"
)

const (
	dojiBodyMax       = 0.10 // body <= 10% of range
	smallBodyMax      = 0.30 // hammer/star body <= 30% of range
	dominantShadowMin = 0.60 // one-sided shadow >= 60% of range
	minorShadowMax    = 0.10 // opposite shadow <= 10% of range
)

// Detect scans a candle history and returns all matches sorted by time,
// deduplicated per (time, label). Histories shorter than three candles
// return nil.
func Detect(candles []models.Candle) []models.PatternMatch {
	if len(candles) < 3 {
		return nil
	}

	var matches []models.PatternMatch
	for i := range candles {
		matches = append(matches, single(candles[i])...)
		if i >= 1 {
			if m, ok := engulfing(candles[i-1], candles[i]); ok {
				matches = append(matches, m)
			}
		}
		if i >= 2 {
			if m, ok := star(candles[i-2], candles[i-1], candles[i]); ok {
				matches = append(matches, m)
			}
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Time.Before(matches[b].Time)
	})
	return dedupe(matches)
}

func dedupe(matches []models.PatternMatch) []models.PatternMatch {
	type key struct {
		t     int64
		label models.PatternLabel
	}
	seen := make(map[key]bool, len(matches))
	out := matches[:0]
	for _, m := range matches {
		k := key{m.Time.Unix(), m.Label}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, m)
	}
	return out
}

// single classifies one-candle formations: Doji variants, Hammer, and
// Shooting Star.
func single(c models.Candle) []models.PatternMatch {
	rng := c.Range()
	if rng <= 0 {
		return nil
	}
	body := c.Body() / rng
	upper := c.UpperShadow() / rng
	lower := c.LowerShadow() / rng

	if body <= dojiBodyMax {
		label, direction, confidence := classifyDoji(upper, lower)
		return []models.PatternMatch{{
			Time:       c.Time,
			Label:      label,
			Direction:  direction,
			Confidence: confidence,
		}}
	}

	if body <= smallBodyMax {
		if lower >= dominantShadowMin && upper <= minorShadowMax {
			confidence := 75.0
			if c.Bullish() {
				confidence += 10
			}
			return []models.PatternMatch{{
				Time:       c.Time,
				Label:      models.PatternHammer,
				Direction:  models.PatternBullish,
				Confidence: confidence,
			}}
		}
		if upper >= dominantShadowMin && lower <= minorShadowMax {
			confidence := 75.0
			if c.Bearish() {
				confidence += 10
			}
			return []models.PatternMatch{{
				Time:       c.Time,
				Label:      models.PatternShootingStar,
				Direction:  models.PatternBearish,
				Confidence: confidence,
			}}
		}
	}

	return nil
}

func classifyDoji(upper, lower float64) (models.PatternLabel, models.PatternDirection, float64) {
	switch {
	case lower >= dominantShadowMin && upper <= minorShadowMax:
		return models.PatternDragonflyDoji, models.PatternBullish, 80
	case upper >= dominantShadowMin && lower <= minorShadowMax:
		return models.PatternGravestoneDoji, models.PatternBearish, 80
	case upper >= 0.35 && lower >= 0.35:
		return models.PatternLongLeggedDoji, models.PatternBullish, 70
	default:
		return models.PatternDoji, models.PatternBullish, 70
	}
}

// engulfing detects two-candle engulfing reversals: the current body
// must fully contain the prior body and oppose its direction.
func engulfing(prev, cur models.Candle) (models.PatternMatch, bool) {
	if prev.Body() == 0 || cur.Body() == 0 {
		return models.PatternMatch{}, false
	}

	bodyRatio := cur.Body() / prev.Body()
	confidence := 50 + (bodyRatio-1)*20
	if confidence > 90 {
		confidence = 90
	}
	if confidence < 50 {
		confidence = 50
	}

	if prev.Bearish() && cur.Bullish() && cur.Open <= prev.Close && cur.Close >= prev.Open {
		return models.PatternMatch{
			Time:       cur.Time,
			Label:      models.PatternBullishEngulfing,
			Direction:  models.PatternBullish,
			Confidence: confidence,
		}, true
	}
	if prev.Bullish() && cur.Bearish() && cur.Open >= prev.Close && cur.Close <= prev.Open {
		return models.PatternMatch{
			Time:       cur.Time,
			Label:      models.PatternBearishEngulfing,
			Direction:  models.PatternBearish,
			Confidence: confidence,
		}, true
	}
	return models.PatternMatch{}, false
}

// star detects three-candle Morning/Evening Star reversals: a large
// body, a small middle body, then a large opposing body.
func star(first, middle, last models.Candle) (models.PatternMatch, bool) {
	if first.Body() == 0 || last.Body() == 0 {
		return models.PatternMatch{}, false
	}
	if middle.Body() >= first.Body()*0.5 {
		return models.PatternMatch{}, false
	}
	if last.Body() <= first.Body()*0.6 {
		return models.PatternMatch{}, false
	}

	if first.Bearish() && last.Bullish() {
		return models.PatternMatch{
			Time:       last.Time,
			Label:      models.PatternMorningStar,
			Direction:  models.PatternBullish,
			Confidence: 85,
		}, true
	}
	if first.Bullish() && last.Bearish() {
		return models.PatternMatch{
			Time:       last.Time,
			Label:      models.PatternEveningStar,
			Direction:  models.PatternBearish,
			Confidence: 85,
		}, true
	}
	return models.PatternMatch{}, false
}
