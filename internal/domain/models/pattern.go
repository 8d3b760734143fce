package models

import "time"

// PatternDirection is the implied direction of a candlestick formation.
type PatternDirection string

const (
	PatternBullish PatternDirection = "bullish"
	PatternBearish PatternDirection = "bearish"
)

// PatternLabel names a recognized candlestick formation.
type PatternLabel string

const (
	PatternDoji             PatternLabel = "doji"
	PatternDragonflyDoji    PatternLabel = "dragonfly_doji"
	PatternGravestoneDoji   PatternLabel = "gravestone_doji"
	PatternLongLeggedDoji   PatternLabel = "long_legged_doji"
	PatternHammer           PatternLabel = "hammer"
	PatternShootingStar     PatternLabel = "shooting_star"
	PatternBullishEngulfing PatternLabel = "bullish_engulfing"
	PatternBearishEngulfing PatternLabel = "bearish_engulfing"
	PatternMorningStar      PatternLabel = "morning_star"
	PatternEveningStar      PatternLabel = "evening_star"
)

// PatternMatch is a detected formation at a candle time. Confidence is
// a heuristic score in [0,100]. At most one match survives per
// (Time, Label) pair.
type PatternMatch struct {
	Time       time.Time        `json:"time"`
	Label      PatternLabel     `json:"label"`
	Direction  PatternDirection `json:"direction"`
	Confidence float64          `json:"confidence"`
}
