package models

// TrendDirection is the coarse direction of the recent price drift.
type TrendDirection string

const (
	TrendBullish  TrendDirection = "bullish"
	TrendBearish  TrendDirection = "bearish"
	TrendSideways TrendDirection = "sideways"
)

// Level is a coarse low/medium/high bucket.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// MarketRegime classifies current trend, volatility, and volume
// conditions. It is recomputed per generation cycle and retained only
// as a snapshot inside emitted signals.
type MarketRegime struct {
	Trend      TrendDirection `json:"trend"`
	Volatility Level          `json:"volatility"`
	Volume     Level          `json:"volume"`
	Confidence float64        `json:"confidence"` // [0,1]

	// Raw inputs kept for downstream scoring.
	TrendSlope  float64 `json:"trendSlope"`  // normalized OLS slope per bar
	ReturnStdev float64 `json:"returnStdev"` // stdev of simple returns
	VolumeRatio float64 `json:"volumeRatio"` // latest volume / 20-bar average
}
