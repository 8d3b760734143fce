package models

import "time"

// IndicatorSample is a single derived value at a candle time.
type IndicatorSample struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// MACDSample holds the MACD line, signal line, and histogram at one
// candle time. Histogram is always Line - Signal.
type MACDSample struct {
	Time      time.Time `json:"time"`
	Line      float64   `json:"line"`
	Signal    float64   `json:"signal"`
	Histogram float64   `json:"histogram"`
}

// BollingerSample holds the three Bollinger Band values at one candle time.
type BollingerSample struct {
	Time   time.Time `json:"time"`
	Upper  float64   `json:"upper"`
	Middle float64   `json:"middle"`
	Lower  float64   `json:"lower"`
}

// IndicatorZone classifies an oscillator reading.
type IndicatorZone string

const (
	ZoneOversold   IndicatorZone = "oversold"
	ZoneOverbought IndicatorZone = "overbought"
	ZoneNeutral    IndicatorZone = "neutral"
)
