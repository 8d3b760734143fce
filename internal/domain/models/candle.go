package models

import "time"

// Tick is a single observed trade from the upstream feed. Ticks are
// ephemeral: they exist only long enough to update the current candle.
type Tick struct {
	Symbol    string
	Timestamp int64 // unix seconds
	Price     float64
	Size      float64
}

// Candle is an OHLCV bar over one aggregation bucket. Time is the
// bucket start aligned to the interval. A candle is mutable while it
// is the current bar and frozen once finalized.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Bullish reports whether the candle closed above its open.
func (c Candle) Bullish() bool { return c.Close > c.Open }

// Bearish reports whether the candle closed below its open.
func (c Candle) Bearish() bool { return c.Close < c.Open }

// Body returns the absolute open-close distance.
func (c Candle) Body() float64 {
	if c.Close > c.Open {
		return c.Close - c.Open
	}
	return c.Open - c.Close
}

// Range returns the high-low distance.
func (c Candle) Range() float64 { return c.High - c.Low }

// UpperShadow returns the distance from the body top to the high.
func (c Candle) UpperShadow() float64 {
	top := c.Open
	if c.Close > top {
		top = c.Close
	}
	return c.High - top
}

// LowerShadow returns the distance from the low to the body bottom.
func (c Candle) LowerShadow() float64 {
	bottom := c.Open
	if c.Close < bottom {
		bottom = c.Close
	}
	return bottom - c.Low
}

// CandleUpdate is emitted on every tick-driven aggregation step.
// IsFinal marks the bar as frozen: a tick for a later bucket arrived.
type CandleUpdate struct {
	Symbol  string `json:"symbol"`
	Candle  Candle `json:"candle"`
	IsFinal bool   `json:"isFinal"`
}
