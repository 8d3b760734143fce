package repository

import (
	"context"
	"time"

	"MarketPulse/internal/domain/models"
)

// MarketStream is a live tick source for one instrument.
type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Tick, <-chan error)
	Close() error
	IsConnected() bool
}

// EventPublisher delivers candle updates and signals to external consumers.
type EventPublisher interface {
	PublishCandleUpdate(ctx context.Context, u *models.CandleUpdate) error
	PublishSignal(ctx context.Context, s *models.TradingSignal) error
	Close() error
}

// CandleArchive persists finalized candles and serves history beyond
// the in-memory ring retention.
type CandleArchive interface {
	Store(ctx context.Context, symbol string, c models.Candle) error
	StoreBatch(ctx context.Context, symbol string, candles []models.Candle) error
	Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Candle, error)
	Health(ctx context.Context) error
	Close() error
}

// Metrics records operational counters and gauges.
type Metrics interface {
	RecordTickIngested(symbol string)
	RecordTickDropped(symbol, reason string)
	RecordCandleFinalized(symbol string)
	RecordSignalEmitted(symbol, strategy string)
	RecordReconnect(symbol string)
	RecordSyntheticMode(symbol string, active bool)
	RecordLastPrice(symbol string, price float64)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
