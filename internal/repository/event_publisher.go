package repository

import (
	"context"
	"time"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
	pkgkafka "MarketPulse/pkg/kafka"
)

// KafkaPublisher implements EventPublisher over two topics: candle
// updates and trading signals. Messages are keyed by symbol so
// per-symbol ordering survives partitioning.
type KafkaPublisher struct {
	producer    *pkgkafka.Producer
	candleTopic string
	signalTopic string
}

// NewKafkaPublisher creates the publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, candleTopic, signalTopic string) drepo.EventPublisher {
	return &KafkaPublisher{
		producer:    producer,
		candleTopic: candleTopic,
		signalTopic: signalTopic,
	}
}

type candleEvent struct {
	Symbol  string    `json:"symbol"`
	Time    time.Time `json:"time"`
	Open    float64   `json:"open"`
	High    float64   `json:"high"`
	Low     float64   `json:"low"`
	Close   float64   `json:"close"`
	Volume  float64   `json:"volume"`
	IsFinal bool      `json:"isFinal"`
}

func (p *KafkaPublisher) PublishCandleUpdate(ctx context.Context, u *models.CandleUpdate) error {
	return p.producer.Publish(ctx, p.candleTopic, []byte(u.Symbol), candleEvent{
		Symbol:  u.Symbol,
		Time:    u.Candle.Time,
		Open:    u.Candle.Open,
		High:    u.Candle.High,
		Low:     u.Candle.Low,
		Close:   u.Candle.Close,
		Volume:  u.Candle.Volume,
		IsFinal: u.IsFinal,
	})
}

func (p *KafkaPublisher) PublishSignal(ctx context.Context, s *models.TradingSignal) error {
	return p.producer.Publish(ctx, p.signalTopic, []byte(s.Symbol), s)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
