// Package usecase wires the domain pipeline together: ticks in,
// candles and signals out, queries served from the in-memory state
// with the archive behind it.
package usecase

import (
	"context"
	"time"

	"MarketPulse/internal/analysis/regime"
	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
	"MarketPulse/internal/market"
	"MarketPulse/internal/service/ratelimit"
	"MarketPulse/internal/strategy"
	"MarketPulse/pkg/logger"
)

// MarketService is the core processing state: the candle book, the
// signal store, the performance tracker, and their outbound adapters.
// Publisher and archive are optional; a nil adapter degrades to
// in-memory-only operation.
type MarketService struct {
	book      *market.Book
	signals   *SignalStore
	tracker   *strategy.Tracker
	generator *strategy.Generator
	limiter   *ratelimit.Limiter
	publisher drepo.EventPublisher
	archive   drepo.CandleArchive
	metrics   drepo.Metrics
	log       *logger.Logger
}

func NewMarketService(
	book *market.Book,
	signals *SignalStore,
	tracker *strategy.Tracker,
	generator *strategy.Generator,
	publisher drepo.EventPublisher,
	archive drepo.CandleArchive,
	metrics drepo.Metrics,
	log *logger.Logger,
) *MarketService {
	return &MarketService{
		book:      book,
		signals:   signals,
		tracker:   tracker,
		generator: generator,
		limiter:   ratelimit.New(),
		publisher: publisher,
		archive:   archive,
		metrics:   metrics,
		log:       log,
	}
}

// Process folds one tick into the candle book and fans out the
// resulting updates. Downstream failures are logged and absorbed; the
// tick pipeline never sees them as fatal.
func (s *MarketService) Process(ctx context.Context, t *models.Tick) error {
	updates := s.book.Get(t.Symbol).Ingest(t)
	if updates == nil {
		s.metrics.RecordTickDropped(t.Symbol, "out_of_order")
		return nil
	}

	s.metrics.RecordTickIngested(t.Symbol)
	s.metrics.RecordLastPrice(t.Symbol, t.Price)

	for i := range updates {
		u := &updates[i]
		if s.publisher != nil {
			if err := s.publisher.PublishCandleUpdate(ctx, u); err != nil {
				s.metrics.RecordError("publish_candle")
				s.log.Warn("candle publish failed", logger.String("symbol", u.Symbol), logger.Error(err))
			}
		}
		if u.IsFinal {
			s.onFinalized(ctx, u.Symbol, u.Candle)
		}
	}
	return nil
}

func (s *MarketService) onFinalized(ctx context.Context, symbol string, c models.Candle) {
	s.metrics.RecordCandleFinalized(symbol)

	if s.archive != nil {
		if err := s.archive.Store(ctx, symbol, c); err != nil {
			s.metrics.RecordError("archive_store")
			s.log.Warn("candle archive failed", logger.String("symbol", symbol), logger.Error(err))
		}
	}

	for _, closed := range s.signals.ResolveAgainstCandle(symbol, c) {
		s.tracker.Record(closed)
		s.log.Info("signal closed",
			logger.String("symbol", symbol),
			logger.String("id", closed.Signal.ID),
			logger.String("outcome", string(closed.Outcome)),
			logger.Float64("pnl", closed.ProfitLoss))
	}
}

// GenerateSignals runs one evaluation cycle across all symbols: expire
// stale signals, then ask the generator for new ones subject to the
// per-symbol cap and the emission rate limit.
func (s *MarketService) GenerateSignals(ctx context.Context, now time.Time) {
	for _, closed := range s.signals.SweepExpired(now, s.lastPrice) {
		s.tracker.Record(closed)
	}

	for _, symbol := range s.book.Symbols() {
		candles := s.book.Get(symbol).Snapshot()
		active := s.signals.ActiveCount(symbol, now)

		for _, sig := range s.generator.Evaluate(symbol, candles, active, now) {
			// One emission per cycle per symbol on average, with a small burst allowance.
			if !s.limiter.Allow(symbol, 2, 1.0/300) {
				s.metrics.RecordError("signal_ratelimited")
				continue
			}
			s.signals.Add(sig)
			s.metrics.RecordSignalEmitted(symbol, string(sig.Strategy))
			s.log.Info("signal emitted",
				logger.String("symbol", symbol),
				logger.String("id", sig.ID),
				logger.String("type", string(sig.Type)),
				logger.String("strategy", string(sig.Strategy)),
				logger.Float64("confidence", sig.Confidence))

			if s.publisher != nil {
				if err := s.publisher.PublishSignal(ctx, sig); err != nil {
					s.metrics.RecordError("publish_signal")
					s.log.Warn("signal publish failed", logger.String("symbol", symbol), logger.Error(err))
				}
			}
		}
	}
}

// Regime classifies the current market conditions for a symbol from
// its finalized candle history.
func (s *MarketService) Regime(symbol string) models.MarketRegime {
	return regime.Classify(s.book.Get(symbol).Snapshot())
}

// Book exposes the candle registry to the query layer.
func (s *MarketService) Book() *market.Book { return s.book }

func (s *MarketService) lastPrice(symbol string) (float64, bool) {
	if c, ok := s.book.Get(symbol).Current(); ok {
		return c.Close, true
	}
	hist := s.book.Get(symbol).Snapshot()
	if len(hist) == 0 {
		return 0, false
	}
	return hist[len(hist)-1].Close, true
}
