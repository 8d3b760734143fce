package di

import (
	"context"
	"fmt"
	"time"

	"MarketPulse/internal/handler/api"
	mid "MarketPulse/internal/middleware"
	internalrepo "MarketPulse/internal/repository"
	"MarketPulse/internal/service/feed"
	"MarketPulse/internal/strategy"
	"MarketPulse/internal/usecase"
	"MarketPulse/pkg/cache"
	pkgch "MarketPulse/pkg/clickhouse"
	"MarketPulse/pkg/config"
	xhttp "MarketPulse/pkg/http"
	pkgkafka "MarketPulse/pkg/kafka"
	applogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/metrics"
	"MarketPulse/pkg/server"

	drepo "MarketPulse/internal/domain/repository"
	"MarketPulse/internal/market"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client and prepares the
// candle schema. Returns nil when the archive is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.SchemaStatements(cfg.ClickHouse.Database, cfg.ClickHouse.Table)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideCandleArchive creates the candle archive over ClickHouse.
// Nil when the archive is disabled; the pipeline degrades to
// ring-buffer-only history.
func ProvideCandleArchive(client *pkgch.Client, cfg *config.Config) drepo.CandleArchive {
	if client == nil {
		return nil
	}
	table := cfg.ClickHouse.Database + "." + cfg.ClickHouse.Table
	return internalrepo.NewClickHouseArchive(client.DB(), table)
}

// ProvideKafkaProducer creates a Kafka producer. Nil when eventing is
// disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideEventPublisher creates the candle/signal event publisher.
func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) drepo.EventPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.CandleTopic, cfg.Kafka.SignalTopic)
}

// ProvideCacheStore creates the query cache. Redis when configured, an
// in-process LRU otherwise. A Redis connection failure downgrades to
// memory rather than failing startup.
func ProvideCacheStore(cfg *config.Config, log *applogger.Logger) cache.Store {
	if cfg.Redis.Enabled {
		store, err := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err == nil {
			return store
		}
		log.Warn("redis unavailable, using memory cache", applogger.Error(err))
	}
	return cache.NewMemory(0, 0)
}

// ProvideBook creates the per-symbol candle book.
func ProvideBook(cfg *config.Config) *market.Book {
	return market.NewBook(cfg.Aggregation.Interval, cfg.Aggregation.BufferSize)
}

// ProvideSignalStore creates the active/closed signal store.
func ProvideSignalStore() *usecase.SignalStore {
	return usecase.NewSignalStore()
}

// ProvideTracker creates the strategy performance tracker.
func ProvideTracker() *strategy.Tracker {
	return strategy.NewTracker()
}

// ProvideGenerator creates the signal generator from config.
func ProvideGenerator(cfg *config.Config, tracker *strategy.Tracker, log *applogger.Logger) *strategy.Generator {
	return strategy.NewGenerator(strategy.Params{
		TTL:                cfg.Signals.TTL,
		MaxActivePerSymbol: cfg.Signals.MaxActivePerSymbol,
		MinScore:           cfg.Signals.MinScore,
		ConfidenceMin:      cfg.Signals.ConfidenceMin,
		ConfidenceMax:      cfg.Signals.ConfidenceMax,
		WinRateWeight:      cfg.Signals.Weights.WinRate,
		ScoreWeight:        cfg.Signals.Weights.Score,
		RegimeWeight:       cfg.Signals.Weights.Regime,
		SharpeWeight:       cfg.Signals.Weights.Sharpe,
	}, tracker, log)
}

// ProvideMarketService creates the core tick-to-signal service.
func ProvideMarketService(
	book *market.Book,
	store *usecase.SignalStore,
	tracker *strategy.Tracker,
	generator *strategy.Generator,
	publisher drepo.EventPublisher,
	archive drepo.CandleArchive,
	m drepo.Metrics,
	log *applogger.Logger,
) *usecase.MarketService {
	return usecase.NewMarketService(book, store, tracker, generator, publisher, archive, m, log)
}

// ProvideCollectors builds one feed connector and tick collector per
// configured symbol. Each connector owns a websocket client and a
// synthetic fallback for that symbol.
func ProvideCollectors(cfg *config.Config, svc *usecase.MarketService, m drepo.Metrics, log *applogger.Logger) []*usecase.TickCollector {
	collectors := make([]*usecase.TickCollector, 0, len(cfg.Feed.Symbols))
	for i, symbol := range cfg.Feed.Symbols {
		primary := feed.NewClient(feed.Options{
			URL:               cfg.Feed.WebSocketURL,
			APIKey:            cfg.Feed.APIKey,
			Symbols:           []string{symbol},
			HeartbeatInterval: cfg.Feed.HeartbeatInterval,
			PongTimeout:       cfg.Feed.PongTimeout,
		}, log)
		fallback := feed.NewSynthetic([]string{symbol}, 0, time.Now().UnixNano()+int64(i), log)
		backoff := &feed.Backoff{Base: cfg.Feed.BackoffBase, Cap: cfg.Feed.BackoffCap}
		connector := feed.NewConnector(symbol, primary, fallback, backoff, cfg.Feed.MaxReconnects, m, log)

		pipe := mid.NewTickPipeline(svc, m)
		collectors = append(collectors, usecase.NewTickCollector(connector, pipe, log))
	}
	return collectors
}

// ProvideScheduler creates the periodic signal generation loop.
func ProvideScheduler(cfg *config.Config, svc *usecase.MarketService, log *applogger.Logger) *usecase.SignalScheduler {
	return usecase.NewSignalScheduler(svc, cfg.Signals.Interval, log)
}

// ProvideCandlesUseCase creates the candle query use case.
func ProvideCandlesUseCase(book *market.Book, archive drepo.CandleArchive, store cache.Store, cfg *config.Config, log *applogger.Logger) *usecase.CandlesUseCase {
	return usecase.NewCandlesUseCase(book, archive, store, cfg.Redis.CacheTTL, log)
}

// ProvideSignalsUseCase creates the signal feed use case.
func ProvideSignalsUseCase(store *usecase.SignalStore, tracker *strategy.Tracker) *usecase.SignalsUseCase {
	return usecase.NewSignalsUseCase(store, tracker)
}

// ProvideHTTPHandler creates the HTTP route handler.
func ProvideHTTPHandler(log *applogger.Logger, candles *usecase.CandlesUseCase, signals *usecase.SignalsUseCase, svc *usecase.MarketService) xhttp.Handler {
	return api.NewMarketHandler(log, candles, signals, svc)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	collectors []*usecase.TickCollector,
	scheduler *usecase.SignalScheduler,
	handler xhttp.Handler,
	producer *pkgkafka.Producer,
	chClient *pkgch.Client,
	cacheStore cache.Store,
) *server.App {
	return server.New(cfg, log, collectors, scheduler, handler, producer, chClient, cacheStore)
}
