//go:build wireinject
// +build wireinject

package di

import (
	"MarketPulse/pkg/config"
	"MarketPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideCacheStore,

		// Repositories
		ProvideCandleArchive,
		ProvideEventPublisher,

		// Domain state
		ProvideBook,
		ProvideSignalStore,
		ProvideTracker,
		ProvideGenerator,

		// Use cases
		ProvideMarketService,
		ProvideCollectors,
		ProvideScheduler,
		ProvideCandlesUseCase,
		ProvideSignalsUseCase,

		// HTTP
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
