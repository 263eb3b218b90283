//go:build wireinject
// +build wireinject

package di

import (
	"FxSignals/internal/dashboard"
	"FxSignals/pkg/config"
	"FxSignals/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up the API server.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideRegistry,
		ProvideMetrics,
		ProvideLocation,

		// Infrastructure clients
		ProvideCache,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideMarketDataSource,
		ProvideSignalPublisher,

		// Use cases
		ProvideIndicators,
		ProvideSignalAggregator,

		// HTTP
		ProvideSignalsHandler,
		ProvideHTTPServer,

		ProvideApp,
	)
	return &server.App{}, nil
}

// InitializeDashboard wires up the polling client.
func InitializeDashboard(cfg *config.Config, onChange dashboard.ChangeFunc) (*dashboard.Refresher, error) {
	wire.Build(
		ProvideLogger,
		ProvideRegistry,
		ProvideMetrics,
		ProvideFetcher,
		ProvideRefresher,
	)
	return &dashboard.Refresher{}, nil
}
