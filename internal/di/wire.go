//go:build wireinject
// +build wireinject

package di

import (
	"FinScore/internal/usecase"
	"FinScore/pkg/config"
	"FinScore/pkg/server"

	"github.com/google/wire"
)

var infraSet = wire.NewSet(
	ProvideLogger,
	ProvideRegistry,
	ProvideMetrics,
	ProvideFMPClient,
	ProvideCache,
	ProvideClickHouseClient,
	ProvideDataSources,
)

var engineSet = wire.NewSet(
	ProvideUniverseStore,
	ProvideComposer,
	ProvideFundamentalScorer,
	ProvideBatcher,
	ProvideMomentumScanner,
	ProvideFundamentalScreener,
	ProvideIndicatorService,
	usecase.NewEngine,
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		infraSet,
		engineSet,

		// Outputs
		ProvideKafkaProducer,
		ProvideScanStream,
		ProvideScanPublisher,

		// Transports
		ProvideHTTPHandler,
		ProvideHTTPServer,
		ProvideKafkaConsumer,
		ProvideKafkaScanHandler,
		ProvideScheduler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil, nil
}

// InitializeEngine wires the scoring engine alone, for one-shot commands.
func InitializeEngine(cfg *config.Config) (*usecase.Engine, func(), error) {
	wire.Build(
		infraSet,
		engineSet,
		ProvideNoScanPublisher,
	)
	return &usecase.Engine{}, nil, nil
}
