package di

import (
	"context"
	"fmt"
	"time"

	domrepo "FinScore/internal/domain/repository"
	domsvc "FinScore/internal/domain/service"
	"FinScore/internal/handler/api"
	mid "FinScore/internal/middleware"
	internalrepo "FinScore/internal/repository"
	"FinScore/internal/service/fmp"
	"FinScore/internal/service/ratelimit"
	"FinScore/internal/services/fundamentals"
	"FinScore/internal/services/momentum"
	"FinScore/internal/usecase"
	"FinScore/pkg/cache"
	pkgch "FinScore/pkg/clickhouse"
	"FinScore/pkg/config"
	xhttp "FinScore/pkg/http"
	pkgkafka "FinScore/pkg/kafka"
	applogger "FinScore/pkg/logger"
	"FinScore/pkg/metrics"
	"FinScore/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
)

// DataSources are the decorated market data collaborators.
type DataSources struct {
	Prices       domrepo.PriceHistoryProvider
	Fundamentals domrepo.FundamentalsProvider
	Candidates   domrepo.CandidateSource
}

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideRegistry creates the Prometheus registry shared by every component.
func ProvideRegistry() *prometheus.Registry {
	return metrics.NewRegistry()
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(cfg *config.Config, reg *prometheus.Registry) domrepo.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.Nop{}
	}
	return metrics.New(reg)
}

// ProvideFMPClient creates the market data provider client.
func ProvideFMPClient(cfg *config.Config, l *applogger.Logger, m domrepo.Metrics) *fmp.Client {
	hc := xhttp.NewClient(
		xhttp.WithTimeout(cfg.Provider.Timeout),
		xhttp.WithRetry(cfg.Provider.MaxRetries+1, cfg.Provider.RetryDelay),
	)
	return fmp.New(cfg.Provider.BaseURL, cfg.Provider.APIKey, hc,
		fmp.WithLogger(l.With(applogger.String("component", "fmp"))),
		fmp.WithMetrics(m),
	)
}

// ProvideCache creates the response cache: in-memory, or layered over Redis
// when Redis is enabled. A nil service means caching is off.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.Service, func(), error) {
	if !cfg.Cache.Enabled {
		return nil, func() {}, nil
	}
	if !cfg.Cache.Redis.Enabled {
		mc := cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemoryItems))
		return mc, func() { _ = mc.Close() }, nil
	}

	rc, err := cache.NewRedisCache(
		cache.WithRedis(cfg.Cache.Redis.Addr, cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	lc := cache.NewLayeredCache(rc, cache.WithLayeredMemory(cfg.Cache.MemoryItems, cfg.Cache.L1TTL))
	l.Info("redis cache enabled", applogger.String("addr", cfg.Cache.Redis.Addr))
	return lc, func() {
		if err := lc.Close(); err != nil {
			l.Warn("cache close error", applogger.Error(err))
		}
	}, nil
}

// ProvideClickHouseClient creates a ClickHouse client and the bar archive
// schema. It returns nil when the archive is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, func(), error) {
	if !cfg.ClickHouse.Enabled {
		return nil, func() {}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := pkgch.NewClient(ctx,
		pkgch.WithAddr(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithPool(10, 5, 5*time.Minute),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	if err := client.InitSchema(ctx, pkgch.DailyBarsSchema(cfg.ClickHouse.Database)); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvideDataSources stacks the archive and the cache on top of the provider.
func ProvideDataSources(
	cfg *config.Config,
	upstream *fmp.Client,
	ch *pkgch.Client,
	c cache.Service,
	l *applogger.Logger,
	m domrepo.Metrics,
) DataSources {
	ds := DataSources{Prices: upstream, Fundamentals: upstream, Candidates: upstream}

	if ch != nil {
		store := internalrepo.NewCHBarStore(ch, l)
		ds.Prices = internalrepo.NewArchivedPriceProvider(store, upstream, cfg.ClickHouse.MaxStaleness, l, m)
	}
	if c != nil {
		cp := internalrepo.NewCachedProvider(ds.Prices, ds.Fundamentals, ds.Candidates, c, internalrepo.CacheTTL{
			Price:      cfg.Cache.PriceTTL,
			Metrics:    cfg.Cache.MetricsTTL,
			Candidates: cfg.Cache.CandidateTTL,
		}, l, m)
		ds = DataSources{Prices: cp, Fundamentals: cp, Candidates: cp}
	}
	return ds
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is off.
func ProvideKafkaProducer(cfg *config.Config, reg *prometheus.Registry) (*pkgkafka.Producer, func(), error) {
	if !cfg.Kafka.Enabled {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithDelivery(cfg.Kafka.RequiredAcks, cfg.Kafka.Producer.MaxAttempts, cfg.Kafka.Compression),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
		pkgkafka.WithProducerMetrics(reg),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, func() { _ = producer.Close() }, nil
}

// ProvideScanStream creates the websocket hub for live scans.
func ProvideScanStream(l *applogger.Logger) *api.ScanStream {
	return api.NewScanStream(l.With(applogger.String("component", "scan_stream")))
}

// ProvideScanPublisher fans finished scans out to Kafka and websocket clients.
func ProvideScanPublisher(cfg *config.Config, producer *pkgkafka.Producer, stream *api.ScanStream) domrepo.ScanPublisher {
	pubs := internalrepo.MultiScanPublisher{stream}
	if producer != nil {
		pubs = append(pubs, internalrepo.NewKafkaScanPublisher(producer, cfg.Kafka.ResultTopic))
	}
	return pubs
}

// ProvideNoScanPublisher is used by one-shot runs that print their results.
func ProvideNoScanPublisher() domrepo.ScanPublisher {
	return nil
}

// ProvideUniverseStore serves the configured universes.
func ProvideUniverseStore(cfg *config.Config) domrepo.UniverseStore {
	return internalrepo.NewConfigUniverseStore(cfg.Universes)
}

// ProvideComposer creates the momentum composer with the default strategy.
func ProvideComposer(cfg *config.Config) (*momentum.Composer, error) {
	return momentum.NewComposer(cfg.Scan.Strategy)
}

// ProvideFundamentalScorer returns the default bucket tables.
func ProvideFundamentalScorer() domsvc.FundamentalScorer {
	return fundamentals.NewScorer()
}

// ProvideBatcher paces groups against the provider's rate limit.
func ProvideBatcher(cfg *config.Config) *usecase.Batcher {
	return usecase.NewBatcher(cfg.Scan.BatchSize, ratelimit.TokenBuckets(cfg.Scan.PaceInterval))
}

// ProvideMomentumScanner creates the momentum scan use case.
func ProvideMomentumScanner(
	cfg *config.Config,
	ds DataSources,
	universes domrepo.UniverseStore,
	composer *momentum.Composer,
	batcher *usecase.Batcher,
	pub domrepo.ScanPublisher,
	l *applogger.Logger,
	m domrepo.Metrics,
) *usecase.MomentumScanner {
	var opts []usecase.ScanOption
	if pub != nil {
		opts = append(opts, usecase.WithScanPublisher(pub))
	}
	return usecase.NewMomentumScanner(ds.Prices, universes, composer, batcher, usecase.ScanSettings{
		LookbackDays:    cfg.Scan.LookbackDays,
		MinBars:         cfg.Scan.MinBars,
		DefaultUniverse: cfg.Scan.DefaultUniverse,
	}, l, m, opts...)
}

// ProvideFundamentalScreener creates the fundamental screen use case.
func ProvideFundamentalScreener(
	cfg *config.Config,
	ds DataSources,
	scorer domsvc.FundamentalScorer,
	batcher *usecase.Batcher,
	l *applogger.Logger,
	m domrepo.Metrics,
) *usecase.FundamentalScreener {
	return usecase.NewFundamentalScreener(ds.Candidates, ds.Fundamentals, scorer, batcher, cfg.Scan.CandidatePool, l, m)
}

// ProvideIndicatorService creates the indicators use case.
func ProvideIndicatorService(cfg *config.Config, ds DataSources, l *applogger.Logger) *usecase.IndicatorService {
	return usecase.NewIndicatorService(ds.Prices, cfg.Scan.LookbackDays, l)
}

// ProvideHTTPHandler registers the scoring routes.
func ProvideHTTPHandler(l *applogger.Logger, engine *usecase.Engine, stream *api.ScanStream) xhttp.Handler {
	return api.NewScoringHandler(l, engine, stream)
}

// ProvideHTTPServer creates the echo server with metrics and rate limiting.
func ProvideHTTPServer(cfg *config.Config, h xhttp.Handler, l *applogger.Logger, reg *prometheus.Registry) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(true, cfg.Server.CORSOrigins...),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(reg, cfg.Metrics.Path))
	}
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.NewKeyed(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst, ratelimit.WithIdleTimeout(cfg.RateLimit.IdleTTL))
		opts = append(opts, xhttp.WithMiddleware(mid.RateLimit(limiter, l)))
	}
	return xhttp.NewServer(h, l, opts...)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML, or nil
// when Kafka is off.
func ProvideKafkaConsumer(cfg *config.Config, l *applogger.Logger, reg *prometheus.Registry) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
		pkgkafka.WithConsumerLogger(l),
		pkgkafka.WithConsumerMetrics(reg),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.NewHookChain(pkgkafka.LoggingHook{Log: l}))
	return consumer, nil
}

// ProvideKafkaScanHandler serves scan requests from the request topic.
func ProvideKafkaScanHandler(cfg *config.Config, scanner *usecase.MomentumScanner, l *applogger.Logger, m domrepo.Metrics) *usecase.KafkaScanHandler {
	return usecase.NewKafkaScanHandler(cfg.Kafka.RequestTopic, scanner, l, m)
}

// ProvideScheduler creates the cron scheduler, or nil when it is disabled.
func ProvideScheduler(cfg *config.Config, scanner *usecase.MomentumScanner, c cache.Service, l *applogger.Logger) (*usecase.ScanScheduler, error) {
	if !cfg.Scheduler.Enabled {
		return nil, nil
	}
	var lock usecase.Locker
	if c != nil {
		lock = c
	}
	s := usecase.NewScanScheduler(scanner, cfg.Scheduler.Universes, cfg.Scheduler.Strategy, lock, l)
	if err := s.Register(cfg.Scheduler.Spec); err != nil {
		return nil, err
	}
	return s, nil
}

// ProvideApp assembles the application lifecycle.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaScanHandler,
	sched *usecase.ScanScheduler,
) *server.App {
	opts := []server.Option{server.WithShutdownTimeout(cfg.Server.ShutdownTimeout + 5*time.Second)}
	if consumer != nil {
		opts = append(opts, server.WithConsumer(consumer, kh))
	}
	if sched != nil {
		opts = append(opts, server.WithScheduler(sched))
	}
	return server.New(l, srv, opts...)
}
