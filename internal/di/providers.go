package di

import (
	"context"
	"fmt"
	"time"

	"FxSignals/internal/dashboard"
	"FxSignals/internal/domain/repository"
	"FxSignals/internal/domain/service"
	"FxSignals/internal/handler/api"
	internalrepo "FxSignals/internal/repository"
	svcmetrics "FxSignals/internal/service/metrics"
	"FxSignals/internal/service/twelvedata"
	"FxSignals/internal/services/indicators"
	"FxSignals/internal/usecase"
	"FxSignals/pkg/cache"
	pkgch "FxSignals/pkg/clickhouse"
	"FxSignals/pkg/config"
	xhttp "FxSignals/pkg/http"
	pkgkafka "FxSignals/pkg/kafka"
	applogger "FxSignals/pkg/logger"
	"FxSignals/pkg/metrics"
	"FxSignals/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// ProvideLogger creates the structured logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideRegistry creates the Prometheus registry served at /metrics.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) repository.Metrics {
	return metrics.New(reg)
}

// ProvideLocation resolves the server display timezone.
func ProvideLocation(cfg *config.Config) (*time.Location, error) {
	return cfg.Signals.Location()
}

// ProvideCache creates the candle cache, or nil when caching is disabled.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	switch cfg.Cache.Backend {
	case config.CacheMemory:
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MaxSize)), nil
	case config.CacheRedis, config.CacheLayered:
		rc, err := cache.NewRedisCache(context.Background(),
			cache.WithRedisAddr(cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
			cache.WithRedisAuth(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		if cfg.Cache.Backend == config.CacheRedis {
			return rc, nil
		}
		return cache.NewLayeredCache(rc,
			cache.WithLayeredMemorySize(cfg.Cache.MaxSize),
			cache.WithLayeredMemoryTTL(cfg.Cache.TTL),
		), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// ProvideClickHouseClient creates a ClickHouse client when it is the candle source.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Source.Type != config.SourceClickHouse {
		return nil, nil
	}
	client, err := pkgch.NewClient(context.Background(),
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(len(cfg.Signals.Pairs)+2, len(cfg.Signals.Pairs)),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideMarketDataSource selects the candle source and wraps it in the cache when enabled.
func ProvideMarketDataSource(cfg *config.Config, l *applogger.Logger, ch *pkgch.Client, c cache.Service) (repository.MarketDataSource, error) {
	var src repository.MarketDataSource
	switch cfg.Source.Type {
	case config.SourceClickHouse:
		chs, err := internalrepo.NewCHCandleSource(ch, cfg.ClickHouse.Database, cfg.ClickHouse.TablePrefix, cfg.Signals.MinCandles, l)
		if err != nil {
			return nil, err
		}
		stmts, err := chs.Schema(repository.NormalizeInterval(cfg.Signals.Interval))
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := ch.InitSchema(ctx, stmts); err != nil {
			return nil, fmt.Errorf("clickhouse schema: %w", err)
		}
		src = chs
	default:
		src = twelvedata.New(
			cfg.TwelveData.BaseURL,
			cfg.TwelveData.APIKey,
			cfg.Signals.MinCandles,
			xhttp.NewClient(xhttp.WithTimeout(cfg.Signals.FetchTimeout)),
		)
	}

	if c != nil {
		src = internalrepo.NewCachedSource(src, c, cfg.Cache.TTL, l)
	}
	return src, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when the signal feed is disabled.
func ProvideKafkaProducer(cfg *config.Config, reg *prometheus.Registry) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.WriteTimeout),
		pkgkafka.WithHashByKey(true),
		pkgkafka.WithRegisterer(reg),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideSignalPublisher creates the Kafka signal feed publisher.
func ProvideSignalPublisher(cfg *config.Config, producer *pkgkafka.Producer) repository.SignalPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.Topic)
}

// ProvideIndicators returns the indicator implementation.
func ProvideIndicators() service.IndicatorProvider {
	return indicators.NewProvider()
}

// ProvideSignalAggregator creates the aggregation use case.
func ProvideSignalAggregator(
	cfg *config.Config,
	src repository.MarketDataSource,
	ind service.IndicatorProvider,
	m repository.Metrics,
	l *applogger.Logger,
	loc *time.Location,
	pub repository.SignalPublisher,
) *usecase.SignalAggregator {
	var opts []usecase.AggregatorOption
	if pub != nil {
		opts = append(opts, usecase.WithPublisher(pub))
	}
	return usecase.NewSignalAggregator(usecase.AggregatorConfig{
		Pairs:        cfg.Signals.Pairs,
		Interval:     repository.NormalizeInterval(cfg.Signals.Interval),
		OutputSize:   cfg.Signals.OutputSize,
		MinCandles:   cfg.Signals.MinCandles,
		RSIPeriod:    cfg.Signals.RSIPeriod,
		SMAFast:      cfg.Signals.SMAFast,
		SMASlow:      cfg.Signals.SMASlow,
		FetchTimeout: cfg.Signals.FetchTimeout,
		Location:     loc,
		SourceName:   cfg.Source.Type,
	}, src, ind, m, l, opts...)
}

// ProvideSignalsHandler creates the HTTP handler for the signal API.
func ProvideSignalsHandler(l *applogger.Logger, agg *usecase.SignalAggregator, reg *prometheus.Registry) *api.SignalsEchoHandler {
	return api.NewSignalsEchoHandler(l, agg, svcmetrics.NewEndpointMetrics(reg))
}

// ProvideHTTPServer creates the echo server with all routes registered.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, h *api.SignalsEchoHandler, reg *prometheus.Registry) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(reg, reg, cfg.Metrics.Path))
	}
	return xhttp.NewServer(l, []xhttp.Handler{h}, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(
	l *applogger.Logger,
	srv *xhttp.Server,
	ch *pkgch.Client,
	c cache.Service,
	pub repository.SignalPublisher,
) *server.App {
	var resources []server.Resource
	if ch != nil {
		resources = append(resources, server.Resource{Name: "clickhouse", Closer: ch})
	}
	if c != nil {
		resources = append(resources, server.Resource{Name: "cache", Closer: c})
	}
	if pub != nil {
		resources = append(resources, server.Resource{Name: "kafka", Closer: pub})
	}
	return server.New(l, srv, resources...)
}

// ProvideFetcher creates the HTTP client side of the dashboard.
func ProvideFetcher(cfg *config.Config) dashboard.Fetcher {
	client := xhttp.NewClient(
		xhttp.WithTimeout(cfg.Dashboard.RequestTimeout),
		xhttp.WithUserAgent("fxsignals-watch/1.0"),
	)
	return dashboard.NewHTTPFetcher(cfg.Dashboard.URL, client)
}

// ProvideRefresher creates the polling dashboard client.
func ProvideRefresher(cfg *config.Config, f dashboard.Fetcher, l *applogger.Logger, m repository.Metrics, onChange dashboard.ChangeFunc) (*dashboard.Refresher, error) {
	loc, err := cfg.Dashboard.Location()
	if err != nil {
		return nil, err
	}
	return dashboard.NewRefresher(f, l,
		dashboard.WithInterval(cfg.Dashboard.PollInterval),
		dashboard.WithLocation(loc),
		dashboard.WithMetrics(m),
		dashboard.WithOnChange(onChange),
	), nil
}
