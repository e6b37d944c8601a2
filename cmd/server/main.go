// Command server runs the finledger HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appledger "github.com/finledger/backend/internal/application/ledger"
	"github.com/finledger/backend/internal/infrastructure/cache"
	"github.com/finledger/backend/internal/infrastructure/config"
	"github.com/finledger/backend/internal/infrastructure/event"
	"github.com/finledger/backend/internal/infrastructure/logger"
	"github.com/finledger/backend/internal/infrastructure/persistence"
	"github.com/finledger/backend/internal/infrastructure/storage"
	"github.com/finledger/backend/internal/infrastructure/telemetry"
	"github.com/finledger/backend/internal/interfaces/http/handler"
	"github.com/finledger/backend/internal/interfaces/http/middleware"
	"github.com/finledger/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry starts first so the logger can tee into the OTLP logs pipeline
	bootLog, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	providers, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		MetricsEnabled:    cfg.Telemetry.MetricsEnabled,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
		ProfilingEnabled:  cfg.Telemetry.ProfilingEnabled,
		ProfilerAddress:   cfg.Telemetry.ProfilerAddress,
	}, bootLog)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			bootLog.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, providers.ZapCore(logger.ParseLevel(cfg.Telemetry.LogsLevel)))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting finledger",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel),
		logger.WithSlowThreshold(cfg.Database.SlowThreshold))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if db.Driver() == "sqlite" {
		if err := db.AutoMigrate(ctx); err != nil {
			return fmt.Errorf("migrate sqlite schema: %w", err)
		}
	}

	observer, err := telemetry.InstrumentDB(db.DB, telemetry.DBConfig{
		Trace:              cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:         cfg.Telemetry.DBLogFullSQL,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, providers.Meter("finledger/db"), log)
	if err != nil {
		return fmt.Errorf("instrument database: %w", err)
	}
	defer func() { _ = observer.Close() }()
	log.Info("Database connected", zap.String("driver", db.Driver()))

	locker, err := cache.NewSequenceLocker(ctx, cfg.Redis, cache.LockOptions{
		TTL:  cfg.Ledger.LockTTL,
		Wait: cfg.Ledger.LockWait,
	}, cache.WithLogger(log), cache.WithInMemoryFallback(cfg.App.Env != "production"))
	if err != nil {
		return err
	}
	defer func() { _ = locker.Close() }()

	metrics, err := telemetry.NewLedgerMetrics(providers.Meter("finledger/ledger"))
	if err != nil {
		return fmt.Errorf("create ledger metrics: %w", err)
	}

	bus := event.NewInMemoryEventBus(log, event.WithAsyncDispatch(4, 1024))
	bus.Subscribe(metrics)
	archiver, err := newArchiver(ctx, &cfg.Storage, log)
	if err != nil {
		return err
	}
	bus.Subscribe(archiver)
	if err := bus.Start(ctx); err != nil {
		return fmt.Errorf("start event bus: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := bus.Stop(stopCtx); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	svc := appledger.NewService(
		persistence.NewGormSnapshotLoader(db.DB),
		persistence.NewGormPlanExecutor(db.DB),
		appledger.Config{
			BatchSize:            cfg.Ledger.BatchSize,
			RetryMaxAttempts:     cfg.Ledger.RetryMaxAttempts,
			RetryInitialInterval: cfg.Ledger.RetryInitialInterval,
			RetryMaxInterval:     cfg.Ledger.RetryMaxInterval,
		},
		log,
		appledger.WithLocker(locker),
		appledger.WithPublisher(bus),
		appledger.WithAuditRepository(persistence.NewGormAuditLogRepository(db.DB)),
		appledger.WithMetrics(metrics),
	)

	engine, limiter, err := newEngine(cfg, svc, db, providers, log)
	if err != nil {
		return err
	}
	if limiter != nil {
		defer limiter.Stop()
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("Server exited gracefully")
	return nil
}

// newArchiver stores committed plans in S3 when storage is enabled and in
// process memory otherwise
func newArchiver(ctx context.Context, cfg *config.StorageConfig, log *zap.Logger) (*storage.AuditArchiver, error) {
	if !cfg.Enabled {
		log.Info("Audit archive disabled, keeping archived plans in memory")
		return storage.NewAuditArchiver(storage.NewMemoryObjectStorage(), cfg.Prefix, log), nil
	}
	store, err := storage.NewS3ObjectStorage(ctx, cfg, storage.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("create audit archive store: %w", err)
	}
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure audit archive bucket: %w", err)
	}
	log.Info("Audit archive enabled", zap.String("bucket", store.Bucket()), zap.String("prefix", cfg.Prefix))
	return storage.NewAuditArchiver(store, cfg.Prefix, log), nil
}

func newEngine(cfg *config.Config, svc handler.LedgerService, db *persistence.Database, providers *telemetry.Providers, log *zap.Logger) (*gin.Engine, *middleware.RateLimiter, error) {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	httpMetrics, err := middleware.HTTPMetrics(providers.Meter("finledger/http"))
	if err != nil {
		return nil, nil, fmt.Errorf("create http metrics: %w", err)
	}

	// Order matters: the request ID and actor must exist before anything logs
	engine.Use(
		middleware.RequestID(cfg.HTTP.RequestIDHeader, log),
		middleware.Actor(cfg.HTTP.ActorHeader, cfg.HTTP.DefaultActorID),
		logger.Recovery(log),
		middleware.Tracing(cfg.Telemetry.ServiceName),
		middleware.SpanAttributes(),
		logger.GinMiddleware(log),
		httpMetrics,
		middleware.Profiling("/health"),
		middleware.Secure(),
		middleware.CORS(middleware.CORSConfig{
			AllowOrigins: cfg.HTTP.CORSAllowOrigins,
			AllowMethods: cfg.HTTP.CORSAllowMethods,
			AllowHeaders: cfg.HTTP.CORSAllowHeaders,
			MaxAge:       12 * time.Hour,
		}),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.Timeout(cfg.HTTP.RequestTimeout),
	)

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst, 10*time.Minute)
		engine.Use(middleware.RateLimit(limiter))
	}

	system := handler.NewSystemHandler(cfg.App.Name, version, map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
	})
	handlers := router.NewHandlers(svc, handler.Limits{
		MaxBulkItems:      cfg.HTTP.MaxBulkItems,
		MaxAuditPageSize:  cfg.HTTP.MaxAuditPageSize,
		DefaultAuditLimit: cfg.HTTP.DefaultAuditLimit,
	}, system)
	router.Mount(engine, handlers)
	return engine, limiter, nil
}
