package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBConfig controls database instrumentation
type DBConfig struct {
	Trace              bool
	LogFullSQL         bool // include bound variables in spans; never in production
	SlowQueryThreshold time.Duration
	DBSystem           string
}

// DBObserver is a GORM plugin that records query metrics and annotates the
// otelgorm span of each statement with its table, row count and slowness.
type DBObserver struct {
	cfg      DBConfig
	queries  *Counter
	duration *Histogram
	slow     *Counter
	poolReg  metric.Registration
	logger   *zap.Logger
}

// queryStartKey is a statement setting, so it outlives the context swaps
// otelgorm makes around each statement.
const queryStartKey = "db_observer:start"

// InstrumentDB registers otelgorm (when tracing is on) and the metrics
// observer on db. meter may be a no-op meter.
func InstrumentDB(db *gorm.DB, cfg DBConfig, meter metric.Meter, logger *zap.Logger) (*DBObserver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = 200 * time.Millisecond
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = db.Dialector.Name()
	}

	if cfg.Trace {
		opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
		if !cfg.LogFullSQL {
			opts = append(opts, otelgorm.WithoutQueryVariables())
		}
		if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
			return nil, err
		}
	}

	o := &DBObserver{cfg: cfg, logger: logger}
	var err error
	if o.queries, err = NewCounter(meter, "db_query_total", "Database statements by operation", "{query}"); err != nil {
		return nil, err
	}
	if o.duration, err = NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database statement latency",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if o.slow, err = NewCounter(meter, "db_slow_query_total", "Statements slower than the slow query threshold", "{query}"); err != nil {
		return nil, err
	}
	if err := db.Use(o); err != nil {
		return nil, err
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := o.observePool(meter, sqlDB); err != nil {
			return nil, err
		}
	}

	logger.Info("Database instrumentation enabled",
		zap.Bool("trace", cfg.Trace),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThreshold),
		zap.String("db_system", cfg.DBSystem))
	return o, nil
}

// Name implements gorm.Plugin
func (o *DBObserver) Name() string {
	return "finledger:db_observer"
}

// Initialize implements gorm.Plugin
func (o *DBObserver) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	type hook struct {
		op     string
		before func(string, func(*gorm.DB)) error
		after  func(string, func(*gorm.DB)) error
	}
	// after hooks run ahead of otelgorm's, which ends the statement span
	hooks := []hook{
		{"create", cb.Create().Before("gorm:create").Register,
			cb.Create().After("gorm:create").Before("otel:after:create").Register},
		{"query", cb.Query().Before("gorm:query").Register,
			cb.Query().After("gorm:query").Before("otel:after:select").Register},
		{"update", cb.Update().Before("gorm:update").Register,
			cb.Update().After("gorm:update").Before("otel:after:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register,
			cb.Delete().After("gorm:delete").Before("otel:after:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register,
			cb.Row().After("gorm:row").Before("otel:after:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register,
			cb.Raw().After("gorm:raw").Before("otel:after:raw").Register},
	}
	for _, h := range hooks {
		if err := h.before("db_observer:before_"+h.op, o.before); err != nil {
			return err
		}
		if err := h.after("db_observer:after_"+h.op, o.after(h.op)); err != nil {
			return err
		}
	}
	return nil
}

func (o *DBObserver) before(db *gorm.DB) {
	db.InstanceSet(queryStartKey, time.Now())
}

func (o *DBObserver) after(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		attrs := []attribute.KeyValue{AttrDBOperation.String(op), AttrDBTable.String(db.Statement.Table)}
		o.queries.Inc(ctx, attrs...)

		span := trace.SpanFromContext(ctx)
		if span.IsRecording() {
			span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
			if db.Statement.Table != "" {
				span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
			}
			if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
				RecordError(span, db.Error)
			}
		}

		v, ok := db.InstanceGet(queryStartKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(start)
		o.duration.RecordDuration(ctx, elapsed, attrs...)
		if elapsed < o.cfg.SlowQueryThreshold {
			return
		}
		o.slow.Inc(ctx, attrs...)
		if span.IsRecording() {
			span.SetAttributes(attribute.Bool("db.slow_query", true))
			span.AddEvent("slow_query", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", o.cfg.SlowQueryThreshold.Milliseconds()),
			))
		}
	}
}

// observePool reports connection pool usage on every metrics collection
func (o *DBObserver) observePool(meter metric.Meter, sqlDB *sql.DB) error {
	gauge, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Connections in the pool by state"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return err
	}
	reg, err := meter.RegisterCallback(func(_ context.Context, obs metric.Observer) error {
		s := sqlDB.Stats()
		obs.ObserveInt64(gauge, int64(s.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		obs.ObserveInt64(gauge, int64(s.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		obs.ObserveInt64(gauge, int64(s.MaxOpenConnections), metric.WithAttributes(AttrDBState.String("max")))
		return nil
	}, gauge)
	if err != nil {
		return err
	}
	o.poolReg = reg
	return nil
}

// Close stops the pool callback
func (o *DBObserver) Close() error {
	if o.poolReg == nil {
		return nil
	}
	return o.poolReg.Unregister()
}
