package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // Include query variables in spans. Never in production.
	SlowQueryThresh time.Duration
	DBSystem        string
}

// DefaultDBTracingConfig returns default configuration for database tracing
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:         false,
		LogFullSQL:      false,
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "postgresql",
	}
}

// DBTracingPlugin wraps the otelgorm plugin with slow query detection
// and error marking on spans.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a new database tracing plugin
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = DefaultDBTracingConfig().SlowQueryThresh
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

// Register installs otelgorm and the timing callbacks on the GORM
// instance. A no-op when tracing is disabled.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(p.config.DBSystem),
	}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if err := p.registerTimingCallbacks(db); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)
	return nil
}

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// registerTimingCallbacks hooks every GORM operation with a start-time
// marker before, and span enrichment after.
func (p *DBTracingPlugin) registerTimingCallbacks(db *gorm.DB) error {
	before := func(db *gorm.DB) {
		if db.Statement.Context != nil {
			db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
		}
	}

	register := func(op string, before func(*gorm.DB), after func(*gorm.DB)) error {
		var errs []error
		switch op {
		case "create":
			errs = append(errs,
				db.Callback().Create().Before("gorm:create").Register("otel_timing:before_create", before),
				db.Callback().Create().After("gorm:create").Register("otel_timing:after_create", after))
		case "query":
			errs = append(errs,
				db.Callback().Query().Before("gorm:query").Register("otel_timing:before_query", before),
				db.Callback().Query().After("gorm:query").Register("otel_timing:after_query", after))
		case "update":
			errs = append(errs,
				db.Callback().Update().Before("gorm:update").Register("otel_timing:before_update", before),
				db.Callback().Update().After("gorm:update").Register("otel_timing:after_update", after))
		case "delete":
			errs = append(errs,
				db.Callback().Delete().Before("gorm:delete").Register("otel_timing:before_delete", before),
				db.Callback().Delete().After("gorm:delete").Register("otel_timing:after_delete", after))
		case "row":
			errs = append(errs,
				db.Callback().Row().Before("gorm:row").Register("otel_timing:before_row", before),
				db.Callback().Row().After("gorm:row").Register("otel_timing:after_row", after))
		case "raw":
			errs = append(errs,
				db.Callback().Raw().Before("gorm:raw").Register("otel_timing:before_raw", before),
				db.Callback().Raw().After("gorm:raw").Register("otel_timing:after_raw", after))
		}
		return errors.Join(errs...)
	}

	for _, op := range []string{"create", "query", "update", "delete", "row", "raw"} {
		if err := register(op, before, p.afterCallback); err != nil {
			return err
		}
	}
	return nil
}

// afterCallback enriches the active span with row counts and table
// names, marks errors, and flags queries over the slow threshold.
func (p *DBTracingPlugin) afterCallback(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	// Missing rows are an expected outcome, not a span error
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if startTime, ok := ctx.Value(queryStartTimeKey).(time.Time); ok {
		elapsed := time.Since(startTime)
		if elapsed > p.config.SlowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
			))
		}
	}
}
