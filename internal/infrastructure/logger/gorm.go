package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowThreshold = 200 * time.Millisecond

// GormLogger adapts zap to gorm's logger.Interface and tags each SQL
// line with the request ID from context.
type GormLogger struct {
	zl             *zap.Logger
	level          gormlogger.LogLevel
	slowThreshold  time.Duration
	ignoreNotFound bool
}

// GormLoggerOption configures a GormLogger.
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold overrides the 200ms slow query threshold. Zero
// disables slow query warnings.
func WithSlowThreshold(d time.Duration) GormLoggerOption {
	return func(gl *GormLogger) { gl.slowThreshold = d }
}

// WithIgnoreRecordNotFoundError controls whether ErrRecordNotFound is
// logged as a SQL error. It is ignored by default since repositories
// translate it into domain not-found errors.
func WithIgnoreRecordNotFoundError(ignore bool) GormLoggerOption {
	return func(gl *GormLogger) { gl.ignoreNotFound = ignore }
}

// NewGormLogger builds a gorm logger on top of zl, named "gorm".
func NewGormLogger(zl *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	gl := &GormLogger{
		zl:             zl.Named("gorm"),
		level:          level,
		slowThreshold:  defaultSlowThreshold,
		ignoreNotFound: true,
	}
	for _, opt := range opts {
		opt(gl)
	}
	return gl
}

// LogMode returns a copy of the logger at the given level.
func (gl *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *gl
	cp.level = level
	return &cp
}

// Info implements gormlogger.Interface.
func (gl *GormLogger) Info(_ context.Context, msg string, args ...any) {
	if gl.level >= gormlogger.Info {
		gl.zl.Sugar().Infof(msg, args...)
	}
}

// Warn implements gormlogger.Interface.
func (gl *GormLogger) Warn(_ context.Context, msg string, args ...any) {
	if gl.level >= gormlogger.Warn {
		gl.zl.Sugar().Warnf(msg, args...)
	}
}

// Error implements gormlogger.Interface.
func (gl *GormLogger) Error(_ context.Context, msg string, args ...any) {
	if gl.level >= gormlogger.Error {
		gl.zl.Sugar().Errorf(msg, args...)
	}
}

// Trace logs each statement once it completes. Errors take precedence
// over slow query warnings; ordinary statements only appear when the
// level is Info or higher.
func (gl *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if gl.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}

	switch {
	case err != nil && gl.level >= gormlogger.Error:
		if gl.ignoreNotFound && errors.Is(err, gormlogger.ErrRecordNotFound) {
			return
		}
		gl.zl.Error("SQL Error", append(fields, zap.Error(err))...)

	case gl.slowThreshold > 0 && elapsed > gl.slowThreshold && gl.level >= gormlogger.Warn:
		gl.zl.Warn("Slow SQL", append(fields, zap.Duration("threshold", gl.slowThreshold))...)

	case gl.level >= gormlogger.Info:
		gl.zl.Debug("SQL Query", fields...)
	}
}

// MapGormLogLevel translates the application log level into the
// closest gorm level. The application's debug level maps to gorm Info,
// which is where per-statement tracing turns on.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "warn":
		return gormlogger.Warn
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
