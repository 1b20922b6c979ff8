package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ctxKey keeps this package's context values private. Identity values
// live under distinct keys so downstream code (tenant scoping, RLS
// session variables) can read them without going through the logger.
type ctxKey int

const (
	loggerCtxKey ctxKey = iota
	requestIDCtxKey
	tenantIDCtxKey
	userIDCtxKey
)

// WithContext stores the logger in ctx for later FromContext calls.
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// FromContext returns the logger stored in ctx, or a no-op logger when
// none was attached.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerCtxKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

func withIdentity(ctx context.Context, logger *zap.Logger, key ctxKey, field, value string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, key, value)
	logger = logger.With(zap.String(field, value))
	return WithContext(ctx, logger), logger
}

// WithRequestID stores the request ID in ctx and returns a logger that
// tags every entry with it.
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	return withIdentity(ctx, logger, requestIDCtxKey, "request_id", requestID)
}

// WithTenantID stores the tenant ID in ctx and returns a logger that
// tags every entry with it.
func WithTenantID(ctx context.Context, logger *zap.Logger, tenantID string) (context.Context, *zap.Logger) {
	return withIdentity(ctx, logger, tenantIDCtxKey, "tenant_id", tenantID)
}

// WithUserID stores the user ID in ctx and returns a logger that tags
// every entry with it.
func WithUserID(ctx context.Context, logger *zap.Logger, userID string) (context.Context, *zap.Logger) {
	return withIdentity(ctx, logger, userIDCtxKey, "user_id", userID)
}

func identityValue(ctx context.Context, key ctxKey) string {
	value, _ := ctx.Value(key).(string)
	return value
}

// GetRequestID returns the request ID stored in ctx, or "".
func GetRequestID(ctx context.Context) string {
	return identityValue(ctx, requestIDCtxKey)
}

// GetTenantID returns the tenant ID stored in ctx, or "". Tenant
// scoping and row level security read the tenant from here.
func GetTenantID(ctx context.Context) string {
	return identityValue(ctx, tenantIDCtxKey)
}

// GetUserID returns the user ID stored in ctx, or "".
func GetUserID(ctx context.Context) string {
	return identityValue(ctx, userIDCtxKey)
}

// GetTraceID returns the active span's trace ID, or "" when ctx
// carries no valid span.
func GetTraceID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// GetSpanID returns the active span's span ID, or "" when ctx carries
// no valid span.
func GetSpanID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.SpanID().String()
	}
	return ""
}

// WithTraceContext tags the logger with trace_id and span_id from the
// context's span. Without a valid span the logger is returned as is.
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return logger
	}
	return logger.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}

// ContextLogger binds a logger to a context so each entry carries the
// trace and identity fields present at log time.
type ContextLogger struct {
	ctx  context.Context
	base *zap.Logger
}

// L wraps the logger stored in ctx. Typical use:
//
//	logger.L(ctx).Info("order confirmed", zap.String("order_id", id))
//
// Entries are tagged with trace_id, span_id, request_id, tenant_id and
// user_id, whichever are present in ctx.
func L(ctx context.Context) *ContextLogger {
	return &ContextLogger{ctx: ctx, base: FromContext(ctx)}
}

// WithLogger binds an explicit logger instead of the one stored in
// ctx. The context is still consulted for trace and identity fields.
func WithLogger(ctx context.Context, logger *zap.Logger) *ContextLogger {
	return &ContextLogger{ctx: ctx, base: logger}
}

func (cl *ContextLogger) enriched() *zap.Logger {
	l := cl.base
	if l == nil {
		l = zap.NewNop()
	}
	l = WithTraceContext(cl.ctx, l)
	if v := GetRequestID(cl.ctx); v != "" {
		l = l.With(zap.String("request_id", v))
	}
	if v := GetTenantID(cl.ctx); v != "" {
		l = l.With(zap.String("tenant_id", v))
	}
	if v := GetUserID(cl.ctx); v != "" {
		l = l.With(zap.String("user_id", v))
	}
	return l
}

// With returns a child ContextLogger carrying additional fields.
func (cl *ContextLogger) With(fields ...zap.Field) *ContextLogger {
	base := cl.base
	if base == nil {
		base = zap.NewNop()
	}
	return &ContextLogger{ctx: cl.ctx, base: base.With(fields...)}
}

// Debug logs at debug level with context fields attached.
func (cl *ContextLogger) Debug(msg string, fields ...zap.Field) {
	cl.enriched().Debug(msg, fields...)
}

// Info logs at info level with context fields attached.
func (cl *ContextLogger) Info(msg string, fields ...zap.Field) {
	cl.enriched().Info(msg, fields...)
}

// Warn logs at warn level with context fields attached.
func (cl *ContextLogger) Warn(msg string, fields ...zap.Field) {
	cl.enriched().Warn(msg, fields...)
}

// Error logs at error level with context fields attached.
func (cl *ContextLogger) Error(msg string, fields ...zap.Field) {
	cl.enriched().Error(msg, fields...)
}

// Fatal logs at fatal level with context fields attached, then exits.
func (cl *ContextLogger) Fatal(msg string, fields ...zap.Field) {
	cl.enriched().Fatal(msg, fields...)
}

// Panic logs at panic level with context fields attached, then panics.
func (cl *ContextLogger) Panic(msg string, fields ...zap.Field) {
	cl.enriched().Panic(msg, fields...)
}

// Zap returns the enriched *zap.Logger for APIs that take one directly.
func (cl *ContextLogger) Zap() *zap.Logger {
	return cl.enriched()
}

// Sugar returns the enriched logger in sugared form.
func (cl *ContextLogger) Sugar() *zap.SugaredLogger {
	return cl.enriched().Sugar()
}
