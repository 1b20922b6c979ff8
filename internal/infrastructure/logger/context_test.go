package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return zap.New(core), recorded
}

// validSpanContext fabricates a sampled remote span so the trace
// helpers have real IDs to extract.
func validSpanContext(t *testing.T) (context.Context, trace.SpanContext) {
	t.Helper()

	traceID, err := trace.TraceIDFromHex("0af7651916cd43dd8448eb211c80319c")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("b7ad6b7169203331")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	return trace.ContextWithSpanContext(context.Background(), sc), sc
}

func TestWithContext_RoundTrip(t *testing.T) {
	log, _ := observedLogger()
	ctx := WithContext(context.Background(), log)

	assert.Same(t, log, FromContext(ctx))
}

func TestFromContext_Missing(t *testing.T) {
	log := FromContext(context.Background())

	require.NotNil(t, log)
	assert.NotPanics(t, func() { log.Info("noop") })
}

func TestIdentityHelpers(t *testing.T) {
	log := zap.NewNop()
	ctx := context.Background()

	ctx, log = WithRequestID(ctx, log, "req-1")
	ctx, log = WithTenantID(ctx, log, "tenant-1")
	ctx, log = WithUserID(ctx, log, "user-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "tenant-1", GetTenantID(ctx))
	assert.Equal(t, "user-1", GetUserID(ctx))
	assert.NotNil(t, log)
}

func TestIdentityHelpers_EmptyContext(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetTenantID(ctx))
	assert.Empty(t, GetUserID(ctx))
}

func TestWithRequestID_StoresEnrichedLogger(t *testing.T) {
	log, recorded := observedLogger()

	ctx, _ := WithRequestID(context.Background(), log, "req-test")
	FromContext(ctx).Info("handled")

	entries := recorded.All()
	require.Len(t, entries, 1)

	var requestID string
	for _, f := range entries[0].Context {
		if f.Key == "request_id" {
			requestID = f.String
		}
	}
	assert.Equal(t, "req-test", requestID)
}

func TestWithRequestID_LastWriteWins(t *testing.T) {
	log := zap.NewNop()
	ctx := context.Background()

	ctx, _ = WithRequestID(ctx, log, "first")
	ctx, _ = WithRequestID(ctx, log, "second")

	assert.Equal(t, "second", GetRequestID(ctx))
}

func TestGetTraceID(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))

	ctx, sc := validSpanContext(t)
	assert.Equal(t, sc.TraceID().String(), GetTraceID(ctx))
}

func TestGetSpanID(t *testing.T) {
	assert.Empty(t, GetSpanID(context.Background()))

	ctx, sc := validSpanContext(t)
	assert.Equal(t, sc.SpanID().String(), GetSpanID(ctx))
}

func TestTraceHelpers_NoopSpanIsInvalid(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")
	ctx, span := tracer.Start(context.Background(), "op")
	defer span.End()

	assert.Empty(t, GetTraceID(ctx))
	assert.Empty(t, GetSpanID(ctx))

	base := zap.NewNop()
	assert.Same(t, base, WithTraceContext(ctx, base))
}

func TestWithTraceContext(t *testing.T) {
	base, recorded := observedLogger()
	ctx, sc := validSpanContext(t)

	WithTraceContext(ctx, base).Info("traced")

	entries := recorded.All()
	require.Len(t, entries, 1)

	fields := map[string]string{}
	for _, f := range entries[0].Context {
		fields[f.Key] = f.String
	}
	assert.Equal(t, sc.TraceID().String(), fields["trace_id"])
	assert.Equal(t, sc.SpanID().String(), fields["span_id"])
}

func TestWithTraceContext_NoSpan(t *testing.T) {
	base := zap.NewNop()
	assert.Same(t, base, WithTraceContext(context.Background(), base))
}

func TestL_UsesContextLogger(t *testing.T) {
	log, recorded := observedLogger()
	ctx := WithContext(context.Background(), log)

	L(ctx).Info("from context")

	require.Len(t, recorded.All(), 1)
}

func TestL_EmptyContextDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		L(context.Background()).Info("noop")
	})
}

func TestWithLogger_UsesProvidedLogger(t *testing.T) {
	log, recorded := observedLogger()

	WithLogger(context.Background(), log).Info("explicit")

	require.Len(t, recorded.All(), 1)
}

func TestContextLogger_InjectsIdentityFields(t *testing.T) {
	log, recorded := observedLogger()

	ctx := context.Background()
	ctx, _ = WithRequestID(ctx, zap.NewNop(), "req-123")
	ctx, _ = WithTenantID(ctx, zap.NewNop(), "tenant-456")
	ctx, _ = WithUserID(ctx, zap.NewNop(), "user-789")

	WithLogger(ctx, log).Info("checkout", zap.String("order_id", "ord-1"))

	entries := recorded.All()
	require.Len(t, entries, 1)

	fields := map[string]string{}
	for _, f := range entries[0].Context {
		fields[f.Key] = f.String
	}
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "tenant-456", fields["tenant_id"])
	assert.Equal(t, "user-789", fields["user_id"])
	assert.Equal(t, "ord-1", fields["order_id"])
}

func TestContextLogger_OmitsAbsentIdentityFields(t *testing.T) {
	log, recorded := observedLogger()

	WithLogger(context.Background(), log).Info("plain")

	entries := recorded.All()
	require.Len(t, entries, 1)
	for _, f := range entries[0].Context {
		assert.NotContains(t, []string{"request_id", "tenant_id", "user_id"}, f.Key)
	}
}

func TestContextLogger_With(t *testing.T) {
	log, recorded := observedLogger()

	WithLogger(context.Background(), log).
		With(zap.String("component", "billing")).
		With(zap.String("stage", "capture")).
		Info("charged")

	entries := recorded.All()
	require.Len(t, entries, 1)

	keys := map[string]bool{}
	for _, f := range entries[0].Context {
		keys[f.Key] = true
	}
	assert.True(t, keys["component"])
	assert.True(t, keys["stage"])
}

func TestContextLogger_NilBase(t *testing.T) {
	cl := &ContextLogger{ctx: context.Background()}

	assert.NotPanics(t, func() {
		cl.Debug("d")
		cl.Info("i")
		cl.Warn("w")
		cl.Error("e")
		cl.With(zap.String("k", "v")).Info("chained")
	})
}

func TestContextLogger_ZapAndSugar(t *testing.T) {
	cl := WithLogger(context.Background(), zap.NewNop())

	require.NotNil(t, cl.Zap())
	require.NotNil(t, cl.Sugar())
	assert.NotPanics(t, func() {
		cl.Zap().Info("zap")
		cl.Sugar().Infof("sugar %d", 1)
	})
}
