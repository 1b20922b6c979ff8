package telemetry

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestMeterProviderDisabledIsUsable(t *testing.T) {
	ctx := context.Background()

	mp, err := NewMeterProvider(ctx, MetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	// Instruments created on the fallback meter record without error.
	requests, err := NewRequestMetrics(mp.Meter("test"))
	require.NoError(t, err)
	requests.Record(ctx, http.MethodGet, "/api/v1/contacts", http.StatusOK, 25*time.Millisecond)

	jobs, err := NewJobMetrics(mp.Meter("test"))
	require.NoError(t, err)
	jobs.ObserveJob(ctx, "snapshot_refresh", "SUCCESS", 120*time.Millisecond)

	assert.NoError(t, mp.Shutdown(ctx))
}

func TestLoggerProviderDisabledYieldsNopCore(t *testing.T) {
	ctx := context.Background()

	lp, err := NewLoggerProvider(ctx, LogsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	core := lp.ZapCore("test")
	require.NotNil(t, core)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))

	assert.NoError(t, lp.Shutdown(ctx))
}
