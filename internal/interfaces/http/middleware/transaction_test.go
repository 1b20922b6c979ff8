package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingRunner captures how the middleware drives the unit of work.
type recordingRunner struct {
	tenantID   uuid.UUID
	calls      int
	committed  bool
	rolledBack bool
	beginErr   error
}

func (r *recordingRunner) RunAs(ctx context.Context, tenantID uuid.UUID, fn func(ctx context.Context) error) error {
	r.calls++
	r.tenantID = tenantID
	if r.beginErr != nil {
		return r.beginErr
	}
	err := fn(context.WithValue(ctx, txMarkerKey{}, true))
	if err != nil {
		r.rolledBack = true
		return err
	}
	r.committed = true
	return nil
}

type txMarkerKey struct{}

func txRouter(runner TenantTxRunner, tenantID string, handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if tenantID != "" {
			c.Set(TenantIDKey, tenantID)
		}
		c.Next()
	})
	router.Use(TenantTransaction(runner, zap.NewNop()))
	router.GET("/test", handler)
	return router
}

func TestTenantTransaction_WrapsRequestInTenantTx(t *testing.T) {
	runner := &recordingRunner{}
	tenantID := uuid.New()

	router := txRouter(runner, tenantID.String(), func(c *gin.Context) {
		// The handler must observe the transaction-bearing context.
		assert.NotNil(t, c.Request.Context().Value(txMarkerKey{}))
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, tenantID, runner.tenantID)
	assert.True(t, runner.committed)
}

func TestTenantTransaction_RollsBackOnErrorStatus(t *testing.T) {
	runner := &recordingRunner{}

	router := txRouter(runner, uuid.New().String(), func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"success": false})
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.True(t, runner.rolledBack)
	assert.False(t, runner.committed)
}

func TestTenantTransaction_SkipsWithoutTenant(t *testing.T) {
	runner := &recordingRunner{}

	router := txRouter(runner, "", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, runner.calls)
}

func TestTenantTransaction_BeginFailureAnswers500(t *testing.T) {
	runner := &recordingRunner{beginErr: errors.New("connection refused")}

	handlerRan := false
	router := txRouter(runner, uuid.New().String(), func(c *gin.Context) {
		handlerRan = true
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, handlerRan)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}
