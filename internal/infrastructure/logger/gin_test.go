package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// serveLogged runs one GET request through GinMiddleware and returns
// the recorded "HTTP Request" entry.
func serveLogged(t *testing.T, target string, handler gin.HandlerFunc, pre ...gin.HandlerFunc) (*observer.LoggedEntry, *httptest.ResponseRecorder) {
	t.Helper()

	core, recorded := observer.New(zapcore.DebugLevel)
	router := gin.New()
	router.Use(pre...)
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/test", handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(w, req)

	for _, entry := range recorded.All() {
		if entry.Message == "HTTP Request" {
			return &entry, w
		}
	}
	require.FailNow(t, "no HTTP Request entry recorded")
	return nil, w
}

func fieldString(entry *observer.LoggedEntry, key string) (string, bool) {
	for _, f := range entry.Context {
		if f.Key == key {
			return f.String, true
		}
	}
	return "", false
}

func TestGinMiddleware_SuccessIsInfo(t *testing.T) {
	entry, w := serveLogged(t, "/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
}

func TestGinMiddleware_ClientErrorIsWarn(t *testing.T) {
	entry, _ := serveLogged(t, "/test", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad input"})
	})

	assert.Equal(t, zapcore.WarnLevel, entry.Level)
}

func TestGinMiddleware_ServerErrorIsError(t *testing.T) {
	entry, _ := serveLogged(t, "/test", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
	})

	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
}

func TestGinMiddleware_CarriesRequestID(t *testing.T) {
	setID := func(c *gin.Context) {
		c.Set("request_id", "req-test-123")
		c.Next()
	}
	entry, _ := serveLogged(t, "/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	}, setID)

	id, ok := fieldString(entry, "request_id")
	require.True(t, ok)
	assert.Equal(t, "req-test-123", id)
}

func TestGinMiddleware_RecordsQueryString(t *testing.T) {
	entry, _ := serveLogged(t, "/test?q=widget&page=2", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	query, ok := fieldString(entry, "query")
	require.True(t, ok)
	assert.Contains(t, query, "q=widget")
}

func TestGinMiddleware_StandardFields(t *testing.T) {
	entry, _ := serveLogged(t, "/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	keys := make(map[string]bool, len(entry.Context))
	for _, f := range entry.Context {
		keys[f.Key] = true
	}
	for _, want := range []string{"status", "latency", "client_ip", "user_agent", "body_size", "method", "path"} {
		assert.True(t, keys[want], "missing field %s", want)
	}
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	assert.NotPanics(t, func() { router.ServeHTTP(w, req) })

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotEmpty(t, recorded.All())
	assert.Equal(t, "Panic recovered", recorded.All()[0].Message)
}

func TestGetGinLogger(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)

	var got *zap.Logger
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/test", func(c *gin.Context) {
		got = GetGinLogger(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.NotNil(t, got)
}

func TestGetGinLogger_WithoutMiddleware(t *testing.T) {
	var got *zap.Logger
	router := gin.New()
	router.GET("/test", func(c *gin.Context) {
		got = GetGinLogger(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	// Falls back to a usable no-op logger.
	require.NotNil(t, got)
	assert.NotPanics(t, func() { got.Info("noop") })
}
