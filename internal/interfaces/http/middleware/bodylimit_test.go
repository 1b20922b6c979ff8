package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func bodyLimitRouter(maxBytes int64) *gin.Engine {
	router := gin.New()
	router.Use(BodyLimit(maxBytes))
	router.POST("/test", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.AbortWithStatus(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})
	return router
}

func TestBodyLimit_UnderLimit(t *testing.T) {
	router := bodyLimitRouter(64)

	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader("small body"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBodyLimit_DeclaredLengthTooLarge(t *testing.T) {
	router := bodyLimitRouter(8)

	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader("this body is too large"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "REQUEST_TOO_LARGE")
}

func TestBodyLimit_ChunkedBodyCapped(t *testing.T) {
	router := bodyLimitRouter(8)

	// No Content-Length, so the declared-size check cannot catch it.
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader("this body is too large"))
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
