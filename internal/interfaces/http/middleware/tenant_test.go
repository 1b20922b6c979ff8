package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTenantValidator struct {
	info *TenantInfo
	err  error
}

func (v *stubTenantValidator) ValidateTenant(string) (*TenantInfo, error) {
	return v.info, v.err
}

func tenantTestRouter(cfg TenantMiddlewareConfig) (*gin.Engine, *string, *string) {
	var gotID, gotCode string
	router := gin.New()
	router.Use(TenantMiddlewareWithConfig(cfg))
	router.GET("/test", func(c *gin.Context) {
		gotID = GetTenantID(c)
		gotCode = GetTenantCode(c)
		c.Status(http.StatusOK)
	})
	return router, &gotID, &gotCode
}

func TestTenantMiddleware_FromHeader(t *testing.T) {
	tenantID := uuid.New().String()
	router, gotID, _ := tenantTestRouter(TenantMiddlewareConfig{
		HeaderEnabled: true,
		Required:      true,
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(TenantHeaderKey, tenantID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, tenantID, *gotID)
}

func TestTenantMiddleware_JWTClaimsWinOverHeader(t *testing.T) {
	jwtTenant := uuid.New().String()
	router := gin.New()
	// Simulate the JWT middleware having already run.
	router.Use(func(c *gin.Context) { c.Set(JWTTenantIDKey, jwtTenant) })

	var gotID string
	router.Use(TenantMiddlewareWithConfig(TenantMiddlewareConfig{
		HeaderEnabled: true,
		JWTEnabled:    true,
		Required:      true,
	}))
	router.GET("/test", func(c *gin.Context) {
		gotID = GetTenantID(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(TenantHeaderKey, uuid.New().String())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, jwtTenant, gotID)
}

func TestTenantMiddleware_MissingTenant(t *testing.T) {
	t.Run("required", func(t *testing.T) {
		router, _, _ := tenantTestRouter(TenantMiddlewareConfig{
			HeaderEnabled: true,
			Required:      true,
		})
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Tenant identification required")
	})

	t.Run("optional", func(t *testing.T) {
		router, gotID, _ := tenantTestRouter(TenantMiddlewareConfig{
			HeaderEnabled: true,
		})
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, *gotID)
	})
}

func TestTenantMiddleware_InvalidTenantID(t *testing.T) {
	router, _, _ := tenantTestRouter(TenantMiddlewareConfig{
		HeaderEnabled: true,
		Required:      true,
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(TenantHeaderKey, "not-a-uuid")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid tenant ID format")
}

func TestTenantMiddleware_SkipPaths(t *testing.T) {
	router := gin.New()
	router.Use(TenantMiddlewareWithConfig(TenantMiddlewareConfig{
		HeaderEnabled: true,
		Required:      true,
		SkipPaths:     []string{"/health", "/api/v1/auth"},
	}))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/api/v1/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/api/v1/contacts", func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodPost, "/api/v1/auth/login", http.StatusOK},
		{http.MethodGet, "/api/v1/contacts", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, tc.want, rec.Code, tc.path)
	}
}

func TestTenantMiddleware_Validator(t *testing.T) {
	tenantID := uuid.New()

	t.Run("accepts and sets code", func(t *testing.T) {
		router, gotID, gotCode := tenantTestRouter(TenantMiddlewareConfig{
			HeaderEnabled: true,
			Required:      true,
			Validator:     &stubTenantValidator{info: &TenantInfo{ID: tenantID, Code: "acme"}},
		})
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(TenantHeaderKey, tenantID.String())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, tenantID.String(), *gotID)
		assert.Equal(t, "acme", *gotCode)
	})

	t.Run("rejects inactive tenant", func(t *testing.T) {
		router, _, _ := tenantTestRouter(TenantMiddlewareConfig{
			HeaderEnabled: true,
			Required:      true,
			Validator:     &stubTenantValidator{err: errors.New("tenant suspended")},
		})
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(TenantHeaderKey, tenantID.String())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid or inactive tenant")
	})
}

func TestTenantFromSubdomain(t *testing.T) {
	cases := []struct {
		host string
		want string
	}{
		{"acme.elevatecrm.app", "acme"},
		{"acme.elevatecrm.app:8080", "acme"},
		{"eu.acme.elevatecrm.app", "eu"},
		{"elevatecrm.app", ""},
		{"www.elevatecrm.app", ""},
		{"other.example.com", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tenantFromSubdomain(tc.host, "elevatecrm.app"), tc.host)
	}
}

func TestGetTenantUUID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	id, err := GetTenantUUID(c)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, id)

	want := uuid.New()
	c.Set(TenantIDKey, want.String())
	id, err = GetTenantUUID(c)
	require.NoError(t, err)
	assert.Equal(t, want, id)
}
