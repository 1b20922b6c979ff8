package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/elevatecrm/backend/internal/infrastructure/logger"
)

// Gin context keys populated by the tenant middleware.
const (
	TenantIDKey     = "tenant_id"
	TenantCodeKey   = "tenant_code"
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantInfo describes a validated tenant.
type TenantInfo struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
}

// TenantValidator checks that a tenant exists and is active.
type TenantValidator interface {
	ValidateTenant(tenantID string) (*TenantInfo, error)
}

// TenantMiddlewareConfig holds configuration for the tenant middleware.
type TenantMiddlewareConfig struct {
	// HeaderEnabled allows X-Tenant-ID as a tenant source.
	HeaderEnabled bool
	// JWTEnabled reads the tenant from JWT claims. The JWT middleware
	// must run earlier in the chain.
	JWTEnabled bool
	// SubdomainEnabled derives the tenant from the request host.
	SubdomainEnabled bool
	// BaseDomain anchors subdomain extraction, e.g. "elevatecrm.app".
	BaseDomain string
	// SkipPaths bypass tenant resolution entirely.
	SkipPaths []string
	// Required rejects requests that resolve no tenant.
	Required bool
	// Validator optionally verifies the resolved tenant against storage.
	Validator TenantValidator
	// Logger receives middleware diagnostics.
	Logger *zap.Logger
}

// DefaultTenantConfig resolves tenants from JWT claims and the header,
// requires one, and skips the usual unauthenticated endpoints.
func DefaultTenantConfig() TenantMiddlewareConfig {
	return TenantMiddlewareConfig{
		HeaderEnabled: true,
		JWTEnabled:    true,
		SkipPaths: []string{
			"/health", "/healthz", "/ready", "/metrics",
			"/api/v1/health",
			"/api/v1/auth/register", "/api/v1/auth/login", "/api/v1/auth/refresh",
		},
		Required: true,
	}
}

// TenantMiddleware resolves the request's tenant with default
// configuration. Sources are tried in order: JWT claims, then the
// X-Tenant-ID header, then the subdomain.
func TenantMiddleware() gin.HandlerFunc {
	return TenantMiddlewareWithConfig(DefaultTenantConfig())
}

// TenantMiddlewareWithConfig resolves the tenant, validates it, and
// records it both in the gin context and the request context so the
// service layer sees it.
func TenantMiddlewareWithConfig(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tenantPathSkipped(c.Request.URL.Path, cfg.SkipPaths) {
			c.Next()
			return
		}

		tenantID, source := resolveTenant(c, cfg)
		if tenantID == "" {
			if cfg.Required {
				abortUnauthorized(c, "Tenant identification required")
				return
			}
			c.Next()
			return
		}
		if _, err := uuid.Parse(tenantID); err != nil {
			abortUnauthorized(c, "Invalid tenant ID format")
			return
		}

		var info *TenantInfo
		if cfg.Validator != nil {
			var err error
			if info, err = cfg.Validator.ValidateTenant(tenantID); err != nil {
				tenantLog(c, cfg).Warn("Tenant validation failed",
					zap.String("tenant_id", tenantID),
					zap.Error(err),
				)
				abortUnauthorized(c, "Invalid or inactive tenant")
				return
			}
		}

		c.Set(TenantIDKey, tenantID)
		if info != nil {
			c.Set(TenantCodeKey, info.Code)
		}

		// Propagate to the request context for repositories and RLS.
		ctx := c.Request.Context()
		ctx, _ = logger.WithTenantID(ctx, logger.FromContext(ctx), tenantID)
		c.Request = c.Request.WithContext(ctx)

		if cfg.Logger != nil {
			cfg.Logger.Debug("Tenant identified",
				zap.String("tenant_id", tenantID),
				zap.String("source", source),
			)
		}
		c.Next()
	}
}

// resolveTenant tries each enabled source in priority order and reports
// which one supplied the ID.
func resolveTenant(c *gin.Context, cfg TenantMiddlewareConfig) (string, string) {
	if cfg.JWTEnabled {
		if id := c.GetString(JWTTenantIDKey); id != "" {
			return id, "jwt"
		}
	}
	if cfg.HeaderEnabled {
		if id := c.GetHeader(TenantHeaderKey); id != "" {
			return id, "header"
		}
	}
	if cfg.SubdomainEnabled && cfg.BaseDomain != "" {
		if id := tenantFromSubdomain(c.Request.Host, cfg.BaseDomain); id != "" {
			return id, "subdomain"
		}
	}
	return "", ""
}

func tenantPathSkipped(path string, skipPaths []string) bool {
	for _, skip := range skipPaths {
		if path == skip || strings.HasPrefix(path, skip+"/") {
			return true
		}
	}
	return false
}

// tenantFromSubdomain pulls the leftmost label in front of baseDomain,
// so "acme.elevatecrm.app" yields "acme". The bare domain and "www"
// yield nothing.
func tenantFromSubdomain(host, baseDomain string) string {
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}
	if !strings.HasSuffix(host, baseDomain) {
		return ""
	}
	sub := strings.TrimSuffix(host, "."+baseDomain)
	if sub == host || sub == "" || sub == "www" {
		return ""
	}
	return strings.Split(sub, ".")[0]
}

func tenantLog(c *gin.Context, cfg TenantMiddlewareConfig) *zap.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return logger.FromContext(c.Request.Context())
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}

// GetTenantID returns the tenant resolved for this request, or "".
func GetTenantID(c *gin.Context) string {
	return c.GetString(TenantIDKey)
}

// GetTenantUUID returns the resolved tenant as a UUID. A missing
// tenant yields uuid.Nil with no error.
func GetTenantUUID(c *gin.Context) (uuid.UUID, error) {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(tenantID)
}

// GetTenantCode returns the tenant code set by the validator, or "".
func GetTenantCode(c *gin.Context) string {
	return c.GetString(TenantCodeKey)
}
