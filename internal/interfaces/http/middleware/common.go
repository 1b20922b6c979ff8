package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CORSConfig holds CORS middleware configuration.
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// DefaultCORSConfig ships with an empty origin whitelist, so cross
// origin requests are rejected until origins are configured explicitly.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins:     []string{},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Request-ID", "X-Tenant-ID", "Accept", "Origin", "Cache-Control"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// CORS handles cross origin requests with the default configuration.
func CORS() gin.HandlerFunc {
	return CORSWithConfig(DefaultCORSConfig())
}

// CORSWithConfig handles cross origin requests. Preflights are always
// answered with 204 so they never surface as 404s, but CORS headers
// only appear when the origin is allowed.
func CORSWithConfig(cfg CORSConfig) gin.HandlerFunc {
	wildcard := false
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			wildcard = true
			break
		}
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		var allowed string
		switch {
		case len(cfg.AllowOrigins) == 0:
			// Locked down until origins are configured.
		case wildcard:
			allowed = "*"
		case origin != "":
			for _, o := range cfg.AllowOrigins {
				if o == origin {
					allowed = origin
					break
				}
			}
		}

		if allowed != "" {
			writeCORSHeaders(c, cfg, allowed)
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func writeCORSHeaders(c *gin.Context, cfg CORSConfig, allowedOrigin string) {
	h := c.Writer.Header()
	h.Set("Access-Control-Allow-Origin", allowedOrigin)
	// Browsers reject credentialed wildcard responses, so the pair is
	// never emitted together.
	if cfg.AllowCredentials && allowedOrigin != "*" {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
	h.Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowMethods, ", "))
	h.Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowHeaders, ", "))
	if len(cfg.ExposeHeaders) > 0 {
		h.Set("Access-Control-Expose-Headers", strings.Join(cfg.ExposeHeaders, ", "))
	}
	if cfg.MaxAge > 0 {
		h.Set("Access-Control-Max-Age", strconv.Itoa(int(cfg.MaxAge.Seconds())))
	}
}

// RequestID ensures every request carries an ID. Inbound X-Request-ID
// headers are honored; otherwise a fresh UUID is issued. The ID is
// echoed back in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDKey)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Set(RequestIDKey, id)
		c.Writer.Header().Set(RequestIDKey, id)
		c.Next()
	}
}

// SecurityConfig holds configuration for the security header set.
type SecurityConfig struct {
	// HSTSEnabled requires HTTPS in front of the service.
	HSTSEnabled           bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool

	CSPEnabled   bool
	CSPDirective string

	PermissionsPolicyEnabled   bool
	PermissionsPolicyDirective string
}

// DefaultSecurityConfig enables CSP and a restrictive Permissions
// Policy. HSTS stays off until the deployment terminates TLS.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		HSTSEnabled:           false,
		HSTSMaxAge:            31536000,
		HSTSIncludeSubdomains: true,
		HSTSPreload:           false,

		CSPEnabled:   true,
		CSPDirective: "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:; font-src 'self' data:; connect-src 'self'; frame-ancestors 'none'; base-uri 'self'; form-action 'self'",

		PermissionsPolicyEnabled:   true,
		PermissionsPolicyDirective: "accelerometer=(), camera=(), geolocation=(), gyroscope=(), magnetometer=(), microphone=(), payment=(), usb=()",
	}
}

// Secure adds the default security headers to every response.
func Secure() gin.HandlerFunc {
	return SecureWithConfig(DefaultSecurityConfig())
}

// SecureWithConfig adds security headers to every response. The header
// set is computed once at middleware construction.
func SecureWithConfig(cfg SecurityConfig) gin.HandlerFunc {
	headers := map[string]string{
		"X-Frame-Options":        "DENY",
		"X-XSS-Protection":       "1; mode=block",
		"X-Content-Type-Options": "nosniff",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	if cfg.CSPEnabled && cfg.CSPDirective != "" {
		headers["Content-Security-Policy"] = cfg.CSPDirective
	}
	if cfg.HSTSEnabled {
		headers["Strict-Transport-Security"] = hstsHeaderValue(cfg)
	}
	if cfg.PermissionsPolicyEnabled && cfg.PermissionsPolicyDirective != "" {
		headers["Permissions-Policy"] = cfg.PermissionsPolicyDirective
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		for name, value := range headers {
			h.Set(name, value)
		}
		c.Next()
	}
}

func hstsHeaderValue(cfg SecurityConfig) string {
	v := fmt.Sprintf("max-age=%d", cfg.HSTSMaxAge)
	if cfg.HSTSIncludeSubdomains {
		v += "; includeSubDomains"
	}
	if cfg.HSTSPreload {
		v += "; preload"
	}
	return v
}
