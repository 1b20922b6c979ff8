package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/elevatecrm/backend/internal/infrastructure/auth"
	"github.com/elevatecrm/backend/internal/infrastructure/logger"
)

// Gin context keys populated after successful authentication.
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTTenantIDKey = "jwt_tenant_id"
	JWTEmailKey    = "jwt_email"
	JWTRolesKey    = "jwt_roles"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// JWTMiddlewareConfig holds configuration for the JWT middleware.
type JWTMiddlewareConfig struct {
	// JWTService validates tokens. Required.
	JWTService *auth.JWTService
	// TokenBlacklist rejects revoked tokens when set.
	TokenBlacklist auth.TokenBlacklist
	// SkipPaths are exact paths served without authentication.
	SkipPaths []string
	// SkipPathPrefixes are path prefixes served without authentication.
	SkipPathPrefixes []string
	// OnError replaces the default 401 response when set.
	OnError func(c *gin.Context, err error)
	// Logger receives middleware diagnostics.
	Logger *zap.Logger
}

// DefaultJWTConfig leaves health, docs and the credential endpoints
// open and everything else authenticated.
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/metrics",
			"/api/v1/health",
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		SkipPathPrefixes: []string{
			"/swagger",
			"/api-docs",
		},
	}
}

// JWTAuthMiddleware authenticates requests with the default config.
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

// JWTAuthMiddlewareWithConfig validates the bearer token, consults the
// blacklist, and stores the claims in both the gin context and the
// request context.
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authPathSkipped(c.Request.URL.Path, cfg) {
			c.Next()
			return
		}

		token := extractBearerToken(c)
		if token == "" {
			rejectAuth(c, cfg, auth.ErrInvalidToken, "Missing or malformed authorization header")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err != nil {
			rejectAuth(c, cfg, err, "Token validation failed")
			return
		}
		if !passesBlacklist(c, cfg, claims) {
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTTenantIDKey, claims.TenantID)
		c.Set(JWTEmailKey, claims.Email)
		c.Set(JWTRolesKey, claims.Roles)

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithUserID(ctx, log, claims.UserID)
		ctx, _ = logger.WithTenantID(ctx, log, claims.TenantID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func authPathSkipped(path string, cfg JWTMiddlewareConfig) bool {
	for _, skip := range cfg.SkipPaths {
		if path == skip {
			return true
		}
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// passesBlacklist enforces both revocation mechanisms: JTI entries from
// logout and user cutoffs from password changes. Lookup failures are
// logged and ignored, a Redis outage must not lock every user out.
func passesBlacklist(c *gin.Context, cfg JWTMiddlewareConfig, claims *auth.Claims) bool {
	if cfg.TokenBlacklist == nil {
		return true
	}
	ctx := c.Request.Context()

	if claims.ID != "" {
		revoked, err := cfg.TokenBlacklist.IsBlacklisted(ctx, claims.ID)
		switch {
		case err != nil:
			if cfg.Logger != nil {
				cfg.Logger.Error("Failed to check token blacklist",
					zap.String("jti", claims.ID),
					zap.Error(err))
			}
		case revoked:
			rejectAuth(c, cfg, auth.ErrTokenBlacklisted, "Token has been revoked")
			return false
		}
	}

	if claims.UserID != "" {
		invalidated, err := cfg.TokenBlacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
		switch {
		case err != nil:
			if cfg.Logger != nil {
				cfg.Logger.Error("Failed to check user token invalidation",
					zap.String("user_id", claims.UserID),
					zap.Error(err))
			}
		case invalidated:
			rejectAuth(c, cfg, auth.ErrTokenBlacklisted, "User session has been invalidated")
			return false
		}
	}
	return true
}

// extractBearerToken pulls the token out of the Authorization header.
func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(header, BearerPrefix)
}

// authFailure maps a validation error to its API error code and
// user-facing message.
func authFailure(err error) (string, string) {
	switch err {
	case auth.ErrExpiredToken:
		return "TOKEN_EXPIRED", "Token has expired"
	case auth.ErrInvalidToken:
		return "INVALID_TOKEN", "Invalid token"
	case auth.ErrInvalidTokenType:
		return "INVALID_TOKEN_TYPE", "Invalid token type"
	case auth.ErrTokenNotYetValid:
		return "TOKEN_NOT_VALID", "Token is not yet valid"
	case auth.ErrTokenBlacklisted:
		return "TOKEN_REVOKED", "Token has been revoked"
	default:
		return "UNAUTHORIZED", "Authentication required"
	}
}

func rejectAuth(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		return
	}
	if cfg.Logger != nil {
		cfg.Logger.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	code, msg := authFailure(err)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": msg,
		},
	})
}

// RequireRole aborts with 403 unless the authenticated user carries at
// least one of the given roles. Must run after JWTAuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil || !claims.HasAnyRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Insufficient permissions",
				},
			})
			return
		}
		c.Next()
	}
}

// GetJWTClaims returns the validated claims, or nil before auth ran.
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(JWTClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetJWTUserID returns the authenticated user ID, or "".
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

// GetJWTTenantID returns the authenticated tenant ID, or "".
func GetJWTTenantID(c *gin.Context) string {
	return c.GetString(JWTTenantIDKey)
}
