// Package middleware provides HTTP middleware for the CRM API.
package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Header values land in trace attributes, so they are capped and
// validated before use.
const (
	// MaxRequestIDLength caps request IDs taken from headers.
	MaxRequestIDLength = 128
	// MaxTenantIDLength caps tenant IDs taken from headers.
	MaxTenantIDLength = 64
)

var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	// ServiceName identifies this service in trace backends.
	ServiceName string
	// Enabled turns the middleware into a no-op when false.
	Enabled bool
}

// DefaultTracingConfig enables tracing under the default service name.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{ServiceName: "elevatecrm-backend", Enabled: true}
}

// Tracing returns the tracing middleware with default configuration.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig returns OpenTelemetry tracing middleware. It wraps
// otelgin, which names spans "METHOD route_pattern", and then tags the
// span with request_id, tenant_id and user_id where those are known.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	otelMiddleware := otelgin.Middleware(cfg.ServiceName)
	return func(c *gin.Context) {
		otelMiddleware(c)

		// otelgin has created the span at this point.
		if span := trace.SpanFromContext(c.Request.Context()); span.IsRecording() {
			tagSpanIdentity(c, span)
		}
	}
}

// tagSpanIdentity records the request's identity attributes on span.
func tagSpanIdentity(c *gin.Context, span trace.Span) {
	attrs := make([]attribute.KeyValue, 0, 3)
	if requestID := traceRequestID(c); requestID != "" {
		attrs = append(attrs, attribute.String("request_id", requestID))
	}
	if tenantID := traceTenantID(c); tenantID != "" {
		attrs = append(attrs, attribute.String("tenant_id", tenantID))
	}
	if userID := traceUserID(c); userID != "" {
		attrs = append(attrs, attribute.String("user_id", userID))
	}
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
}

// traceRequestID prefers the ID set by the RequestID middleware and
// falls back to the header, truncated to the cap.
func traceRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	headerID := c.GetHeader("X-Request-ID")
	if len(headerID) > MaxRequestIDLength {
		headerID = headerID[:MaxRequestIDLength]
	}
	return headerID
}

// traceTenantID prefers the JWT claim. The X-Tenant-ID header is only
// trusted when it parses as a UUID, since it feeds trace attributes.
func traceTenantID(c *gin.Context) string {
	if id := c.GetString(JWTTenantIDKey); id != "" {
		return id
	}
	headerID := c.GetHeader("X-Tenant-ID")
	if headerID == "" || len(headerID) > MaxTenantIDLength || !uuidRegex.MatchString(headerID) {
		return ""
	}
	return headerID
}

func traceUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

// SpanErrorMarker marks the span of any 4xx or 5xx response with error
// status. Mount it after the Tracing middleware.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}
		span.SetStatus(codes.Error, errorStatusText(status))
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
}

func errorStatusText(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "Internal Server Error"
	case status == http.StatusUnauthorized:
		return "Unauthorized"
	case status == http.StatusForbidden:
		return "Forbidden"
	case status == http.StatusNotFound:
		return "Not Found"
	default:
		return "Client Error"
	}
}

// TracingAttributeInjector re-tags the current span once authentication
// has populated the gin context. Mount it after both the Tracing and
// JWT middlewares so tenant and user attributes are present on spans
// for authenticated requests.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		if span := trace.SpanFromContext(c.Request.Context()); span.IsRecording() {
			tagSpanIdentity(c, span)
		}
		c.Next()
	}
}
