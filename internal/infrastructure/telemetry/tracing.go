package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies business spans started by the application
// layer.
const tracerName = "elevatecrm-backend"

// Attribute keys shared by business spans.
const (
	SpanAttrTenantID    = "tenant_id"
	SpanAttrContactID   = "contact_id"
	SpanAttrOrderID     = "order_id"
	SpanAttrOrderNumber = "order_number"
	SpanAttrProductID   = "product_id"
	SpanAttrSKU         = "sku"
	SpanAttrQuantity    = "quantity"
)

// SpanOption configures a span at start time.
type SpanOption func(*spanOptions)

type spanOptions struct {
	attrs []attribute.KeyValue
	kind  trace.SpanKind
}

// WithAttribute attaches one attribute to the span. The value is
// coerced to the closest OpenTelemetry type.
func WithAttribute(key string, value interface{}) SpanOption {
	return func(o *spanOptions) {
		o.attrs = append(o.attrs, coerceAttribute(key, value))
	}
}

// WithSpanKind overrides the default internal span kind.
func WithSpanKind(kind trace.SpanKind) SpanOption {
	return func(o *spanOptions) {
		o.kind = kind
	}
}

// StartSpan opens a business span named {service}.{operation}, e.g.
// "order.confirm" or "forecast.product". The caller ends the span.
func StartSpan(ctx context.Context, spanName string, opts ...SpanOption) (context.Context, trace.Span) {
	o := spanOptions{kind: trace.SpanKindInternal}
	for _, opt := range opts {
		opt(&o)
	}

	start := []trace.SpanStartOption{trace.WithSpanKind(o.kind)}
	if len(o.attrs) > 0 {
		start = append(start, trace.WithAttributes(o.attrs...))
	}
	return otel.GetTracerProvider().Tracer(tracerName).Start(ctx, spanName, start...)
}

// SetAttributes records alternating key/value pairs on span. Keys that
// are not strings are skipped.
func SetAttributes(span trace.Span, keyValues ...interface{}) {
	if span == nil {
		return
	}
	span.SetAttributes(pairsToAttributes(keyValues)...)
}

// RecordError marks span failed and records err on it. Nil errors are
// ignored.
func RecordError(span trace.Span, err error, opts ...trace.EventOption) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err, opts...)
	span.SetStatus(codes.Error, err.Error())
}

func pairsToAttributes(keyValues []interface{}) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(keyValues)/2)
	for i := 0; i+1 < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, coerceAttribute(key, keyValues[i+1]))
	}
	return attrs
}

func coerceAttribute(key string, value interface{}) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
