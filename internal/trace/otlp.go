package trace

import (
	"context"
	"encoding/hex"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// OTLPExporter exports completed traces to an OTLP/HTTP endpoint.
type OTLPExporter struct {
	provider *sdktrace.TracerProvider
	tracer   oteltrace.Tracer
}

// NewOTLPExporter creates an exporter for endpoint (host:port). It returns
// nil, nil when endpoint is empty, which disables export.
func NewOTLPExporter(ctx context.Context, endpoint, serviceName string, insecure bool) (*OTLPExporter, error) {
	if endpoint == "" {
		return nil, nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
	if insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	if serviceName == "" {
		serviceName = "uikit"
	}
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	return newOTLPExporter(provider), nil
}

func newOTLPExporter(provider *sdktrace.TracerProvider) *OTLPExporter {
	return &OTLPExporter{
		provider: provider,
		tracer:   provider.Tracer("uikit/widget"),
	}
}

// ExportTrace replays a completed trace as OTLP spans with the recorded
// timestamps. A nil exporter does nothing.
func (e *OTLPExporter) ExportTrace(ctx context.Context, t *Trace) error {
	if e == nil || t == nil || t.RootSpan == nil {
		return nil
	}
	traceID, err := hexToTraceID(t.ID)
	if err != nil {
		return err
	}
	// The SDK derives the trace ID from the remote parent in the context.
	parent := oteltrace.NewSpanContext(oteltrace.SpanContextConfig{
		TraceID:    traceID,
		TraceFlags: oteltrace.FlagsSampled,
		Remote:     true,
	})
	e.exportSpan(oteltrace.ContextWithSpanContext(ctx, parent), t.RootSpan)
	return nil
}

// exportSpan exports span and, recursively, its children as its descendants.
func (e *OTLPExporter) exportSpan(ctx context.Context, span *Span) {
	ctx, otlpSpan := e.tracer.Start(ctx, span.Name, oteltrace.WithTimestamp(span.StartTime))

	attrs := make([]attribute.KeyValue, 0, len(span.Attributes))
	for k, v := range span.Attributes {
		attrs = append(attrs, attribute.String(attributeKey(k), v))
	}
	otlpSpan.SetAttributes(attrs...)

	for _, child := range span.Children {
		e.exportSpan(ctx, child)
	}
	otlpSpan.End(oteltrace.WithTimestamp(span.StartTime.Add(span.Duration)))
}

// attributeKey maps recorded attribute names into the uikit.* namespace.
func attributeKey(k string) string {
	switch k {
	case "control":
		return "uikit.control.name"
	case "callbacks":
		return "uikit.click.callbacks"
	case "outcome":
		return "uikit.click.outcome"
	case "from":
		return "uikit.tab.from"
	case "to":
		return "uikit.tab.to"
	default:
		return "uikit." + k
	}
}

// hexToTraceID converts a 32-character hex string to trace.TraceID
func hexToTraceID(hexStr string) (oteltrace.TraceID, error) {
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		return oteltrace.TraceID{}, fmt.Errorf("trace id %q: %w", hexStr, err)
	}
	if len(b) != 16 {
		return oteltrace.TraceID{}, fmt.Errorf("trace id %q: want 16 bytes, got %d", hexStr, len(b))
	}
	var traceID oteltrace.TraceID
	copy(traceID[:], b)
	return traceID, nil
}

// Shutdown flushes and closes the exporter. A nil exporter does nothing.
func (e *OTLPExporter) Shutdown(ctx context.Context) error {
	if e == nil {
		return nil
	}
	return e.provider.Shutdown(ctx)
}
