// Package tracing installs a process-wide tracer provider so span context
// propagates through the enrichment pipeline even when nothing exports it
// yet; wiring a real OTLP exporter is a one-line change at NewProvider's
// call site.
package tracing

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// NewProvider builds and installs a tracer provider for serviceName,
// returning a shutdown function to call during graceful shutdown.
func NewProvider(ctx context.Context, serviceName string) (trace.TracerProvider, func(context.Context) error, error) {
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return nil, nil, err
	}
	provider := sdktrace.NewTracerProvider(sdktrace.WithResource(res))
	otel.SetTracerProvider(provider)
	return provider, provider.Shutdown, nil
}
