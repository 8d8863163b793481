// Package tracing bootstraps OpenTelemetry tracing: one span per pipeline stage plus a
// root span per optimisation request, exported via stdouttrace when enabled and a
// complete no-op otherwise.
package tracing

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// ShutdownFunc flushes and tears down the tracer provider installed by Setup.
type ShutdownFunc func(context.Context) error

// Setup installs the global TracerProvider. When enabled is false it installs a
// complete no-op provider so every downstream span-creation call is a cheap no-op
// rather than a disabled-but-still-allocating real provider.
func Setup(ctx context.Context, enabled bool, serviceName string) (ShutdownFunc, error) {
	if !enabled {
		otel.SetTracerProvider(trace.NewNoopTracerProvider())
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}

	resource := sdkresource.NewSchemaless(attribute.String("service.name", serviceName))

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource),
	)
	otel.SetTracerProvider(provider)

	return func(shutdownCtx context.Context) error {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			log.Printf("[tracing] shutdown error: %v", err)
			return err
		}
		return nil
	}, nil
}

// Tracer is the package-wide tracer used to open pipeline-stage and request spans.
func Tracer() trace.Tracer {
	return otel.Tracer("promptforge")
}

// StartStage opens a span for one orchestrator pipeline stage (deconstruct_diagnose,
// design, sample, evaluate).
func StartStage(ctx context.Context, stage string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "pipeline."+stage)
}

// StartRequest opens the root span for one optimisation request.
func StartRequest(ctx context.Context, category string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "optimize_prompt", trace.WithAttributes(attribute.String("category", category)))
}
