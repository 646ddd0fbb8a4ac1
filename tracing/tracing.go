package tracing

import (
	"context"
	"fmt"
	"levyt/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Configure installs the global tracer provider. Without an exporter endpoint
// spans are still created but go nowhere.
func Configure(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	if cfg.OtlpEndpoint == "" {
		return func(ctx context.Context) error { return nil }, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OtlpEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", "levyt"),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}

func Error(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return err
}

func Errorf(span trace.Span, format string, a ...any) error {
	return Error(span, fmt.Errorf(format, a...))
}

func ErrorCtx(ctx context.Context, err error) error {
	return Error(trace.SpanFromContext(ctx), err)
}
