package otel

import (
	"context"
	"salon/config"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"google.golang.org/grpc/credentials/insecure"
)

type Otel interface {
	NewScope(ctx context.Context, scopeName, spanName string) (context.Context, Scope)
	Shutdown(ctx context.Context) error
}

type otelImpl struct {
	TracerProvider *trace.TracerProvider
}

func (o *otelImpl) NewScope(ctx context.Context, scopeName, spanName string) (context.Context, Scope) {
	ctx, span := o.TracerProvider.Tracer(scopeName).Start(ctx, spanName)

	return ctx, NewScope(span)
}

// Shutdown flushes pending spans.
func (o *otelImpl) Shutdown(ctx context.Context) error {
	return o.TracerProvider.Shutdown(ctx)
}

// New builds the tracer provider. Spans are only exported when an OTLP endpoint is configured.
func New(config *config.Config) Otel {
	ctx := context.Background()

	options := []trace.TracerProviderOption{
		trace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(config.App.Name),
		)),
	}

	if endpoint := config.External.Otel.Endpoint; endpoint != "" {
		exporter, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()),
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create OTLP exporter")
		}

		options = append(options, trace.WithBatcher(exporter))
	} else {
		log.Warn().Msg("OTLP endpoint not set, traces are not exported")
	}

	traceProvider := trace.NewTracerProvider(options...)

	otel.SetTracerProvider(traceProvider)

	return &otelImpl{
		TracerProvider: traceProvider,
	}
}
