// Package otel wires OpenTelemetry tracing for the service: provider setup,
// exporter selection and small helpers used by handlers and the logger.
package otel

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"recipebook/pkg/logger"
)

// Exporter names accepted in Config.Exporter.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// Config defines the information needed to init tracing.
type Config struct {
	ServiceName string
	Exporter    string
	Host        string
	Probability float64
}

// InitTracing configures a tracer provider and installs it globally together
// with the W3C trace-context propagator. The returned function flushes and
// stops the provider.
func InitTracing(log *logger.Logger, cfg Config) (*sdktrace.TracerProvider, func(context.Context) error, error) {
	ctx := context.Background()

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.Probability))),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))),
	}

	switch cfg.Exporter {
	case "", ExporterNone:
		log.Info(ctx, "tracing", "exporter", ExporterNone)
	case ExporterStdout:
		exp, err := stdouttrace.New(stdouttrace.WithWriter(os.Stdout))
		if err != nil {
			return nil, nil, fmt.Errorf("creating stdout exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exp))
		log.Info(ctx, "tracing", "exporter", ExporterStdout)
	case ExporterOTLP:
		grpcOpts := []otlptracegrpc.Option{otlptracegrpc.WithInsecure()}
		if cfg.Host != "" {
			grpcOpts = append(grpcOpts, otlptracegrpc.WithEndpoint(cfg.Host))
		}
		exp, err := otlptracegrpc.New(ctx, grpcOpts...)
		if err != nil {
			return nil, nil, fmt.Errorf("creating otlp exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exp))
		log.Info(ctx, "tracing", "exporter", ExporterOTLP, "host", cfg.Host, "probability", cfg.Probability)
	default:
		return nil, nil, fmt.Errorf("unknown trace exporter %q", cfg.Exporter)
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp, tp.Shutdown, nil
}

type tracerKey struct{}

// InjectTracing stores tracer in ctx so AddSpan can find it, and continues
// any trace the caller propagated in headers.
func InjectTracing(ctx context.Context, tracer trace.Tracer, carrier propagation.TextMapCarrier) context.Context {
	if carrier != nil {
		ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)
	}
	return context.WithValue(ctx, tracerKey{}, tracer)
}

// AddSpan starts a span from the tracer stored in ctx, or the global tracer
// provider when none was injected. Callers must End the span.
func AddSpan(ctx context.Context, spanName string, keyValues ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer, ok := ctx.Value(tracerKey{}).(trace.Tracer)
	if !ok || tracer == nil {
		tracer = otel.Tracer("recipebook")
	}

	ctx, span := tracer.Start(ctx, spanName)
	span.SetAttributes(keyValues...)

	return ctx, span
}

// GetTraceID returns the trace id of the span in ctx, or "" when there is no
// valid span.
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
