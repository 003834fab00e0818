package otel

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"recipebook/pkg/logger"
)

func newRecorder() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	return sr, tp
}

func TestAddSpan_UsesInjectedTracer(t *testing.T) {
	sr, tp := newRecorder()
	ctx := InjectTracing(context.Background(), tp.Tracer("test"), nil)

	ctx, span := AddSpan(ctx, "listRecipes", attribute.String("recipe.name", "Pancakes"))
	assert.NotEmpty(t, GetTraceID(ctx))
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "listRecipes", ended[0].Name())
	assert.Contains(t, ended[0].Attributes(), attribute.String("recipe.name", "Pancakes"))
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Equal(t, "", GetTraceID(context.Background()))
}

func TestInjectTracing_ContinuesRemoteTrace(t *testing.T) {
	_, tp := newRecorder()
	var buf bytes.Buffer
	_, shutdown, err := InitTracing(logger.New(&buf, logger.LevelInfo, "json", "test", nil), Config{ServiceName: "test", Exporter: ExporterNone, Probability: 1})
	require.NoError(t, err)
	defer shutdown(context.Background())

	h := http.Header{}
	h.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")

	ctx := InjectTracing(context.Background(), tp.Tracer("test"), propagation.HeaderCarrier(h))
	ctx, span := AddSpan(ctx, "child")
	defer span.End()

	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", GetTraceID(ctx))
}

func TestInitTracing_Exporters(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.LevelInfo, "json", "test", nil)

	for _, exp := range []string{"", ExporterNone, ExporterStdout} {
		tp, shutdown, err := InitTracing(log, Config{ServiceName: "test", Exporter: exp, Probability: 1})
		require.NoError(t, err, exp)
		require.NotNil(t, tp)
		require.NoError(t, shutdown(context.Background()))
	}

	_, _, err := InitTracing(log, Config{ServiceName: "test", Exporter: "zipkin"})
	assert.Error(t, err)
}
