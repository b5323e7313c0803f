package observability

import (
	"context"
	"fmt"
	"time"

	"eventaide/internal/common/config"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Observability owns the OpenTelemetry meter and tracer providers for one process.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	turnCounter    otelmetric.Int64Counter
	turnDuration   otelmetric.Float64Histogram
	toolCounter    otelmetric.Int64Counter
}

// New installs global meter and tracer providers. Metrics are exported through
// reg (the default Prometheus registerer in production). Spans go to Jaeger when
// tracing is enabled and are dropped otherwise.
func New(serviceName string, tracing config.TracingConfig, reg prometheus.Registerer) (*Observability, error) {
	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))

	meterProvider := metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))
	otel.SetMeterProvider(meterProvider)

	tpOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if tracing.Enabled {
		traceExporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(tracing.CollectorEndpoint)))
		if err != nil {
			return nil, fmt.Errorf("create jaeger exporter: %w", err)
		}
		tpOpts = append(tpOpts, sdktrace.WithBatcher(traceExporter))
	}
	tracerProvider := sdktrace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(tracerProvider)

	meter := meterProvider.Meter(serviceName)

	turnCounter, err := meter.Int64Counter(
		"dialogue_turns",
		otelmetric.WithDescription("Dialogue turns processed"),
	)
	if err != nil {
		return nil, err
	}

	turnDuration, err := meter.Float64Histogram(
		"dialogue_turn_duration",
		otelmetric.WithDescription("Dialogue turn processing duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	toolCounter, err := meter.Int64Counter(
		"mcp_tool_calls",
		otelmetric.WithDescription("MCP tool calls processed"),
	)
	if err != nil {
		return nil, err
	}

	return &Observability{
		meterProvider:  meterProvider,
		tracerProvider: tracerProvider,
		turnCounter:    turnCounter,
		turnDuration:   turnDuration,
		toolCounter:    toolCounter,
	}, nil
}

// RecordTurn records one dialogue turn.
func (o *Observability) RecordTurn(ctx context.Context, step, outcome string, duration time.Duration) {
	attrs := otelmetric.WithAttributes(
		attribute.String("step", step),
		attribute.String("outcome", outcome),
	)
	o.turnCounter.Add(ctx, 1, attrs)
	o.turnDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordToolCall records one MCP tool invocation.
func (o *Observability) RecordToolCall(ctx context.Context, tool string, isError bool) {
	o.toolCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("tool", tool),
		attribute.Bool("error", isError),
	))
}

// Shutdown flushes pending spans and metrics.
func (o *Observability) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var firstErr error
	if err := o.tracerProvider.Shutdown(ctx); err != nil {
		firstErr = err
	}
	if err := o.meterProvider.Shutdown(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
