package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"jobmindr/internal/common/logger"
)

type Observability struct {
	meterProvider   *metric.MeterProvider
	tracerProvider  *sdktrace.TracerProvider
	tracer          trace.Tracer
	requestCounter  otelmetric.Int64Counter
	requestDuration otelmetric.Float64Histogram
}

// New wires OpenTelemetry metrics into the Prometheus registry and, when
// jaegerEndpoint is set, exports spans to Jaeger. Failures degrade to no-op
// instruments.
func New(serviceName, jaegerEndpoint string, log logger.Logger) *Observability {
	o := NewNoop()

	exporter, err := prometheus.New()
	if err != nil {
		log.Warn("failed to create prometheus exporter", map[string]interface{}{"error": err})
	} else {
		provider := metric.NewMeterProvider(metric.WithReader(exporter))
		otel.SetMeterProvider(provider)
		o.meterProvider = provider
		o.initInstruments(provider.Meter(serviceName))
	}

	if jaegerEndpoint != "" {
		tp, err := newTracerProvider(serviceName, jaegerEndpoint)
		if err != nil {
			log.Warn("failed to create jaeger exporter", map[string]interface{}{"error": err})
		} else {
			otel.SetTracerProvider(tp)
			o.tracerProvider = tp
			o.tracer = tp.Tracer(serviceName)
		}
	}

	return o
}

// NewNoop returns instruments that record nothing.
func NewNoop() *Observability {
	o := &Observability{tracer: tracenoop.NewTracerProvider().Tracer("")}
	o.initInstruments(metricnoop.NewMeterProvider().Meter(""))
	return o
}

func newTracerProvider(serviceName, endpoint string) (*sdktrace.TracerProvider, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(endpoint)))
	if err != nil {
		return nil, fmt.Errorf("jaeger exporter: %w", err)
	}
	res := resource.NewSchemaless(attribute.String("service.name", serviceName))
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	), nil
}

func (o *Observability) initInstruments(meter otelmetric.Meter) {
	o.requestCounter, _ = meter.Int64Counter(
		"http.server.requests",
		otelmetric.WithDescription("Number of HTTP requests served"),
	)
	o.requestDuration, _ = meter.Float64Histogram(
		"http.server.duration",
		otelmetric.WithDescription("HTTP request duration"),
		otelmetric.WithUnit("ms"),
	)
}

// StartSpan starts a server span named name.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attrs...),
	)
}

func (o *Observability) RecordRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	attrs := otelmetric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	if o.requestCounter != nil {
		o.requestCounter.Add(ctx, 1, attrs)
	}
	if o.requestDuration != nil {
		o.requestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
}
