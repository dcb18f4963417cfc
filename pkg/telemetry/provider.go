// Package telemetry wires OpenTelemetry metrics and tracing for the
// control plane (C12): a Prometheus metric reader and a stdout trace
// exporter.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Config controls how the telemetry providers are built.
type Config struct {
	ServiceName string
	// PrettyPrintTraces renders stdout spans as indented JSON, useful for
	// local development.
	PrettyPrintTraces bool
}

// Provider owns the control plane's meter and tracer providers and their
// shutdown.
type Provider struct {
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	Meter          metric.Meter
	Tracer         trace.Tracer
}

// New builds a Provider: a Prometheus exporter backs the meter provider,
// a stdout exporter backs the tracer provider. The Prometheus exporter
// registers with the default Prometheus registerer; callers serve it on an
// HTTP /metrics handler themselves (cmd/callcontrold mounts
// promhttp.Handler()).
func New(ctx context.Context, cfg Config) (*Provider, error) {
	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(cfg.ServiceName),
	))
	if err != nil {
		return nil, newSetupError("new", err)
	}

	promExporter, err := otelprom.New()
	if err != nil {
		return nil, newSetupError("new", err)
	}
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(promExporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	traceOpts := []stdouttrace.Option{}
	if cfg.PrettyPrintTraces {
		traceOpts = append(traceOpts, stdouttrace.WithPrettyPrint())
	}
	traceExporter, err := stdouttrace.New(traceOpts...)
	if err != nil {
		return nil, newSetupError("new", err)
	}
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)

	return &Provider{
		meterProvider:  meterProvider,
		tracerProvider: tracerProvider,
		Meter:          meterProvider.Meter(cfg.ServiceName),
		Tracer:         tracerProvider.Tracer(cfg.ServiceName),
	}, nil
}

// Shutdown flushes and stops both providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	if err := p.tracerProvider.Shutdown(ctx); err != nil {
		return newSetupError("shutdown", err)
	}
	if err := p.meterProvider.Shutdown(ctx); err != nil {
		return newSetupError("shutdown", err)
	}
	return nil
}
