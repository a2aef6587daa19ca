package telemetry

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"razorpay-facade/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

type endpoint struct {
	host     string
	path     string
	insecure bool
}

// parseEndpoint accepts a full URL or a bare host:port.
func parseEndpoint(raw string) (endpoint, error) {
	ep := endpoint{host: raw, path: "/v1/traces", insecure: true}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return ep, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ep, fmt.Errorf("parse otlp endpoint: %w", err)
	}
	if u.Host == "" {
		return ep, fmt.Errorf("otlp endpoint %q has no host", raw)
	}
	ep.host = u.Host
	if u.Path != "" && u.Path != "/" {
		ep.path = u.Path
	}
	ep.insecure = u.Scheme == "http"
	return ep, nil
}

// InitTracer installs the global tracer provider and propagators. With no
// endpoint configured only the propagators are set and the returned shutdown
// is a no-op, so otelhttp spans go to the default no-op provider.
func InitTracer(ctx context.Context, cfg config.TelemetryConfig, version string) (ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if cfg.OTLPEndpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	ep, err := parseEndpoint(cfg.OTLPEndpoint)
	if err != nil {
		return nil, err
	}
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(ep.host),
		otlptracehttp.WithURLPath(ep.path),
	}
	if ep.insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient(opts...))
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
