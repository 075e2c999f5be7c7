package otel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"search-orchestrator/domain"
)

const (
	serviceNamespace = "search"
	indexEngine      = "meilisearch"
	metasearchEngine = "searxng"
)

// Config holds OpenTelemetry configuration
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	Enabled        bool
	SampleRatio    float64
	// ExportInterval paces the batch exporters of all three signals.
	ExportInterval time.Duration
}

// ConfigFromEnv reads the OTEL_* variables. Export is off unless
// OTEL_ENABLED is "true", so the service runs without a collector.
func ConfigFromEnv() Config {
	cfg := Config{
		ServiceName:    getEnv("OTEL_SERVICE_NAME", "search-orchestrator"),
		ServiceVersion: getEnv("SERVICE_VERSION", "0.0.0"),
		Environment:    getEnv("DEPLOYMENT_ENV", "development"),
		OTLPEndpoint:   strings.TrimRight(getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"), "/"),
		Enabled:        getEnv("OTEL_ENABLED", "false") == "true",
		SampleRatio:    0.1,
		ExportInterval: 5 * time.Second,
	}
	if v := os.Getenv("OTEL_TRACE_SAMPLE_RATIO"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			cfg.SampleRatio = f
		}
	}
	if v := os.Getenv("OTEL_EXPORT_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.ExportInterval = d
		}
	}
	return cfg
}

// ShutdownFunc flushes and stops every provider started by InitProvider.
type ShutdownFunc func(context.Context) error

// InitProvider installs the global tracer, logger and meter providers. When a
// later provider fails, the ones already started are shut down again.
func InitProvider(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}
	fail := func(stage string, err error) (ShutdownFunc, error) {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("failed to init %s: %w", stage, err)
	}

	traceExporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(signalURL(cfg, "traces")),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return fail("trace exporter", err)
	}
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter, sdktrace.WithBatchTimeout(cfg.ExportInterval)),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)
	shutdowns = append(shutdowns, tracerProvider.Shutdown)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logExporter, err := otlploghttp.New(ctx,
		otlploghttp.WithEndpointURL(signalURL(cfg, "logs")),
		otlploghttp.WithInsecure(),
	)
	if err != nil {
		return fail("log exporter", err)
	}
	loggerProvider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter, sdklog.WithExportInterval(cfg.ExportInterval))),
		sdklog.WithResource(res),
	)
	shutdowns = append(shutdowns, loggerProvider.Shutdown)
	global.SetLoggerProvider(loggerProvider)

	metricExporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpointURL(signalURL(cfg, "metrics")),
		otlpmetrichttp.WithInsecure(),
	)
	if err != nil {
		return fail("metric exporter", err)
	}
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(3*cfg.ExportInterval))),
		sdkmetric.WithResource(res),
	)
	shutdowns = append(shutdowns, meterProvider.Shutdown)
	otel.SetMeterProvider(meterProvider)

	if err := InitMetrics(); err != nil {
		return fail("metric instruments", err)
	}

	return shutdown, nil
}

// newResource describes this process: the service identity plus the
// engines it fronts and the document domains it serves.
func newResource(ctx context.Context, cfg Config) (*resource.Resource, error) {
	domains := make([]string, 0, len(domain.AllDomains()))
	for _, d := range domain.AllDomains() {
		domains = append(domains, d.String())
	}

	return resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithHost(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.ServiceNamespace(serviceNamespace),
			semconv.DeploymentEnvironment(cfg.Environment),
			attribute.String("search.index_engine", indexEngine),
			attribute.String("search.metasearch_engine", metasearchEngine),
			attribute.StringSlice("search.domains", domains),
		),
	)
}

func signalURL(cfg Config, signal string) string {
	return cfg.OTLPEndpoint + "/v1/" + signal
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
