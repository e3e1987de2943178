// Package telemetry provides OpenTelemetry tracing exported over OTLP/HTTP.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName    = "shoreline"
	serviceVersion = "0.2.0"

	defaultEndpoint = "https://api.honeycomb.io"
)

// Config controls whether and where traces are exported.
type Config struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	Dataset  string `yaml:"dataset"`
	// APIKeyEnv names the environment variable holding the exporter API key.
	APIKeyEnv string `yaml:"api_key_env"`
}

// DefaultConfig returns tracing disabled, pointed at Honeycomb when enabled.
func DefaultConfig() Config {
	return Config{
		Enabled:   false,
		Endpoint:  defaultEndpoint,
		Dataset:   serviceName,
		APIKeyEnv: "HONEYCOMB_SHORELINE_API_KEY",
	}
}

// Setup initializes OpenTelemetry with an OTLP HTTP exporter. When tracing is
// disabled it installs nothing and returns a no-op shutdown; tracers then come
// from the default no-op global provider.
//
// Returns a shutdown function that should be called on application exit.
func Setup(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	configureEnv(cfg)

	// Exporter reads the standard OTEL_* variables set above
	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create exporter: %w", err)
	}

	// We create our own resource without merging with Default() to avoid schema URL conflicts
	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
			attribute.String("telemetry.sdk.language", "go"),
			attribute.String("host.name", getHostname()),
			attribute.String("os.type", runtime.GOOS),
			attribute.String("process.runtime.version", runtime.Version()),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: build resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// configureEnv maps our config onto the OTEL_* variables the exporter reads.
// The API key is looked up here rather than stored in the config file.
func configureEnv(cfg Config) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", endpoint)

	dataset := cfg.Dataset
	if dataset == "" {
		dataset = serviceName
	}
	if apiKey := os.Getenv(cfg.APIKeyEnv); cfg.APIKeyEnv != "" && apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}

// Tracer returns a named tracer for the given component.
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(serviceName + "/" + name)
}

// getHostname returns the system hostname, or "unknown" if it cannot be determined.
func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
