package dataapi

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	namespace  string
	apiPath    string
	httpClient *http.Client

	callerName    string
	callerVersion string

	logger         *slog.Logger
	metricsReg     prometheus.Registerer
	tracerProvider trace.TracerProvider
}

// WithNamespace sets the namespace that Database handles are bound to.
// Without it every call must pass InNamespace.
func WithNamespace(ns string) Option {
	return optionFunc(func(c *clientConfig) {
		c.namespace = ns
	})
}

// WithAPIPath overrides the JSON API prefix (default "api/json/v1").
func WithAPIPath(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiPath = path
	})
}

// WithHTTPClient sets the HTTP client used for all commands.
// Timeouts and retries belong to this client.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithCaller appends the calling application to the User-Agent header.
func WithCaller(name, version string) Option {
	return optionFunc(func(c *clientConfig) {
		c.callerName = name
		c.callerVersion = version
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

// WithTracerProvider sets the OpenTelemetry provider for command spans.
// Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return optionFunc(func(c *clientConfig) {
		c.tracerProvider = tp
	})
}
