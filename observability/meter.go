package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/authd/logger"
)

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The returned provider should be shut down on application exit.
func InitMeter(ctx context.Context, cfg Config, serviceName, serviceVersion, environment string) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(serviceName, serviceVersion, environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", serviceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the metric instruments for the authentication service.
// All Record methods are no-ops on a nil receiver, so callers need no
// guards when metric export is disabled.
type Metrics struct {
	loginTotal        metric.Int64Counter
	registrationTotal metric.Int64Counter
	tokensIssued      metric.Int64Counter
	tokenRejections   metric.Int64Counter
	requestDuration   metric.Float64Histogram
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	loginTotal, err := meter.Int64Counter("auth.login.total",
		metric.WithDescription("Login attempts by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.login.total counter: %w", err)
	}

	registrationTotal, err := meter.Int64Counter("auth.registration.total",
		metric.WithDescription("Registration attempts by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.registration.total counter: %w", err)
	}

	tokensIssued, err := meter.Int64Counter("auth.token.issued",
		metric.WithDescription("Bearer tokens issued"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.token.issued counter: %w", err)
	}

	tokenRejections, err := meter.Int64Counter("auth.token.rejected",
		metric.WithDescription("Bearer tokens rejected during validation"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.token.rejected counter: %w", err)
	}

	requestDuration, err := meter.Float64Histogram("http.request.duration",
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.request.duration histogram: %w", err)
	}

	return &Metrics{
		loginTotal:        loginTotal,
		registrationTotal: registrationTotal,
		tokensIssued:      tokensIssued,
		tokenRejections:   tokenRejections,
		requestDuration:   requestDuration,
	}, nil
}

// RecordLogin records a login attempt with its outcome ("success" or "failure").
func (m *Metrics) RecordLogin(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.loginTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

// RecordRegistration records a registration attempt with its outcome.
func (m *Metrics) RecordRegistration(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.registrationTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

// RecordTokenIssued records a successfully issued bearer token.
func (m *Metrics) RecordTokenIssued(ctx context.Context) {
	if m == nil {
		return
	}
	m.tokensIssued.Add(ctx, 1)
}

// RecordTokenRejected records a bearer token that failed validation.
func (m *Metrics) RecordTokenRejected(ctx context.Context) {
	if m == nil {
		return
	}
	m.tokenRejections.Add(ctx, 1)
}

// RecordRequest records a completed HTTP request.
func (m *Metrics) RecordRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	))
}
