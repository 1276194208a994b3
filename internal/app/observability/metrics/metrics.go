package metrics

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "nora-content"

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	LoginAttemptsTotal  metric.Int64Counter
	OverrideWritesTotal metric.Int64Counter
	MergeRequestsTotal  metric.Int64Counter
	DBQueryErrorsTotal  metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
	initErr    error
)

// InitAppMetrics creates the instruments once from the global MeterProvider.
func InitAppMetrics() error {
	once.Do(func() {
		appMetrics, initErr = newAppMetrics(otel.GetMeterProvider().Meter(meterName))
	})
	return initErr
}

func newAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	var err error
	m := &AppMetrics{}

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests completed"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, err
	}

	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.LoginAttemptsTotal, err = meter.Int64Counter(
		"login_attempts_total",
		metric.WithDescription("Login attempts by outcome"),
		metric.WithUnit("{attempt}"),
	); err != nil {
		return nil, err
	}

	if m.OverrideWritesTotal, err = meter.Int64Counter(
		"i18n_override_writes_total",
		metric.WithDescription("Override upserts and deletes by language"),
		metric.WithUnit("{write}"),
	); err != nil {
		return nil, err
	}

	if m.MergeRequestsTotal, err = meter.Int64Counter(
		"i18n_merge_requests_total",
		metric.WithDescription("Merged bundle requests by language and outcome"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, err
	}

	if m.DBQueryErrorsTotal, err = meter.Int64Counter(
		"db_query_errors_total",
		metric.WithDescription("Total number of database query errors"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// Get returns the instruments, falling back to the global (possibly no-op)
// provider when InitAppMetrics has not run, as in unit tests.
func Get() *AppMetrics {
	if err := InitAppMetrics(); err != nil || appMetrics == nil {
		m, _ := newAppMetrics(otel.GetMeterProvider().Meter(meterName))
		return m
	}
	return appMetrics
}

// RecordLogin counts a login attempt with its outcome.
func RecordLogin(ctx context.Context, outcome string) {
	Get().LoginAttemptsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordOverrideWrite counts an upsert or delete.
func RecordOverrideWrite(ctx context.Context, lang, op string) {
	Get().OverrideWritesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("lang", lang),
		attribute.String("op", op),
	))
}

// RecordMerge counts a merged bundle request.
func RecordMerge(ctx context.Context, lang, outcome string) {
	Get().MergeRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("lang", lang),
		attribute.String("outcome", outcome),
	))
}

// RecordDBError counts a failed store statement.
func RecordDBError(ctx context.Context, operation string) {
	Get().DBQueryErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}
