package instrumentation

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ScopeName is the instrumentation scope for meters and tracers created by
// this module.
const ScopeName = "github.com/gcalio/gcal"

// Metric attribute keys - using constants for consistency.
const (
	attrMethod    = "method"
	attrStatus    = "status"
	attrOperation = "operation"
	attrResult    = "result"
)

// Result values for the result attribute.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

type metrics struct {
	requestsTotal     metric.Int64Counter
	requestDuration   metric.Float64Histogram
	operationsTotal   metric.Int64Counter
	operationDuration metric.Float64Histogram
	tokenRefreshTotal metric.Int64Counter
	openSessions      metric.Int64UpDownCounter
}

var (
	initOnce sync.Once
	inst     *metrics
)

// instruments lazily creates the instruments against the global meter
// provider. Without an SDK installed every instrument is a no-op.
func instruments() *metrics {
	initOnce.Do(func() {
		meter := otel.Meter(ScopeName)
		m := &metrics{}
		var err error

		m.requestsTotal, err = meter.Int64Counter(
			"gcal_http_requests_total",
			metric.WithDescription("Total number of HTTP requests issued to the calendar API"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			otel.Handle(err)
		}

		m.requestDuration, err = meter.Float64Histogram(
			"gcal_http_request_duration_seconds",
			metric.WithDescription("Calendar API HTTP request duration in seconds"),
			metric.WithUnit("s"),
			metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
		)
		if err != nil {
			otel.Handle(err)
		}

		m.operationsTotal, err = meter.Int64Counter(
			"gcal_operations_total",
			metric.WithDescription("Total number of calendar operations"),
			metric.WithUnit("{operation}"),
		)
		if err != nil {
			otel.Handle(err)
		}

		m.operationDuration, err = meter.Float64Histogram(
			"gcal_operation_duration_seconds",
			metric.WithDescription("Calendar operation duration in seconds"),
			metric.WithUnit("s"),
			metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
		)
		if err != nil {
			otel.Handle(err)
		}

		m.tokenRefreshTotal, err = meter.Int64Counter(
			"gcal_token_refresh_total",
			metric.WithDescription("Total number of OAuth token refresh attempts"),
			metric.WithUnit("{refresh}"),
		)
		if err != nil {
			otel.Handle(err)
		}

		m.openSessions, err = meter.Int64UpDownCounter(
			"gcal_open_sessions",
			metric.WithDescription("Number of open transport sessions"),
			metric.WithUnit("{session}"),
		)
		if err != nil {
			otel.Handle(err)
		}

		inst = m
	})
	return inst
}

func resultOf(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}

// RecordRequest records a single HTTP request against the calendar API.
func RecordRequest(ctx context.Context, method string, status int, duration time.Duration) {
	m := instruments()
	attrs := metric.WithAttributes(
		attribute.String(attrMethod, method),
		attribute.Int(attrStatus, status),
	)
	if m.requestsTotal != nil {
		m.requestsTotal.Add(ctx, 1, attrs)
	}
	if m.requestDuration != nil {
		m.requestDuration.Record(ctx, duration.Seconds(), attrs)
	}
}

// RecordOperation records a calendar operation such as events.insert.
func RecordOperation(ctx context.Context, operation string, err error, duration time.Duration) {
	m := instruments()
	attrs := metric.WithAttributes(
		attribute.String(attrOperation, operation),
		attribute.String(attrResult, resultOf(err)),
	)
	if m.operationsTotal != nil {
		m.operationsTotal.Add(ctx, 1, attrs)
	}
	if m.operationDuration != nil {
		m.operationDuration.Record(ctx, duration.Seconds(), attrs)
	}
}

// RecordTokenRefresh records an OAuth token refresh attempt.
func RecordTokenRefresh(ctx context.Context, err error) {
	m := instruments()
	if m.tokenRefreshTotal != nil {
		m.tokenRefreshTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String(attrResult, resultOf(err)),
		))
	}
}

// AddOpenSessions adjusts the count of open transport sessions.
func AddOpenSessions(ctx context.Context, delta int64) {
	m := instruments()
	if m.openSessions != nil {
		m.openSessions.Add(ctx, delta)
	}
}
