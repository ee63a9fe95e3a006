// Package instrumentation provides OpenTelemetry instrumentation for the
// calendar client.
//
// Only the OpenTelemetry API is used: instruments are created against the
// global meter provider, so without an SDK installed every recording is a
// no-op. Exporter and SDK wiring is the embedding application's job.
//
// # Metrics
//
// HTTP Metrics:
//   - gcal_http_requests_total: Counter of calendar API requests by method and status
//   - gcal_http_request_duration_seconds: Histogram of request durations
//   - gcal_open_sessions: Gauge of open transport sessions
//
// Operation Metrics:
//   - gcal_operations_total: Counter of calendar operations by operation and result
//   - gcal_operation_duration_seconds: Histogram of operation durations
//
// OAuth Metrics:
//   - gcal_token_refresh_total: Counter of token refresh attempts by result
//
// # Tracing
//
// The transport session creates a client span per API request under the
// ScopeName instrumentation scope.
package instrumentation
