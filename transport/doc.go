// Package transport provides the authenticated HTTP session used by the
// calendar client.
//
// A Session is scoped to one events manager: it injects the bearer token
// into every request, retries exactly once after an HTTP 401 (behind a
// forced token refresh), and translates transport and HTTP failures into
// the error kinds of the root gcal package. No other retry is performed;
// callers layer their own retry policy for idempotent operations.
package transport
