package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/gcalio/gcal"
	"github.com/gcalio/gcal/instrumentation"
	"github.com/gcalio/gcal/logging"
)

// DefaultTimeout is the default HTTP request timeout for a session-owned
// client.
const DefaultTimeout = 30 * time.Second

// TokenSource supplies bearer tokens for outgoing requests. Invalidate
// drops any cached token so the next Token call mints a fresh one.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// Session owns one HTTP transport bound to a single client instance. It is
// safe for concurrent use once opened.
type Session struct {
	base    *url.URL
	tokens  TokenSource
	limiter *rate.Limiter
	logger  *slog.Logger
	tracer  trace.Tracer

	mu     sync.Mutex
	client *http.Client
	open   bool
	owned  bool
}

// Option configures a Session.
type Option func(*Session)

// WithHTTPClient sets the HTTP client used for requests. Without it, Open
// creates a client with DefaultTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Session) {
		s.client = client
	}
}

// WithRateLimit applies a client-side rate limit to outgoing requests.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Session) {
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger used by the Session.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// New creates a Session for the given base URL. The session must be opened
// before use.
func New(baseURL string, tokens TokenSource, opts ...Option) (*Session, error) {
	if tokens == nil {
		return nil, fmt.Errorf("transport: token source cannot be nil")
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("transport: parse base URL: %w", err)
	}

	s := &Session{
		base:   base,
		tokens: tokens,
		logger: slog.Default(),
		tracer: otel.Tracer(instrumentation.ScopeName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Open acquires the underlying HTTP client. Idempotent.
func (s *Session) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open {
		return nil
	}
	if s.client == nil {
		s.client = &http.Client{Timeout: DefaultTimeout}
		s.owned = true
	}
	s.open = true
	instrumentation.AddOpenSessions(context.Background(), 1)
	return nil
}

// Close releases the session. Idempotent; requests issued afterwards fail
// with gcal.ErrSessionClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return nil
	}
	s.open = false
	if s.owned {
		s.client.CloseIdleConnections()
	}
	instrumentation.AddOpenSessions(context.Background(), -1)
	return nil
}

// Request issues an authenticated JSON request against the session's base
// URL and returns the raw response payload.
//
// On HTTP 401 it forces exactly one token refresh and retries the request
// exactly once; a second 401 surfaces as *gcal.AuthError. A 404 surfaces
// as *gcal.NotFoundError, any other non-2xx as *gcal.APIError, and
// network-level failures as *gcal.TransportError.
func (s *Session) Request(ctx context.Context, method, path string, params url.Values, body any) (json.RawMessage, error) {
	s.mu.Lock()
	open, client := s.open, s.client
	s.mu.Unlock()
	if !open {
		return nil, gcal.ErrSessionClosed
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("transport: encode request body: %w", err)
		}
	}

	u := s.base.JoinPath(path)
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	ctx, span := s.tracer.Start(ctx, method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", u.Path),
		))
	defer span.End()

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, s.fail(span, &gcal.TransportError{Op: "rate limit wait", Err: err})
		}
	}

	start := time.Now()
	for attempt := 0; ; attempt++ {
		token, err := s.tokens.Token(ctx)
		if err != nil {
			return nil, s.fail(span, err)
		}

		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
		if err != nil {
			return nil, s.fail(span, fmt.Errorf("transport: build request: %w", err))
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, s.fail(span, &gcal.TransportError{Op: method + " " + u.Path, Err: err})
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, s.fail(span, &gcal.TransportError{Op: "read response body", Err: err})
		}

		if resp.StatusCode == http.StatusUnauthorized && attempt == 0 {
			s.logger.Debug("unauthorized response, forcing token refresh",
				logging.Operation(method+" "+u.Path))
			s.tokens.Invalidate()
			continue
		}

		instrumentation.RecordRequest(ctx, method, resp.StatusCode, time.Since(start))
		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			return nil, s.fail(span, &gcal.AuthError{Status: resp.StatusCode, Body: data})
		case resp.StatusCode == http.StatusNotFound:
			return nil, s.fail(span, gcal.NewNotFoundError(data))
		case resp.StatusCode >= 300:
			return nil, s.fail(span, &gcal.APIError{Status: resp.StatusCode, Body: data})
		}

		s.logger.Debug("request completed",
			logging.Operation(method+" "+u.Path),
			slog.Int("status", resp.StatusCode),
			slog.Duration(logging.KeyDuration, time.Since(start)))
		if resp.StatusCode == http.StatusNoContent || len(data) == 0 {
			return nil, nil
		}
		return json.RawMessage(data), nil
	}
}

func (s *Session) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
