package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gcalio/gcal"
	"github.com/gcalio/gcal/auth"
	"github.com/gcalio/gcal/instrumentation"
	"github.com/gcalio/gcal/logging"
	"github.com/gcalio/gcal/transport"
)

const (
	// DefaultBaseURL is the Google APIs endpoint.
	DefaultBaseURL = "https://www.googleapis.com"
	// DefaultVersion is the calendar API version.
	DefaultVersion = "v3"
	// DefaultCalendarID addresses the authenticated user's primary calendar.
	DefaultCalendarID = "primary"
)

// Manager orchestrates authenticated CRUD operations against the events
// collection of a single calendar. It owns its transport session and cached
// access token for its lifetime; the supplied credentials are only read.
type Manager struct {
	calendarID string
	timeZone   string
	version    string
	baseURL    string
	tokenURL   string
	httpClient *http.Client
	rps        float64
	burst      int
	logger     *slog.Logger

	tokens  *auth.Manager
	session *transport.Session

	mu      sync.Mutex
	started bool
}

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(m *Manager) {
		m.baseURL = baseURL
	}
}

// WithVersion overrides the calendar API version. Not recommended.
func WithVersion(version string) Option {
	return func(m *Manager) {
		m.version = version
	}
}

// WithTokenURL overrides the OAuth token endpoint.
func WithTokenURL(tokenURL string) Option {
	return func(m *Manager) {
		m.tokenURL = tokenURL
	}
}

// WithHTTPClient sets the HTTP client used for both API requests and token
// refreshes.
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		m.httpClient = client
	}
}

// WithRateLimit applies a client-side rate limit to API requests.
func WithRateLimit(rps float64, burst int) Option {
	return func(m *Manager) {
		m.rps = rps
		m.burst = burst
	}
}

// WithLogger sets the logger used by the Manager and its collaborators.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates an events Manager for one calendar. The timeZone is an
// IANA zone name attached to listings; calendarID defaults to "primary".
func NewManager(creds auth.Credentials, timeZone, calendarID string, opts ...Option) (*Manager, error) {
	if timeZone == "" {
		return nil, gcal.NewValidationError("manager: time zone is required")
	}
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}

	m := &Manager{
		calendarID: calendarID,
		timeZone:   timeZone,
		version:    DefaultVersion,
		baseURL:    DefaultBaseURL,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = logging.WithCalendar(m.logger, m.calendarID)

	authOpts := []auth.Option{auth.WithLogger(m.logger)}
	if m.httpClient != nil {
		authOpts = append(authOpts, auth.WithHTTPClient(m.httpClient))
	}
	if m.tokenURL != "" {
		authOpts = append(authOpts, auth.WithTokenURL(m.tokenURL))
	}
	tokens, err := auth.NewManager(creds, authOpts...)
	if err != nil {
		return nil, err
	}
	m.tokens = tokens

	sessOpts := []transport.Option{transport.WithLogger(m.logger)}
	if m.httpClient != nil {
		sessOpts = append(sessOpts, transport.WithHTTPClient(m.httpClient))
	}
	if m.rps > 0 {
		sessOpts = append(sessOpts, transport.WithRateLimit(m.rps, m.burst))
	}
	session, err := transport.New(m.baseURL, tokens, sessOpts...)
	if err != nil {
		return nil, err
	}
	m.session = session

	return m, nil
}

// Start acquires the transport session and primes the access token.
// Idempotent: a second Start does not leak a second session.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return nil
	}
	if err := m.session.Open(); err != nil {
		return err
	}
	if _, err := m.tokens.Token(ctx); err != nil {
		_ = m.session.Close()
		return fmt.Errorf("prime access token: %w", err)
	}
	m.started = true
	m.logger.Info("events manager started")
	return nil
}

// Stop releases the session. Idempotent; operations invoked afterwards
// fail with gcal.ErrSessionClosed.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return nil
	}
	m.started = false
	m.logger.Info("events manager stopped")
	return m.session.Close()
}

func (m *Manager) checkStarted() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return gcal.ErrSessionClosed
	}
	return nil
}

// eventsPath is the events collection path for this calendar.
func (m *Manager) eventsPath() string {
	return "/calendar/" + m.version + "/calendars/" + url.PathEscape(m.calendarID) + "/events"
}

func (m *Manager) eventPath(eventID string) string {
	return m.eventsPath() + "/" + url.PathEscape(eventID)
}

// List issues a listing against the events collection and returns a lazy,
// single-pass Iterator over the results. The first page is fetched
// eagerly; subsequent pages are fetched transparently as the consumer
// advances past the last item of the current page.
func (m *Manager) List(ctx context.Context, opts *ListOptions) (*Iterator, error) {
	if err := m.checkStarted(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &ListOptions{}
	}

	it := &Iterator{
		mgr:       m,
		params:    opts.values(m.timeZone),
		pageToken: opts.PageToken,
	}
	start := time.Now()
	err := it.fetch(ctx)
	instrumentation.RecordOperation(ctx, "events.list", err, time.Since(start))
	if err != nil {
		m.logger.Warn("list failed", logging.Operation("events.list"), logging.Err(err))
		return nil, err
	}
	return it, nil
}

// Get retrieves a single event by ID. The manager's time zone applies
// unless overridden with the TimeZone call option.
func (m *Manager) Get(ctx context.Context, eventID string, opts ...CallOption) (Event, error) {
	if err := m.checkStarted(); err != nil {
		return Event{}, err
	}
	if eventID == "" {
		return Event{}, gcal.NewValidationError("get: event id is required")
	}

	params := url.Values{"timeZone": {m.timeZone}}
	applyCallOptions(params, opts)

	return m.do(ctx, "events.get", http.MethodGet, m.eventPath(eventID), params, nil)
}

// Insert creates a new event in the calendar. The event must not carry a
// pre-existing ID; the returned event carries the ID assigned by the
// service.
func (m *Manager) Insert(ctx context.Context, event Event, opts ...CallOption) (Event, error) {
	if err := m.checkStarted(); err != nil {
		return Event{}, err
	}
	if err := event.validateForInsert(); err != nil {
		return Event{}, err
	}

	params := url.Values{}
	applyCallOptions(params, opts)

	created, err := m.do(ctx, "events.insert", http.MethodPost, m.eventsPath(), params, event)
	if err == nil {
		m.logger.Debug("event inserted",
			logging.Operation("events.insert"), logging.Event(created.ID))
	}
	return created, err
}

// Update replaces the remote event identified by event.ID. Pass-through
// fields decoded into the event are echoed back, so a fetched event can be
// modified and submitted without losing unmapped fields.
func (m *Manager) Update(ctx context.Context, event Event, opts ...CallOption) (Event, error) {
	if err := m.checkStarted(); err != nil {
		return Event{}, err
	}
	if err := event.validateForUpdate(); err != nil {
		return Event{}, err
	}

	params := url.Values{}
	applyCallOptions(params, opts)

	return m.do(ctx, "events.update", http.MethodPut, m.eventPath(event.ID), params, event)
}

// Delete removes the event with the given ID. A missing resource surfaces
// as *gcal.NotFoundError so callers can treat "already deleted" specially.
func (m *Manager) Delete(ctx context.Context, eventID string, opts ...CallOption) error {
	if err := m.checkStarted(); err != nil {
		return err
	}
	if eventID == "" {
		return gcal.NewValidationError("delete: event id is required")
	}

	params := url.Values{}
	applyCallOptions(params, opts)

	start := time.Now()
	_, err := m.session.Request(ctx, http.MethodDelete, m.eventPath(eventID), params, nil)
	instrumentation.RecordOperation(ctx, "events.delete", err, time.Since(start))
	if err != nil {
		m.logger.Warn("delete failed",
			logging.Operation("events.delete"), logging.Event(eventID), logging.Err(err))
		return err
	}
	m.logger.Debug("event deleted",
		logging.Operation("events.delete"), logging.Event(eventID))
	return nil
}

// do issues a request expected to return a single event document.
func (m *Manager) do(ctx context.Context, op, method, path string, params url.Values, body any) (Event, error) {
	start := time.Now()
	raw, err := m.session.Request(ctx, method, path, params, body)
	instrumentation.RecordOperation(ctx, op, err, time.Since(start))
	if err != nil {
		m.logger.Warn("operation failed", logging.Operation(op), logging.Err(err))
		return Event{}, err
	}

	var event Event
	if err := json.Unmarshal(raw, &event); err != nil {
		return Event{}, fmt.Errorf("%s: decode response: %w", op, err)
	}
	return event, nil
}
