package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/sync/singleflight"

	"github.com/gcalio/gcal"
	"github.com/gcalio/gcal/instrumentation"
	"github.com/gcalio/gcal/logging"
)

// DefaultExpiryMargin is the safety margin before expiry at which a cached
// token is refreshed proactively.
const DefaultExpiryMargin = time.Minute

// Manager produces a currently-valid bearer token on demand. It caches the
// last minted token and refreshes it against the OAuth endpoint when the
// token is missing or within the expiry margin.
type Manager struct {
	conf         *oauth2.Config
	refreshToken string
	client       *http.Client
	margin       time.Duration
	logger       *slog.Logger

	mu    sync.Mutex
	token *oauth2.Token

	group singleflight.Group
}

// Option configures a Manager.
type Option func(*Manager)

// WithHTTPClient sets the HTTP client used for token refresh requests.
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		m.client = client
	}
}

// WithExpiryMargin sets how long before expiry a cached token is considered
// stale.
func WithExpiryMargin(margin time.Duration) Option {
	return func(m *Manager) {
		m.margin = margin
	}
}

// WithTokenURL overrides the OAuth token endpoint. The refresh request
// carries client_id, client_secret, refresh_token and grant_type as form
// parameters.
func WithTokenURL(tokenURL string) Option {
	return func(m *Manager) {
		m.conf.Endpoint = oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		}
	}
}

// WithLogger sets the logger used by the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a token Manager for the given credentials. The Google
// OAuth endpoint is used unless overridden with WithTokenURL.
func NewManager(creds Credentials, opts ...Option) (*Manager, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		conf: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			Scopes:       creds.Scopes,
			Endpoint:     google.Endpoint,
		},
		refreshToken: creds.RefreshToken,
		margin:       DefaultExpiryMargin,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Token returns a valid access token, refreshing it first if no token is
// cached or the cached one is within the expiry margin.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	tok := m.token
	m.mu.Unlock()

	if m.fresh(tok) {
		return tok.AccessToken, nil
	}
	return m.refresh(ctx)
}

// Invalidate drops the cached token so the next Token call performs a
// refresh. The transport layer calls this after an HTTP 401.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	m.token = nil
	m.mu.Unlock()
}

func (m *Manager) fresh(tok *oauth2.Token) bool {
	if tok == nil || tok.AccessToken == "" {
		return false
	}
	if tok.Expiry.IsZero() {
		return true
	}
	return time.Until(tok.Expiry) > m.margin
}

// refresh performs a single-flight token refresh: concurrent callers share
// one in-flight request to the OAuth endpoint. Nothing is cached on
// failure or cancellation.
func (m *Manager) refresh(ctx context.Context) (string, error) {
	v, err, _ := m.group.Do("refresh", func() (any, error) {
		// Another caller may have completed a refresh while we waited
		// for the flight slot.
		m.mu.Lock()
		if tok := m.token; m.fresh(tok) {
			m.mu.Unlock()
			return tok.AccessToken, nil
		}
		m.mu.Unlock()

		if m.client != nil {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, m.client)
		}

		seed := &oauth2.Token{RefreshToken: m.refreshToken}
		tok, err := m.conf.TokenSource(ctx, seed).Token()
		instrumentation.RecordTokenRefresh(ctx, err)
		if err != nil {
			return nil, translateRefreshError(err, m.logger)
		}

		m.mu.Lock()
		m.token = tok
		m.mu.Unlock()

		m.logger.Debug("access token refreshed",
			logging.Operation("token.refresh"),
			slog.Time("expiry", tok.Expiry),
			slog.String("token", logging.SanitizeToken(tok.AccessToken)))
		return tok.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func translateRefreshError(err error, logger *slog.Logger) error {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		status := 0
		if rerr.Response != nil {
			status = rerr.Response.StatusCode
		}
		logger.Warn("token refresh rejected",
			logging.Operation("token.refresh"),
			slog.Int("status", status),
			slog.String("reason", rerr.ErrorCode))
		reason := rerr.ErrorCode
		if rerr.ErrorDescription != "" {
			reason += ": " + rerr.ErrorDescription
		}
		return &gcal.AuthError{Status: status, Body: rerr.Body, Reason: reason}
	}
	return &gcal.TransportError{Op: "refresh token", Err: err}
}
