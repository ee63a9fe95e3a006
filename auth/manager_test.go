package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcalio/gcal"
)

func testCredentials() Credentials {
	return Credentials{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Scopes:       []string{"https://www.googleapis.com/auth/calendar"},
		RefreshToken: "refresh-token",
	}
}

// tokenEndpoint returns an httptest server that acts as the OAuth token
// endpoint and counts refresh requests.
func tokenEndpoint(t *testing.T, hits *atomic.Int64, delay time.Duration) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if delay > 0 {
			time.Sleep(delay)
		}
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "refresh-token", r.Form.Get("refresh_token"))
		assert.Equal(t, "client-id", r.Form.Get("client_id"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "minted-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
}

func TestNewManagerValidatesCredentials(t *testing.T) {
	_, err := NewManager(Credentials{ClientID: "only-id"})
	require.Error(t, err)
	assert.True(t, gcal.IsValidation(err))
}

func TestTokenRefreshesAndCaches(t *testing.T) {
	var hits atomic.Int64
	srv := tokenEndpoint(t, &hits, 0)
	defer srv.Close()

	m, err := NewManager(testCredentials(), WithTokenURL(srv.URL))
	require.NoError(t, err)

	ctx := context.Background()
	tok, err := m.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "minted-token", tok)

	// Second call must be served from cache.
	tok, err = m.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "minted-token", tok)
	assert.Equal(t, int64(1), hits.Load())
}

func TestTokenRefreshesWithinExpiryMargin(t *testing.T) {
	var hits atomic.Int64
	srv := tokenEndpoint(t, &hits, 0)
	defer srv.Close()

	// A margin wider than the token lifetime makes every cached token
	// stale immediately.
	m, err := NewManager(testCredentials(),
		WithTokenURL(srv.URL),
		WithExpiryMargin(2*time.Hour))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = m.Token(ctx)
	require.NoError(t, err)
	_, err = m.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), hits.Load())
}

func TestInvalidateForcesRefresh(t *testing.T) {
	var hits atomic.Int64
	srv := tokenEndpoint(t, &hits, 0)
	defer srv.Close()

	m, err := NewManager(testCredentials(), WithTokenURL(srv.URL))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = m.Token(ctx)
	require.NoError(t, err)

	m.Invalidate()

	_, err = m.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), hits.Load())
}

func TestRefreshRejectionIsAuthErrorAndNotCached(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":             "invalid_grant",
			"error_description": "token has been revoked",
		})
	}))
	defer srv.Close()

	m, err := NewManager(testCredentials(), WithTokenURL(srv.URL))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = m.Token(ctx)
	require.Error(t, err)
	require.True(t, gcal.IsAuth(err))

	var aerr *gcal.AuthError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, http.StatusBadRequest, aerr.Status)
	assert.Contains(t, aerr.Reason, "invalid_grant")

	// Nothing was cached, so the next call hits the endpoint again.
	_, err = m.Token(ctx)
	require.Error(t, err)
	assert.Equal(t, int64(2), hits.Load())
}

func TestConcurrentCallersShareOneRefresh(t *testing.T) {
	var hits atomic.Int64
	srv := tokenEndpoint(t, &hits, 50*time.Millisecond)
	defer srv.Close()

	m, err := NewManager(testCredentials(), WithTokenURL(srv.URL))
	require.NoError(t, err)

	ctx := context.Background()
	const callers = 8

	var wg sync.WaitGroup
	errs := make([]error, callers)
	toks := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			toks[i], errs[i] = m.Token(ctx)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "minted-token", toks[i])
	}
	assert.Equal(t, int64(1), hits.Load(), "concurrent callers must share a single refresh")
}
