// Package auth owns the OAuth2 access token lifecycle for the calendar
// client.
//
// Credentials hold the long-lived client ID, client secret, scopes and
// refresh token supplied by the caller; the Manager mints short-lived
// access tokens from them on demand, caches the current token, and
// refreshes it before expiry. Concurrent refreshes are collapsed into a
// single request to the OAuth endpoint.
package auth
