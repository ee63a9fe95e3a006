package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcalio/gcal"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvClientID, "client-id")
	t.Setenv(EnvClientSecret, "client-secret")
	t.Setenv(EnvRefreshToken, "refresh-token")
}

func TestFromEnvDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(EnvScopes, "")
	t.Setenv(EnvCalendarID, "")
	t.Setenv(EnvTimeZone, "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "client-id", cfg.Credentials.ClientID)
	assert.Equal(t, []string{DefaultScope}, cfg.Credentials.Scopes)
	assert.Equal(t, "primary", cfg.CalendarID)
	assert.Equal(t, "UTC", cfg.TimeZone)
}

func TestFromEnvExplicitValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(EnvScopes, " https://www.googleapis.com/auth/calendar.events , https://www.googleapis.com/auth/calendar.readonly ")
	t.Setenv(EnvCalendarID, "team@example.com")
	t.Setenv(EnvTimeZone, "Europe/Berlin")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://www.googleapis.com/auth/calendar.events",
		"https://www.googleapis.com/auth/calendar.readonly",
	}, cfg.Credentials.Scopes)
	assert.Equal(t, "team@example.com", cfg.CalendarID)
	assert.Equal(t, "Europe/Berlin", cfg.TimeZone)
}

func TestFromEnvMissingCredentials(t *testing.T) {
	t.Setenv(EnvClientID, "")
	t.Setenv(EnvClientSecret, "")
	t.Setenv(EnvRefreshToken, "")

	_, err := FromEnv()
	require.Error(t, err)
	assert.True(t, gcal.IsValidation(err))
}
