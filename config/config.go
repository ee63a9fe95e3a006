// Package config loads construction-time configuration for the calendar
// client from the environment.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/gcalio/gcal/auth"
)

// Environment variable names understood by Load.
const (
	EnvClientID     = "GCAL_CLIENT_ID"
	EnvClientSecret = "GCAL_CLIENT_SECRET"
	EnvRefreshToken = "GCAL_REFRESH_TOKEN"
	EnvScopes       = "GCAL_SCOPES"
	EnvCalendarID   = "GCAL_CALENDAR_ID"
	EnvTimeZone     = "GCAL_TIMEZONE"
)

// DefaultScope grants full calendar access.
const DefaultScope = "https://www.googleapis.com/auth/calendar"

// Config is everything needed to construct an events manager.
type Config struct {
	Credentials auth.Credentials
	CalendarID  string
	TimeZone    string
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first, but its absence is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from the process environment only. Scopes
// are comma-separated; they default to DefaultScope, the calendar ID to
// "primary" and the time zone to UTC.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Credentials: auth.Credentials{
			ClientID:     os.Getenv(EnvClientID),
			ClientSecret: os.Getenv(EnvClientSecret),
			RefreshToken: os.Getenv(EnvRefreshToken),
			Scopes:       splitScopes(os.Getenv(EnvScopes)),
		},
		CalendarID: os.Getenv(EnvCalendarID),
		TimeZone:   os.Getenv(EnvTimeZone),
	}
	if len(cfg.Credentials.Scopes) == 0 {
		cfg.Credentials.Scopes = []string{DefaultScope}
	}
	if cfg.CalendarID == "" {
		cfg.CalendarID = "primary"
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = "UTC"
	}
	if err := cfg.Credentials.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitScopes(raw string) []string {
	var scopes []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			scopes = append(scopes, s)
		}
	}
	return scopes
}
