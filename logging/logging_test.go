package logging

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestWithOperation(t *testing.T) {
	logger := slog.Default()
	result := WithOperation(logger, "events.list")
	if result == nil {
		t.Error("WithOperation returned nil")
	}
}

func TestWithCalendar(t *testing.T) {
	logger := slog.Default()
	result := WithCalendar(logger, "team@example.com")
	if result == nil {
		t.Error("WithCalendar returned nil")
	}
}

func TestOperationAttr(t *testing.T) {
	attr := Operation("events.insert")
	if attr.Key != KeyOperation {
		t.Errorf("Operation key = %q, want %q", attr.Key, KeyOperation)
	}
	if attr.Value.String() != "events.insert" {
		t.Errorf("Operation value = %q, want %q", attr.Value.String(), "events.insert")
	}
}

func TestEventAttr(t *testing.T) {
	attr := Event("e1")
	if attr.Key != KeyEvent {
		t.Errorf("Event key = %q, want %q", attr.Key, KeyEvent)
	}
	if attr.Value.String() != "e1" {
		t.Errorf("Event value = %q, want %q", attr.Value.String(), "e1")
	}
}

func TestErrAttr(t *testing.T) {
	attr := Err(errors.New("boom"))
	if attr.Key != KeyError {
		t.Errorf("Err key = %q, want %q", attr.Key, KeyError)
	}
	if attr.Value.String() != "boom" {
		t.Errorf("Err value = %q, want %q", attr.Value.String(), "boom")
	}
}

func TestErrAttrNil(t *testing.T) {
	attr := Err(nil)
	if attr.Key != "" {
		t.Errorf("Err(nil) key = %q, want empty group", attr.Key)
	}
}

func TestAnonymizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{"empty", ""},
		{"primary", "primary"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnonymizeEmail(tt.email); got != tt.email {
				t.Errorf("AnonymizeEmail(%q) = %q, want passthrough", tt.email, got)
			}
		})
	}

	hashed := AnonymizeEmail("team@example.com")
	if !strings.HasPrefix(hashed, "cal:") {
		t.Errorf("AnonymizeEmail should hash emails, got %q", hashed)
	}
	if strings.Contains(hashed, "example.com") {
		t.Errorf("AnonymizeEmail leaked the address: %q", hashed)
	}
	if hashed != AnonymizeEmail("team@example.com") {
		t.Error("AnonymizeEmail should be deterministic")
	}
}

func TestSanitizeToken(t *testing.T) {
	if got := SanitizeToken(""); got != "<empty>" {
		t.Errorf("SanitizeToken(\"\") = %q", got)
	}
	got := SanitizeToken("ya29.secret-token")
	if strings.Contains(got, "secret") {
		t.Errorf("SanitizeToken leaked token content: %q", got)
	}
	if got != "[token:17 chars]" {
		t.Errorf("SanitizeToken = %q, want length indicator", got)
	}
}
