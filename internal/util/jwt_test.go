package util

import (
	"errors"
	"testing"
	"time"

	"intern_hub_backend/internal/model"
)

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("user-1", model.Intern)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	p, err := issuer.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if p.UserID != "user-1" || p.Role != model.Intern {
		t.Fatalf("unexpected principal %+v", p)
	}
}

func TestTokenIssuerExpiry(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	now := start
	issuer := NewTokenIssuer("test-secret", time.Hour).WithClock(func() time.Time { return now })

	token, err := issuer.Issue("user-1", model.Admin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	now = start.Add(59 * time.Minute)
	if _, err := issuer.Validate(token); err != nil {
		t.Fatalf("token should be valid before expiry: %v", err)
	}

	now = start.Add(61 * time.Minute)
	if _, err := issuer.Validate(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenIssuerRejectsForeignKey(t *testing.T) {
	ours := NewTokenIssuer("secret-a", time.Hour)
	theirs := NewTokenIssuer("secret-b", time.Hour)

	token, err := theirs.Issue("user-1", model.Admin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := ours.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenIssuerRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	for _, tok := range []string{"", "abc", "a.b.c"} {
		if _, err := issuer.Validate(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate(%q) = %v, want ErrInvalidToken", tok, err)
		}
	}
}
