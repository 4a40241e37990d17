package domain_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ericfisherdev/simple-catalog/internal/domain"
)

func TestSessionToken_EncodeDecode(t *testing.T) {
	loginTime := time.Date(2025, 3, 1, 10, 30, 0, 123456789, time.UTC)
	token := domain.NewSessionToken("admin@example.com", loginTime)

	encoded, err := token.Encode()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if strings.ContainsAny(encoded, "{}\" ") {
		t.Errorf("Expected URL-encoded value, got %q", encoded)
	}
	if !strings.Contains(encoded, "2025-03-01T10%3A30%3A00.123Z") {
		t.Errorf("Expected millisecond UTC login time in %q", encoded)
	}

	decoded, err := domain.DecodeSessionToken(encoded)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if decoded.Email != "admin@example.com" || !decoded.IsAuthenticated {
		t.Errorf("Unexpected decoded token: %+v", decoded)
	}
	if !decoded.LoginTime.Equal(loginTime.Truncate(time.Millisecond)) {
		t.Errorf("Expected login time %v, got %v", loginTime.Truncate(time.Millisecond), decoded.LoginTime)
	}
}

func TestDecodeSessionToken_BrowserValue(t *testing.T) {
	raw := "%7B%22email%22%3A%22admin%40example.com%22%2C%22isAuthenticated%22%3Atrue%2C" +
		"%22loginTime%22%3A%222025-03-01T10%3A30%3A00.000Z%22%7D"

	token, err := domain.DecodeSessionToken(raw)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if token.Email != "admin@example.com" {
		t.Errorf("Expected email admin@example.com, got %s", token.Email)
	}
}

func TestDecodeSessionToken_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"garbage",
		"%ZZ",
		"%7B%22email%22",
		"%5B1%2C2%5D",
		"%7B%22loginTime%22%3A%22yesterday%22%7D",
		"%7B%22isAuthenticated%22%3A%22yes%22%7D",
	}

	for _, raw := range inputs {
		_, err := domain.DecodeSessionToken(raw)
		if !errors.Is(err, domain.ErrMalformedToken) {
			t.Errorf("Expected ErrMalformedToken for %q, got %v", raw, err)
		}
	}
}

func TestSessionValidation_Err(t *testing.T) {
	valid := domain.SessionValidation{Valid: true, Identity: "a@b.c"}
	if valid.Err() != nil {
		t.Errorf("Expected nil error for valid session, got %v", valid.Err())
	}

	reasons := map[domain.InvalidReason]string{
		domain.ReasonMissing:          "MISSING_SESSION",
		domain.ReasonMalformed:        "MALFORMED_SESSION",
		domain.ReasonNotAuthenticated: "NOT_AUTHENTICATED",
		domain.ReasonExpired:          "SESSION_EXPIRED",
	}
	for reason, code := range reasons {
		err := domain.SessionValidation{Reason: reason}.Err()
		if !domain.IsType(err, domain.SessionError) {
			t.Errorf("Expected session error for %s, got %v", reason, err)
			continue
		}
		domainErr, _ := domain.AsError(err)
		if domainErr.Code != code {
			t.Errorf("Expected code %s for %s, got %s", code, reason, domainErr.Code)
		}
	}
}

func TestSessionValidation_ShouldClearCookie(t *testing.T) {
	tests := []struct {
		reason domain.InvalidReason
		clear  bool
	}{
		{domain.ReasonMissing, false},
		{domain.ReasonMalformed, true},
		{domain.ReasonNotAuthenticated, false},
		{domain.ReasonExpired, true},
	}

	for _, tt := range tests {
		got := domain.SessionValidation{Reason: tt.reason}.ShouldClearCookie()
		if got != tt.clear {
			t.Errorf("Expected ShouldClearCookie=%v for %s, got %v", tt.clear, tt.reason, got)
		}
	}
}

func TestCredential_Matches(t *testing.T) {
	credential, err := domain.NewCredential("admin@example.com", "123456")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if err := credential.Matches("admin@example.com", "123456"); err != nil {
		t.Errorf("Expected match, got: %v", err)
	}

	wrongEmail := credential.Matches("other@example.com", "123456")
	wrongPassword := credential.Matches("admin@example.com", "nope")
	for _, err := range []error{wrongEmail, wrongPassword} {
		domainErr, ok := domain.AsError(err)
		if !ok {
			t.Fatalf("Expected domain.Error, got %T", err)
		}
		if domainErr.Code != "INVALID_CREDENTIALS" || domainErr.Message != domain.MessageInvalidCredentials {
			t.Errorf("Expected uniform invalid credentials error, got %+v", domainErr)
		}
	}
}
