package services

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ericfisherdev/simple-catalog/internal/domain"
	"github.com/ericfisherdev/simple-catalog/internal/services/mocks"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestGate(t *testing.T, verifier CredentialVerifier) (SessionService, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	gate := NewSessionGate(verifier, SessionGateConfig{Clock: clock.Now})
	return gate, clock
}

func encodeToken(t *testing.T, token domain.SessionToken) string {
	t.Helper()
	raw, err := token.Encode()
	require.NoError(t, err)
	return raw
}

func TestSessionGate_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockCredentialVerifier(ctrl)
	gate, clock := newTestGate(t, verifier)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		verifier.EXPECT().Verify(gomock.Any(), "admin@example.com", "123456").Return(nil)

		token, err := gate.Login(ctx, "admin@example.com", "123456")
		require.NoError(t, err)
		assert.Equal(t, "admin@example.com", token.Email)
		assert.True(t, token.IsAuthenticated)
		assert.True(t, token.LoginTime.Equal(clock.Now()))
	})

	t.Run("InvalidCredentials", func(t *testing.T) {
		verifier.EXPECT().Verify(gomock.Any(), "admin@example.com", "wrong").
			Return(domain.NewInvalidCredentialsError())

		_, err := gate.Login(ctx, "admin@example.com", "wrong")
		require.Error(t, err)
		domainErr, ok := domain.AsError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
		assert.Equal(t, domain.MessageInvalidCredentials, domainErr.Message)
	})

	t.Run("VerifierFailure", func(t *testing.T) {
		verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("boom"))

		_, err := gate.Login(ctx, "admin@example.com", "123456")
		require.Error(t, err)
		assert.True(t, domain.IsType(err, domain.InternalError))
	})
}

func TestSessionGate_LoginNotifiesSubscribers(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockCredentialVerifier(ctrl)
	verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	gate, _ := newTestGate(t, verifier)
	ctx := context.Background()

	var events []domain.SessionEvent
	unsubscribe := gate.Subscribe(func(event domain.SessionEvent) {
		events = append(events, event)
	})

	_, err := gate.Login(ctx, "admin@example.com", "123456")
	require.NoError(t, err)
	gate.Logout(ctx, "admin@example.com")

	require.Len(t, events, 2)
	assert.Equal(t, domain.SessionLoggedIn, events[0].Kind)
	assert.Equal(t, domain.SessionLoggedOut, events[1].Kind)
	assert.Equal(t, "admin@example.com", events[1].Email)

	unsubscribe()
	unsubscribe()
	_, err = gate.Login(ctx, "admin@example.com", "123456")
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestSessionGate_Validate(t *testing.T) {
	gate, clock := newTestGate(t, nil)
	issued := domain.NewSessionToken("admin@example.com", clock.Now())

	t.Run("Missing", func(t *testing.T) {
		result := gate.Validate("")
		assert.False(t, result.Valid)
		assert.Equal(t, domain.ReasonMissing, result.Reason)
	})

	t.Run("Malformed", func(t *testing.T) {
		for _, raw := range []string{"not-json", "%7B", "%ZZ", "null"} {
			result := gate.Validate(raw)
			assert.False(t, result.Valid, raw)
			assert.Equal(t, domain.ReasonMalformed, result.Reason, raw)
		}
	})

	t.Run("NotAuthenticated", func(t *testing.T) {
		token := issued
		token.IsAuthenticated = false
		result := gate.Validate(encodeToken(t, token))
		assert.Equal(t, domain.ReasonNotAuthenticated, result.Reason)
	})

	t.Run("MissingLoginTime", func(t *testing.T) {
		token := domain.SessionToken{Email: "admin@example.com", IsAuthenticated: true}
		result := gate.Validate(encodeToken(t, token))
		assert.Equal(t, domain.ReasonMalformed, result.Reason)
	})

	t.Run("FutureLoginTime", func(t *testing.T) {
		token := domain.NewSessionToken("admin@example.com", clock.Now().Add(time.Minute))
		result := gate.Validate(encodeToken(t, token))
		assert.True(t, result.Valid)
		assert.Equal(t, "admin@example.com", result.Identity)
	})

	t.Run("EmptyEmail", func(t *testing.T) {
		token := domain.NewSessionToken("", clock.Now())
		result := gate.Validate(encodeToken(t, token))
		assert.True(t, result.Valid)
		assert.Empty(t, result.Identity)
	})

	t.Run("Fresh", func(t *testing.T) {
		result := gate.Validate(encodeToken(t, issued))
		assert.True(t, result.Valid)
		assert.Equal(t, "admin@example.com", result.Identity)
	})
}

func TestSessionGate_ExpiryBoundary(t *testing.T) {
	gate, clock := newTestGate(t, nil)
	raw := encodeToken(t, domain.NewSessionToken("admin@example.com", clock.Now()))

	clock.Advance(24 * time.Hour)
	assert.True(t, gate.Validate(raw).Valid, "exactly 24h is still valid")

	clock.Advance(time.Millisecond)
	result := gate.Validate(raw)
	assert.False(t, result.Valid)
	assert.Equal(t, domain.ReasonExpired, result.Reason)
	assert.True(t, result.ShouldClearCookie())
}

func TestSessionGate_Guard(t *testing.T) {
	gate, clock := newTestGate(t, nil)
	valid := encodeToken(t, domain.NewSessionToken("admin@example.com", clock.Now()))

	t.Run("PublicPathsAlwaysAllowed", func(t *testing.T) {
		for _, path := range []string{"/", "/items", "/items/1", "/login", "/add-items", "/add-item-x"} {
			decision := gate.Guard(path, "")
			assert.Equal(t, domain.GuardAllow, decision.Action, path)
			decision = gate.Guard(path, "garbage")
			assert.Equal(t, domain.GuardAllow, decision.Action, path)
		}
	})

	t.Run("ProtectedWithoutToken", func(t *testing.T) {
		decision := gate.Guard("/add-item", "")
		assert.Equal(t, domain.GuardRedirectToLogin, decision.Action)
		assert.Equal(t, "/add-item", decision.OriginalPath)

		loginURL, err := url.Parse(decision.LoginURL)
		require.NoError(t, err)
		assert.Equal(t, "/login", loginURL.Path)
		assert.Equal(t, "/add-item", loginURL.Query().Get("redirect"))
	})

	t.Run("ProtectedSubPath", func(t *testing.T) {
		decision := gate.Guard("/add-item/preview", "")
		assert.Equal(t, domain.GuardRedirectToLogin, decision.Action)
		assert.Equal(t, "/add-item/preview", decision.OriginalPath)
	})

	t.Run("ProtectedWithValidToken", func(t *testing.T) {
		decision := gate.Guard("/add-item", valid)
		assert.Equal(t, domain.GuardAllow, decision.Action)
		assert.Equal(t, "admin@example.com", decision.Validation.Identity)
	})

	t.Run("ProtectedWithMalformedToken", func(t *testing.T) {
		decision := gate.Guard("/add-item", "garbage")
		assert.Equal(t, domain.GuardRedirectToLogin, decision.Action)
		assert.True(t, decision.Validation.ShouldClearCookie())
	})
}

func TestSessionGate_SafeRedirect(t *testing.T) {
	gate, _ := newTestGate(t, nil)

	assert.Equal(t, "/add-item", gate.SafeRedirect("/add-item"))
	assert.Equal(t, "/items/3", gate.SafeRedirect("/items/3"))
	assert.Equal(t, "/items", gate.SafeRedirect(""))
	assert.Equal(t, "/items", gate.SafeRedirect("https://evil.example.com"))
	assert.Equal(t, "/items", gate.SafeRedirect("//evil.example.com"))
	assert.Equal(t, "/items", gate.SafeRedirect("/\\evil.example.com"))
	assert.Equal(t, "/items", gate.SafeRedirect("add-item"))
}

func TestSessionGate_Defaults(t *testing.T) {
	gate := NewSessionGate(nil, SessionGateConfig{})

	assert.Equal(t, 24*time.Hour, gate.TTL())
	assert.True(t, gate.IsProtected("/add-item"))
	assert.False(t, gate.IsProtected("/items"))
	assert.Equal(t, "/login", gate.LoginURL(""))
}

func TestBcryptCredentialVerifier(t *testing.T) {
	verifier, err := NewBcryptCredentialVerifier("admin@example.com", "123456")
	require.NoError(t, err)
	ctx := context.Background()

	assert.NoError(t, verifier.Verify(ctx, "admin@example.com", "123456"))

	for _, pair := range [][2]string{
		{"admin@example.com", "654321"},
		{"Admin@example.com", "123456"},
		{"", ""},
	} {
		err := verifier.Verify(ctx, pair[0], pair[1])
		require.Error(t, err)
		domainErr, ok := domain.AsError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, verifier.Verify(cancelled, "admin@example.com", "123456"), context.Canceled)
}
