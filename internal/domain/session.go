package domain

import (
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "auth"

// loginTimeLayout matches the ISO-8601 form browsers produce for dates.
const loginTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// SessionToken is the client-held, self-describing session credential.
type SessionToken struct {
	Email           string    `json:"email"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	LoginTime       time.Time `json:"loginTime"`
}

type wireSessionToken struct {
	Email           string `json:"email"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	LoginTime       string `json:"loginTime,omitempty"`
}

// ErrMalformedToken is returned when a cookie value is not a session token.
var ErrMalformedToken = errors.New("malformed session token")

// NewSessionToken issues an authenticated token for email at loginTime.
func NewSessionToken(email string, loginTime time.Time) SessionToken {
	return SessionToken{
		Email:           email,
		IsAuthenticated: true,
		LoginTime:       loginTime.UTC().Truncate(time.Millisecond),
	}
}

// Encode returns the URL-encoded JSON cookie value.
func (t SessionToken) Encode() (string, error) {
	wire := wireSessionToken{
		Email:           t.Email,
		IsAuthenticated: t.IsAuthenticated,
	}
	if !t.LoginTime.IsZero() {
		wire.LoginTime = t.LoginTime.UTC().Format(loginTimeLayout)
	}

	payload, err := json.Marshal(wire)
	if err != nil {
		return "", err
	}

	// QueryEscape encodes spaces as '+', which decodeURIComponent would not undo.
	return strings.ReplaceAll(url.QueryEscape(string(payload)), "+", "%20"), nil
}

// DecodeSessionToken parses a cookie value produced by Encode or by a browser
// client. The login time is optional here; Expired/Malformed decisions about it
// belong to the session gate.
func DecodeSessionToken(raw string) (SessionToken, error) {
	decoded, err := url.PathUnescape(raw)
	if err != nil || !strings.HasPrefix(strings.TrimSpace(decoded), "{") {
		return SessionToken{}, ErrMalformedToken
	}

	var wire wireSessionToken
	if err := json.Unmarshal([]byte(decoded), &wire); err != nil {
		return SessionToken{}, ErrMalformedToken
	}

	token := SessionToken{
		Email:           wire.Email,
		IsAuthenticated: wire.IsAuthenticated,
	}

	if wire.LoginTime != "" {
		loginTime, err := time.Parse(time.RFC3339Nano, wire.LoginTime)
		if err != nil {
			return SessionToken{}, ErrMalformedToken
		}
		token.LoginTime = loginTime.UTC()
	}

	return token, nil
}

// InvalidReason explains why a session token was rejected.
type InvalidReason string

const (
	// ReasonNone is used for valid tokens.
	ReasonNone InvalidReason = ""
	// ReasonMissing means no token was presented.
	ReasonMissing InvalidReason = "Missing"
	// ReasonMalformed means the token could not be parsed.
	ReasonMalformed InvalidReason = "Malformed"
	// ReasonNotAuthenticated means the token does not assert authentication.
	ReasonNotAuthenticated InvalidReason = "NotAuthenticated"
	// ReasonExpired means the token is older than the session lifetime.
	ReasonExpired InvalidReason = "Expired"
)

// SessionValidation is the outcome of validating a session token.
type SessionValidation struct {
	Valid    bool
	Identity string
	Reason   InvalidReason
	Token    *SessionToken
}

// Err converts an invalid result into a session error; valid results return nil.
func (v SessionValidation) Err() error {
	if v.Valid {
		return nil
	}

	switch v.Reason {
	case ReasonMissing:
		return NewSessionError("MISSING_SESSION", "Authentication required")
	case ReasonMalformed:
		return NewSessionError("MALFORMED_SESSION", "Invalid session")
	case ReasonNotAuthenticated:
		return NewSessionError("NOT_AUTHENTICATED", "Session is not authenticated")
	case ReasonExpired:
		return NewSessionError("SESSION_EXPIRED", "Session has expired")
	default:
		return NewSessionError("INVALID_SESSION", "Invalid session")
	}
}

// ShouldClearCookie reports whether the presented cookie should be deleted.
func (v SessionValidation) ShouldClearCookie() bool {
	return v.Reason == ReasonMalformed || v.Reason == ReasonExpired
}

// GuardAction is the routing decision for a request.
type GuardAction int

const (
	// GuardAllow forwards the request.
	GuardAllow GuardAction = iota
	// GuardRedirectToLogin sends the visitor to the login entry point.
	GuardRedirectToLogin
)

// String returns a readable action name.
func (a GuardAction) String() string {
	switch a {
	case GuardAllow:
		return "Allow"
	case GuardRedirectToLogin:
		return "RedirectToLogin"
	default:
		return "Unknown"
	}
}

// GuardDecision is returned by the session gate for every routed request.
type GuardDecision struct {
	Action       GuardAction
	OriginalPath string
	LoginURL     string
	Validation   SessionValidation
}

// SessionEventKind identifies a session state change.
type SessionEventKind string

const (
	// SessionLoggedIn is emitted after a successful login.
	SessionLoggedIn SessionEventKind = "login"
	// SessionLoggedOut is emitted when a client discards its token.
	SessionLoggedOut SessionEventKind = "logout"
)

// SessionEvent describes a session state change.
type SessionEvent struct {
	Kind  SessionEventKind
	Email string
	At    time.Time
}
