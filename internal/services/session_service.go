package services

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ericfisherdev/simple-catalog/internal/domain"
)

// SessionService defines the interface for the cookie session gate.
// Following Interface Segregation Principle.
type SessionService interface {
	// Login verifies the credential pair and issues a token stamped with the current time.
	Login(ctx context.Context, email, password string) (domain.SessionToken, error)

	// Logout notifies listeners that email discarded its token. There is no server-side state.
	Logout(ctx context.Context, email string)

	// Validate checks a raw cookie value. An empty value is Missing.
	Validate(raw string) domain.SessionValidation

	// ValidateToken checks an already decoded token.
	ValidateToken(token domain.SessionToken) domain.SessionValidation

	// Guard decides whether a request for path may proceed.
	Guard(path, raw string) domain.GuardDecision

	// IsProtected reports whether path requires a session.
	IsProtected(path string) bool

	// LoginURL returns the login entry point preserving originalPath.
	LoginURL(originalPath string) string

	// SafeRedirect returns target when it is a local path, else the default redirect.
	SafeRedirect(target string) string

	// TTL returns the session lifetime.
	TTL() time.Duration

	// Subscribe registers listener for login and logout events and returns
	// a function that removes it.
	Subscribe(listener SessionListener) func()
}

// SessionListener receives session state changes.
type SessionListener func(event domain.SessionEvent)

// SessionGateConfig holds configuration for the session gate.
type SessionGateConfig struct {
	TTL             time.Duration    // Session lifetime (default: 24 hours)
	ProtectedPath   string           // Guarded route (default: /add-item)
	LoginPath       string           // Login entry point (default: /login)
	DefaultRedirect string           // Post-login destination (default: /items)
	Clock           func() time.Time // Time source (default: time.Now)
	Logger          *slog.Logger     // Logger instance
}

// sessionGate implements SessionService.
type sessionGate struct {
	verifier CredentialVerifier
	config   SessionGateConfig
	logger   *slog.Logger

	mu        sync.RWMutex
	listeners map[int]SessionListener
	nextID    int
}

// NewSessionGate creates a new session gate backed by verifier.
func NewSessionGate(verifier CredentialVerifier, config SessionGateConfig) SessionService {
	if config.TTL <= 0 {
		config.TTL = 24 * time.Hour
	}
	if config.ProtectedPath == "" {
		config.ProtectedPath = "/add-item"
	}
	if config.LoginPath == "" {
		config.LoginPath = "/login"
	}
	if config.DefaultRedirect == "" {
		config.DefaultRedirect = "/items"
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &sessionGate{
		verifier:  verifier,
		config:    config,
		logger:    config.Logger,
		listeners: make(map[int]SessionListener),
	}
}

// Login verifies the credential pair and issues a token.
func (g *sessionGate) Login(ctx context.Context, email, password string) (domain.SessionToken, error) {
	if err := g.verifier.Verify(ctx, email, password); err != nil {
		if domain.IsType(err, domain.AuthenticationError) {
			return domain.SessionToken{}, err
		}
		if ctx.Err() != nil {
			return domain.SessionToken{}, err
		}
		return domain.SessionToken{}, domain.NewInternalError("CREDENTIAL_CHECK_FAILED", "Failed to verify credentials", err)
	}

	token := domain.NewSessionToken(email, g.config.Clock())
	g.publish(domain.SessionEvent{Kind: domain.SessionLoggedIn, Email: email, At: token.LoginTime})
	return token, nil
}

// Logout notifies listeners.
func (g *sessionGate) Logout(_ context.Context, email string) {
	g.publish(domain.SessionEvent{Kind: domain.SessionLoggedOut, Email: email, At: g.config.Clock().UTC()})
}

// Validate checks a raw cookie value.
func (g *sessionGate) Validate(raw string) domain.SessionValidation {
	if raw == "" {
		return domain.SessionValidation{Reason: domain.ReasonMissing}
	}

	token, err := domain.DecodeSessionToken(raw)
	if err != nil {
		return domain.SessionValidation{Reason: domain.ReasonMalformed}
	}
	return g.ValidateToken(token)
}

// ValidateToken checks a decoded token against the current time.
func (g *sessionGate) ValidateToken(token domain.SessionToken) domain.SessionValidation {
	result := domain.SessionValidation{Token: &token}

	switch {
	case !token.IsAuthenticated:
		result.Reason = domain.ReasonNotAuthenticated
	case token.LoginTime.IsZero():
		result.Reason = domain.ReasonMalformed
	case g.config.Clock().Sub(token.LoginTime) > g.config.TTL:
		result.Reason = domain.ReasonExpired
	default:
		// A login time ahead of the clock counts as fresh.
		result.Valid = true
		result.Identity = token.Email
	}

	return result
}

// Guard decides whether a request for path may proceed.
func (g *sessionGate) Guard(path, raw string) domain.GuardDecision {
	if !g.IsProtected(path) {
		decision := domain.GuardDecision{Action: domain.GuardAllow, OriginalPath: path}
		if raw != "" {
			decision.Validation = g.Validate(raw)
		}
		return decision
	}

	validation := g.Validate(raw)
	if validation.Valid {
		return domain.GuardDecision{
			Action:       domain.GuardAllow,
			OriginalPath: path,
			Validation:   validation,
		}
	}

	g.logger.Debug("Session rejected for protected path",
		"path", path,
		"reason", string(validation.Reason),
	)

	return domain.GuardDecision{
		Action:       domain.GuardRedirectToLogin,
		OriginalPath: path,
		LoginURL:     g.LoginURL(path),
		Validation:   validation,
	}
}

// IsProtected matches the protected path and anything below it.
func (g *sessionGate) IsProtected(path string) bool {
	protected := g.config.ProtectedPath
	return path == protected || strings.HasPrefix(path, protected+"/")
}

// LoginURL returns the login path with the redirect query parameter.
func (g *sessionGate) LoginURL(originalPath string) string {
	if originalPath == "" {
		return g.config.LoginPath
	}
	query := url.Values{}
	query.Set("redirect", originalPath)
	return g.config.LoginPath + "?" + query.Encode()
}

// SafeRedirect only honours same-origin absolute paths.
func (g *sessionGate) SafeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") ||
		strings.HasPrefix(target, "/\\") {
		return g.config.DefaultRedirect
	}
	return target
}

// TTL returns the session lifetime.
func (g *sessionGate) TTL() time.Duration {
	return g.config.TTL
}

// Subscribe registers a listener.
func (g *sessionGate) Subscribe(listener SessionListener) func() {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.listeners[id] = listener
	g.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.listeners, id)
			g.mu.Unlock()
		})
	}
}

// publish calls listeners outside the lock so they may unsubscribe.
func (g *sessionGate) publish(event domain.SessionEvent) {
	g.mu.RLock()
	listeners := make([]SessionListener, 0, len(g.listeners))
	for _, listener := range g.listeners {
		listeners = append(listeners, listener)
	}
	g.mu.RUnlock()

	for _, listener := range listeners {
		listener(event)
	}
}
