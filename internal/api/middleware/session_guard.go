package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ericfisherdev/simple-catalog/internal/domain"
	"github.com/ericfisherdev/simple-catalog/internal/services"
)

// SessionContextKey is the key used to store the validated session in the Gin context.
const SessionContextKey = "session"

// SessionCookieConfig controls the attributes of the session cookie.
type SessionCookieConfig struct {
	TTL    time.Duration
	Secure bool
}

// SessionGuard routes every request through the session gate.
type SessionGuard struct {
	gate    services.SessionService
	cookies SessionCookieConfig
	logger  *slog.Logger
}

// NewSessionGuard creates a new session guard middleware.
func NewSessionGuard(gate services.SessionService, cookies SessionCookieConfig, logger *slog.Logger) *SessionGuard {
	if logger == nil {
		logger = slog.Default()
	}
	if cookies.TTL <= 0 {
		cookies.TTL = gate.TTL()
	}
	return &SessionGuard{
		gate:    gate,
		cookies: cookies,
		logger:  logger,
	}
}

// Handler allows public paths, lets valid sessions through to the protected
// path and redirects everything else to the login entry point.
func (g *SessionGuard) Handler() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		decision := g.gate.Guard(c.Request.URL.Path, RawSessionCookie(c))

		if decision.Action == domain.GuardRedirectToLogin {
			if decision.Validation.ShouldClearCookie() {
				g.logger.Info("Clearing invalid session cookie",
					"request_id", GetRequestID(c),
					"reason", string(decision.Validation.Reason),
				)
				ClearSessionCookie(c, g.cookies)
			}
			c.Redirect(http.StatusTemporaryRedirect, decision.LoginURL)
			c.Abort()
			return
		}

		if decision.Validation.Valid {
			c.Set(SessionContextKey, decision.Validation)
		}
		c.Next()
	})
}

// GetSessionFromContext returns the validated session stored by the guard.
func GetSessionFromContext(c *gin.Context) (domain.SessionValidation, bool) {
	if value, exists := c.Get(SessionContextKey); exists {
		if session, ok := value.(domain.SessionValidation); ok && session.Valid {
			return session, true
		}
	}
	return domain.SessionValidation{}, false
}

// RawSessionCookie returns the undecoded session cookie value, or "".
func RawSessionCookie(c *gin.Context) string {
	cookie, err := c.Request.Cookie(domain.SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetSessionCookie writes token as the session cookie.
func SetSessionCookie(c *gin.Context, token domain.SessionToken, config SessionCookieConfig) error {
	value, err := token.Encode()
	if err != nil {
		return domain.NewInternalError("SESSION_ENCODE_FAILED", "Failed to encode session", err)
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     domain.SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  token.LoginTime.Add(config.TTL),
		MaxAge:   int(config.TTL.Seconds()),
		Secure:   config.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context, config SessionCookieConfig) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     domain.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   config.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
