package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ericfisherdev/simple-catalog/internal/client"
	"github.com/ericfisherdev/simple-catalog/internal/domain"
	"github.com/ericfisherdev/simple-catalog/internal/services"
)

// WebSessionClient signs in and out through the web front end.
type WebSessionClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewWebSessionClient creates a client that never follows redirects so the
// session cookie set by the login response stays visible.
func NewWebSessionClient(baseURL string, timeout time.Duration) *WebSessionClient {
	return &WebSessionClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// loginResponse is the JSON body of POST /login.
type loginResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Data    domain.LoginResult `json:"data"`
}

// Login posts the credentials and returns the raw session cookie value.
func (w *WebSessionClient) Login(ctx context.Context, email, password string) (string, domain.LoginResult, error) {
	payload, err := json.Marshal(domain.LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", domain.LoginResult{}, fmt.Errorf("failed to marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.BaseURL+"/login", bytes.NewReader(payload))
	if err != nil {
		return "", domain.LoginResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := w.HTTPClient.Do(req)
	if err != nil {
		return "", domain.LoginResult{}, domain.NewTransportError("WEB_UNREACHABLE", "Web front end is unavailable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.LoginResult{}, fmt.Errorf("failed to read response: %w", err)
	}

	var decoded loginResponse
	_ = json.Unmarshal(body, &decoded)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", domain.LoginResult{}, domain.NewInvalidCredentialsError()
	case resp.StatusCode != http.StatusOK:
		message := decoded.Message
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return "", domain.LoginResult{}, domain.NewTransportError("LOGIN_FAILED",
			fmt.Sprintf("login failed (%d): %s", resp.StatusCode, message), nil)
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == domain.SessionCookieName && cookie.Value != "" {
			return cookie.Value, decoded.Data, nil
		}
	}
	return "", domain.LoginResult{}, domain.NewSessionError("MISSING_SESSION", "Login response did not set a session cookie")
}

// Logout tells the web front end the session is being discarded.
func (w *WebSessionClient) Logout(ctx context.Context, rawCookie string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.BaseURL+"/logout", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if rawCookie != "" {
		req.AddCookie(&http.Cookie{Name: domain.SessionCookieName, Value: rawCookie})
	}

	resp, err := w.HTTPClient.Do(req)
	if err != nil {
		return domain.NewTransportError("WEB_UNREACHABLE", "Web front end is unavailable", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return domain.NewTransportError("LOGOUT_FAILED", fmt.Sprintf("logout failed (%d)", resp.StatusCode), nil)
	}
	return nil
}

// newSessionValidator builds a gate used only to validate stored cookies.
func newSessionValidator() services.SessionService {
	return services.NewSessionGate(nil, services.SessionGateConfig{
		TTL: viper.GetDuration("session_ttl"),
	})
}

// validateStoredSession checks the session cookie saved in profile.
func validateStoredSession(profile *Profile) domain.SessionValidation {
	return newSessionValidator().Validate(profile.SessionCookie)
}

// requireSession fails unless profile holds a valid session.
func requireSession(profile *Profile) error {
	validation := validateStoredSession(profile)
	if err := validation.Err(); err != nil {
		return fmt.Errorf("%w (run '%s auth login')", err, applicationName)
	}
	return nil
}

// newCatalogClient builds the API client for profile.
func newCatalogClient(profile *Profile) client.CatalogClient {
	return client.NewCatalogClient(client.Config{
		BaseURL:  profile.APIURL,
		Timeout:  requestTimeout(),
		Attempts: viper.GetUint("retries"),
		Logger:   cliLogger(),
	})
}

func requestTimeout() time.Duration {
	if timeout := viper.GetDuration("timeout"); timeout > 0 {
		return timeout
	}
	return 10 * time.Second
}
