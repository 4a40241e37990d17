package domain

import (
	"golang.org/x/crypto/bcrypt"
)

// MessageInvalidCredentials is shown for any failed login.
const MessageInvalidCredentials = "Invalid email or password."

// Credential is the single configured login identity.
type Credential struct {
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Never serialize password hash
}

// NewCredential hashes password and returns the credential for email.
func NewCredential(email, password string) (*Credential, error) {
	c := &Credential{Email: email}
	if err := c.SetPassword(password); err != nil {
		return nil, err
	}
	return c, nil
}

// SetPassword hashes and sets the credential's password.
func (c *Credential) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return NewInternalError("PASSWORD_HASH_FAILED", "Failed to hash password", err)
	}
	c.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies the provided password against the stored hash.
func (c *Credential) CheckPassword(password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password))
	if err != nil {
		return NewInvalidCredentialsError()
	}
	return nil
}

// Matches reports whether email and password both match the credential.
// Both checks always run so that timing does not reveal which one failed.
func (c *Credential) Matches(email, password string) error {
	emailOK := email == c.Email
	passwordErr := c.CheckPassword(password)
	if !emailOK || passwordErr != nil {
		return NewInvalidCredentialsError()
	}
	return nil
}

// NewInvalidCredentialsError returns the error used for every login mismatch.
func NewInvalidCredentialsError() *Error {
	return NewAuthenticationError("INVALID_CREDENTIALS", MessageInvalidCredentials)
}

// LoginRequest represents login credentials submitted as a form or JSON.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Redirect string `json:"redirect,omitempty" form:"redirect"`
}

// LoginResult is returned to JSON login callers.
type LoginResult struct {
	Email    string `json:"email"`
	Redirect string `json:"redirect"`
}
