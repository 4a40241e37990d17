package services

//go:generate mockgen -destination=mocks/mock_credential_verifier.go -package=mocks github.com/ericfisherdev/simple-catalog/internal/services CredentialVerifier

import (
	"context"

	"github.com/ericfisherdev/simple-catalog/internal/domain"
)

// CredentialVerifier checks a submitted email and password pair.
type CredentialVerifier interface {
	// Verify returns nil on an exact match and an InvalidCredentials error
	// otherwise, without revealing which field was wrong.
	Verify(ctx context.Context, email, password string) error
}

// BcryptCredentialVerifier compares logins against a single bcrypt-hashed credential.
type BcryptCredentialVerifier struct {
	credential *domain.Credential
}

// NewBcryptCredentialVerifier hashes password once and returns a verifier for email.
func NewBcryptCredentialVerifier(email, password string) (*BcryptCredentialVerifier, error) {
	credential, err := domain.NewCredential(email, password)
	if err != nil {
		return nil, err
	}
	return &BcryptCredentialVerifier{credential: credential}, nil
}

// Verify checks email and password against the configured credential.
func (v *BcryptCredentialVerifier) Verify(ctx context.Context, email, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return v.credential.Matches(email, password)
}
