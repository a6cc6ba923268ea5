package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrNoPasswordHash     = errors.New("operator password hash is not configured")
)

// OperatorSubject is the token subject for the node operator.
const OperatorSubject = "operator"

// HashPassword returns a bcrypt hash of password for OPERATOR_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", ErrWeakPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// PasswordAuthenticator checks the operator password against a bcrypt hash.
type PasswordAuthenticator struct {
	hash []byte
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(hash string) *PasswordAuthenticator {
	return &PasswordAuthenticator{hash: []byte(hash)}
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// Authenticate compares the password with the configured hash.
func (a *PasswordAuthenticator) Authenticate(credential string) (string, error) {
	if len(a.hash) == 0 {
		return "", ErrNoPasswordHash
	}
	if err := a.ValidateCredential(credential); err != nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(credential)); err != nil {
		return "", ErrInvalidCredentials
	}
	return OperatorSubject, nil
}
