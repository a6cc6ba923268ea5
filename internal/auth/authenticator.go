package auth

// Authenticator defines the interface for operator authentication.
// This abstraction allows swapping between different auth methods (password,
// client certificates, etc.) without changing the service layer code.
type Authenticator interface {
	// Authenticate verifies the credential and returns the subject to put in
	// the issued token. Returns ErrInvalidCredentials if it does not match.
	Authenticate(credential string) (string, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
