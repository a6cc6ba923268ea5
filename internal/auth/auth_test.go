package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordAuthenticator(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	var a Authenticator = NewPasswordAuthenticator(hash)

	subject, err := a.Authenticate("correct horse")
	require.NoError(t, err)
	assert.Equal(t, OperatorSubject, subject)

	_, err = a.Authenticate("wrong horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.Authenticate("short")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = NewPasswordAuthenticator("").Authenticate("correct horse")
	assert.ErrorIs(t, err, ErrNoPasswordHash)
}

func TestHashPasswordRejectsWeak(t *testing.T) {
	_, err := HashPassword("1234567")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, expiresAt, err := m.Generate(OperatorSubject)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, OperatorSubject, claims.Subject)

	_, err = NewJWTManager("other-secret", time.Hour).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManagerExpired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)
	token, _, err := m.Generate(OperatorSubject)
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManagerRejectsNoneAlg(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: OperatorSubject})
	unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTManager("test-secret", time.Hour).Validate(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
