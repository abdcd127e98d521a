package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars-long"

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	tokens, err := NewTokenService(testSecret)
	require.NoError(t, err)
	return tokens
}

func TestNewTokenService_EmptySecret(t *testing.T) {
	tokens, err := NewTokenService("")
	assert.Error(t, err)
	assert.Nil(t, tokens)
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	tokens := newTestTokenService(t)

	token, err := tokens.Issue("65f1c0ffee0000000000abcd")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "65f1c0ffee0000000000abcd", userID)
}

func TestTokenService_ExpiresAfterOneDay(t *testing.T) {
	tokens := newTestTokenService(t)
	issuedAt := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return issuedAt }

	token, err := tokens.Issue("user-1")
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.WithinDuration(t, issuedAt.Add(24*time.Hour), claims.ExpiresAt.Time, time.Second)

	tokens.now = func() time.Time { return issuedAt.Add(23 * time.Hour) }
	_, err = tokens.Verify(token)
	assert.NoError(t, err)

	tokens.now = func() time.Time { return issuedAt.Add(25 * time.Hour) }
	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsOtherSecret(t *testing.T) {
	other, err := NewTokenService("another-secret-key-at-least-32-chars")
	require.NoError(t, err)

	token, err := other.Issue("user-1")
	require.NoError(t, err)

	_, err = newTestTokenService(t).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsMalformed(t *testing.T) {
	tokens := newTestTokenService(t)

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"random string", "not-a-jwt-token"},
		{"incomplete token", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9"},
		{"two parts", "header.payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenService_RejectsTampered(t *testing.T) {
	tokens := newTestTokenService(t)

	token, err := tokens.Issue("user-1")
	require.NoError(t, err)

	tampered := token[:len(token)-5] + "XXXXX"
	_, err = tokens.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsNoneAlgorithm(t *testing.T) {
	tokens := newTestTokenService(t)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsMissingSubject(t *testing.T) {
	tokens := newTestTokenService(t)

	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := raw.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsMissingExpiry(t *testing.T) {
	tokens := newTestTokenService(t)

	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user-1"})
	token, err := raw.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
