package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmdesk/farmdesk/internal/ports"
)

func TestJWTService_RoundTrip(t *testing.T) {
	service, err := NewJWTService("test-secret", "farmdesk")
	require.NoError(t, err)

	claims := ports.TokenClaims{
		UserID: "user-1",
		Email:  "ana@example.com",
		Name:   "Ana",
		Role:   "ADMIN",
	}

	token, err := service.GenerateAccessToken(claims, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := service.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, claims, *parsed)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	service, err := NewJWTService("test-secret", "farmdesk")
	require.NoError(t, err)

	token, err := service.GenerateAccessToken(ports.TokenClaims{UserID: "user-1"}, -time.Minute)
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTService_WrongSecret(t *testing.T) {
	issuer, err := NewJWTService("secret-a", "farmdesk")
	require.NoError(t, err)
	verifier, err := NewJWTService("secret-b", "farmdesk")
	require.NoError(t, err)

	token, err := issuer.GenerateAccessToken(ports.TokenClaims{UserID: "user-1"}, time.Hour)
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTService_GarbageToken(t *testing.T) {
	service, err := NewJWTService("test-secret", "farmdesk")
	require.NoError(t, err)

	_, err = service.ValidateAccessToken("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService("", "farmdesk")
	assert.Error(t, err)
}
