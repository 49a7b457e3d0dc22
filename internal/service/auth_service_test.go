package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/routine-admin-api/internal/models"
	appErrors "github.com/noah-isme/routine-admin-api/pkg/errors"
)

func TestAuthServiceIssueAndValidate(t *testing.T) {
	svc := NewAuthService(nil, AuthConfig{AccessTokenSecret: "secret", Issuer: "routine-idp"})

	token, err := svc.IssueToken(models.JWTClaims{
		UserID:      "user-1",
		Role:        models.RoleCoordinator,
		ProgramPIDs: []string{"CSE"},
	}, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "routine-idp", claims.Issuer)
	assert.Equal(t, models.RoleCoordinator, claims.Role)
	assert.Equal(t, []string{"CSE"}, claims.ProgramPIDs)
}

func TestAuthServiceRejectsForeignIssuerAndSecret(t *testing.T) {
	issuer := NewAuthService(nil, AuthConfig{AccessTokenSecret: "secret", Issuer: "other"})
	token, err := issuer.IssueToken(models.JWTClaims{UserID: "user-1", Role: models.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	verifier := NewAuthService(nil, AuthConfig{AccessTokenSecret: "secret", Issuer: "routine-idp"})
	_, err = verifier.ValidateToken(token)
	require.ErrorIs(t, err, appErrors.ErrUnauthorized)

	wrongSecret := NewAuthService(nil, AuthConfig{AccessTokenSecret: "different"})
	_, err = wrongSecret.ValidateToken(token)
	require.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthServiceRejectsExpiredToken(t *testing.T) {
	svc := NewAuthService(nil, AuthConfig{AccessTokenSecret: "secret"})
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.IssueToken(models.JWTClaims{UserID: "user-1"}, time.Hour)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthServiceFallsBackToSubject(t *testing.T) {
	claims := models.JWTClaims{
		Role: models.RoleTeacher,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-9",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	svc := NewAuthService(nil, AuthConfig{AccessTokenSecret: "secret"})
	parsed, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", parsed.UserID)
}
