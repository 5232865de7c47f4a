// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/habitflow/internal/config"
	"github.com/angelamos/habitflow/internal/core"
)

const testSecret = "unit-test-secret-key-0123456789abcdef"

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 7 * 24 * time.Hour,
		Issuer:             "habitflow-test",
		Audience:           "habitflow-api",
	}
}

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	manager, err := NewJWTManager(testJWTConfig(), testSecret)
	require.NoError(t, err)
	return manager
}

func TestNewJWTManagerRejectsEmptySecret(t *testing.T) {
	_, err := NewJWTManager(testJWTConfig(), "")
	require.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := newTestManager(t)

	signed, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID:       42,
		Role:         "user",
		TokenVersion: 3,
	})
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := manager.VerifyAccessToken(context.Background(), signed)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, 3, claims.TokenVersion)
}

func TestVerifyAccessTokenRejectsGarbage(t *testing.T) {
	manager := newTestManager(t)

	_, err := manager.VerifyAccessToken(context.Background(), "not.a.token")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTokenInvalid))
}

func TestVerifyAccessTokenRejectsWrongSecret(t *testing.T) {
	manager := newTestManager(t)

	other, err := NewJWTManager(testJWTConfig(),
		"a-completely-different-secret-key-value")
	require.NoError(t, err)

	signed, err := other.CreateAccessToken(AccessTokenClaims{
		UserID: 42,
		Role:   "user",
	})
	require.NoError(t, err)

	_, err = manager.VerifyAccessToken(context.Background(), signed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTokenInvalid))
}

func TestVerifyAccessTokenRejectsWrongIssuer(t *testing.T) {
	manager := newTestManager(t)

	otherCfg := testJWTConfig()
	otherCfg.Issuer = "someone-else"
	other, err := NewJWTManager(otherCfg, testSecret)
	require.NoError(t, err)

	signed, err := other.CreateAccessToken(AccessTokenClaims{
		UserID: 42,
		Role:   "user",
	})
	require.NoError(t, err)

	_, err = manager.VerifyAccessToken(context.Background(), signed)
	require.Error(t, err)
}

func TestVerifyAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenExpire = -time.Minute
	manager, err := NewJWTManager(cfg, testSecret)
	require.NoError(t, err)

	signed, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID: 42,
		Role:   "user",
	})
	require.NoError(t, err)

	_, err = manager.VerifyAccessToken(context.Background(), signed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTokenExpired))
}

func TestCreateRefreshToken(t *testing.T) {
	manager := newTestManager(t)

	data, err := manager.CreateRefreshToken(42, "")
	require.NoError(t, err)

	assert.NotEmpty(t, data.Token)
	assert.NotEmpty(t, data.Hash)
	assert.NotEmpty(t, data.FamilyID, "a fresh token starts a new family")
	assert.True(t, data.ExpiresAt.After(time.Now()))

	assert.True(t, manager.VerifyRefreshTokenHash(data.Token, data.Hash))
	assert.False(t, manager.VerifyRefreshTokenHash("tampered", data.Hash))
}

func TestCreateRefreshTokenKeepsFamily(t *testing.T) {
	manager := newTestManager(t)

	data, err := manager.CreateRefreshToken(42, "existing-family")
	require.NoError(t, err)

	assert.Equal(t, "existing-family", data.FamilyID)
}
