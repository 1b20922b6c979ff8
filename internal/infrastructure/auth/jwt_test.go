package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elevatecrm/backend/internal/infrastructure/config"
)

// jwtTestConfig returns a sane base configuration; tests tweak fields
// as needed before constructing the service.
func jwtTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	}
}

// sharedSecretConfig signs access and refresh tokens with the same key
// so a token of one type parses under the other type's secret. That is
// the only way to exercise the token type check.
func sharedSecretConfig() config.JWTConfig {
	cfg := jwtTestConfig()
	cfg.RefreshSecret = cfg.Secret
	return cfg
}

func issueTestPair(t *testing.T, svc *JWTService) (GenerateTokenInput, *TokenPair) {
	t.Helper()
	input := GenerateTokenInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Email:    "jane@example.com",
		Roles:    []string{"admin", "member"},
	}
	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)
	return input, pair
}

func TestNewJWTService(t *testing.T) {
	t.Run("copies configuration", func(t *testing.T) {
		cfg := jwtTestConfig()
		svc := NewJWTService(cfg)

		assert.Equal(t, []byte(cfg.Secret), svc.accessSecret)
		assert.Equal(t, []byte(cfg.RefreshSecret), svc.refreshSecret)
		assert.Equal(t, cfg.AccessTokenExpiration, svc.accessExpiration)
		assert.Equal(t, cfg.RefreshTokenExpiration, svc.refreshExpiration)
		assert.Equal(t, cfg.Issuer, svc.issuer)
		assert.Equal(t, cfg.MaxRefreshCount, svc.maxRefreshCount)
	})

	t.Run("refresh secret falls back to the access secret", func(t *testing.T) {
		cfg := jwtTestConfig()
		cfg.RefreshSecret = ""

		svc := NewJWTService(cfg)
		assert.Equal(t, []byte(cfg.Secret), svc.refreshSecret)
	})
}

func TestGenerateTokenPair(t *testing.T) {
	svc := NewJWTService(jwtTestConfig())
	_, pair := issueTestPair(t, svc)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.AccessTokenExpiresAt.After(time.Now()))
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))
}

func TestValidateAccessToken(t *testing.T) {
	t.Run("round trips the claims", func(t *testing.T) {
		svc := NewJWTService(jwtTestConfig())
		input, pair := issueTestPair(t, svc)

		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, input.TenantID.String(), claims.TenantID)
		assert.Equal(t, input.UserID.String(), claims.UserID)
		assert.Equal(t, input.Email, claims.Email)
		assert.Equal(t, input.Roles, claims.Roles)
		assert.Equal(t, TokenTypeAccess, claims.TokenType)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		cfg := jwtTestConfig()
		cfg.AccessTokenExpiration = -time.Hour
		svc := NewJWTService(cfg)
		_, pair := issueTestPair(t, svc)

		_, err := svc.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		svc := NewJWTService(jwtTestConfig())
		_, err := svc.ValidateAccessToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects a refresh token", func(t *testing.T) {
		svc := NewJWTService(sharedSecretConfig())
		_, pair := issueTestPair(t, svc)

		_, err := svc.ValidateAccessToken(pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		issuer := NewJWTService(jwtTestConfig())
		_, pair := issueTestPair(t, issuer)

		cfg := jwtTestConfig()
		cfg.Secret = "different-secret-key-32-chars!!!"
		verifier := NewJWTService(cfg)

		_, err := verifier.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestValidateRefreshToken(t *testing.T) {
	t.Run("carries identity but no profile claims", func(t *testing.T) {
		svc := NewJWTService(jwtTestConfig())
		input, pair := issueTestPair(t, svc)

		claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, input.TenantID.String(), claims.TenantID)
		assert.Equal(t, input.UserID.String(), claims.UserID)
		assert.Equal(t, TokenTypeRefresh, claims.TokenType)
		assert.Zero(t, claims.RefreshCount)
		assert.Empty(t, claims.Email)
		assert.Empty(t, claims.Roles)
	})

	t.Run("rejects an access token", func(t *testing.T) {
		svc := NewJWTService(sharedSecretConfig())
		_, pair := issueTestPair(t, svc)

		_, err := svc.ValidateRefreshToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})
}

func TestRefreshTokenPair(t *testing.T) {
	t.Run("rotates both tokens and applies fresh roles", func(t *testing.T) {
		svc := NewJWTService(jwtTestConfig())
		_, pair := issueTestPair(t, svc)

		rotated, err := svc.RefreshTokenPair(pair.RefreshToken, "jane@example.com", []string{"manager"})
		require.NoError(t, err)
		assert.NotEqual(t, pair.AccessToken, rotated.AccessToken)
		assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

		claims, err := svc.ValidateAccessToken(rotated.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, []string{"manager"}, claims.Roles)
	})

	t.Run("counts each rotation", func(t *testing.T) {
		svc := NewJWTService(jwtTestConfig())
		input, pair := issueTestPair(t, svc)

		for want := 1; want <= 2; want++ {
			var err error
			pair, err = svc.RefreshTokenPair(pair.RefreshToken, input.Email, input.Roles)
			require.NoError(t, err)

			claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
			require.NoError(t, err)
			assert.Equal(t, want, claims.RefreshCount)
		}
	})

	t.Run("stops at the rotation limit", func(t *testing.T) {
		cfg := jwtTestConfig()
		cfg.MaxRefreshCount = 2
		svc := NewJWTService(cfg)
		input, pair := issueTestPair(t, svc)

		var err error
		for i := 0; i < 2; i++ {
			pair, err = svc.RefreshTokenPair(pair.RefreshToken, input.Email, input.Roles)
			require.NoError(t, err)
		}

		_, err = svc.RefreshTokenPair(pair.RefreshToken, input.Email, input.Roles)
		assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		svc := NewJWTService(jwtTestConfig())
		_, err := svc.RefreshTokenPair("not-a-jwt", "", nil)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects an access token", func(t *testing.T) {
		svc := NewJWTService(sharedSecretConfig())
		_, pair := issueTestPair(t, svc)

		_, err := svc.RefreshTokenPair(pair.AccessToken, "", nil)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})
}

func TestClaims_UUIDAccessors(t *testing.T) {
	svc := NewJWTService(jwtTestConfig())
	input, pair := issueTestPair(t, svc)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	tenantUUID, err := claims.GetTenantUUID()
	require.NoError(t, err)
	assert.Equal(t, input.TenantID, tenantUUID)

	userUUID, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, input.UserID, userUUID)
}

func TestClaims_Roles(t *testing.T) {
	claims := &Claims{Roles: []string{"admin", "member"}}

	assert.True(t, claims.HasRole("admin"))
	assert.True(t, claims.HasRole("member"))
	assert.False(t, claims.HasRole("manager"))

	assert.True(t, claims.HasAnyRole("manager", "member"))
	assert.False(t, claims.HasAnyRole("manager", "viewer"))
}
