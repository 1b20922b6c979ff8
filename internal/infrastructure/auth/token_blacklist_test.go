package auth_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elevatecrm/backend/internal/infrastructure/auth"
)

func TestInMemoryTokenBlacklist_RevokeByJTI(t *testing.T) {
	ctx := context.Background()
	blacklist := auth.NewInMemoryTokenBlacklist()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-revoked", time.Hour))

	revoked, err := blacklist.IsBlacklisted(ctx, "jti-revoked")
	require.NoError(t, err)
	assert.True(t, revoked)

	other, err := blacklist.IsBlacklisted(ctx, "jti-untouched")
	require.NoError(t, err)
	assert.False(t, other)
}

func TestInMemoryTokenBlacklist_EntryExpires(t *testing.T) {
	ctx := context.Background()
	blacklist := auth.NewInMemoryTokenBlacklist()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-short", time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	revoked, err := blacklist.IsBlacklisted(ctx, "jti-short")
	require.NoError(t, err)
	assert.False(t, revoked, "entry should lapse with the token it revoked")
}

func TestInMemoryTokenBlacklist_UserCutoff(t *testing.T) {
	ctx := context.Background()
	blacklist := auth.NewInMemoryTokenBlacklist()
	issuedEarlier := time.Now().Add(-time.Hour)

	invalidated, err := blacklist.IsUserTokenInvalidated(ctx, "user-1", issuedEarlier)
	require.NoError(t, err)
	assert.False(t, invalidated, "no cutoff recorded yet")

	require.NoError(t, blacklist.AddUserTokensToBlacklist(ctx, "user-1", time.Hour))

	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "user-1", issuedEarlier)
	require.NoError(t, err)
	assert.True(t, invalidated, "tokens from before the cutoff are out")

	// A token minted after the cutoff survives it.
	time.Sleep(2 * time.Millisecond)
	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "user-1", time.Now())
	require.NoError(t, err)
	assert.False(t, invalidated)

	// The cutoff is scoped to one user.
	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "user-2", issuedEarlier)
	require.NoError(t, err)
	assert.False(t, invalidated)
}

func TestInMemoryTokenBlacklist_TracksManyTokens(t *testing.T) {
	ctx := context.Background()
	blacklist := auth.NewInMemoryTokenBlacklist()

	for i := 0; i < 10; i++ {
		require.NoError(t, blacklist.AddToBlacklist(ctx, fmt.Sprintf("jti-%d", i), time.Hour))
	}
	for i := 0; i < 10; i++ {
		revoked, err := blacklist.IsBlacklisted(ctx, fmt.Sprintf("jti-%d", i))
		require.NoError(t, err)
		assert.True(t, revoked, "jti-%d should be revoked", i)
	}

	revoked, err := blacklist.IsBlacklisted(ctx, "jti-99")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenBlacklist_Implementations(t *testing.T) {
	var _ auth.TokenBlacklist = (*auth.InMemoryTokenBlacklist)(nil)
	var _ auth.TokenBlacklist = (*auth.RedisTokenBlacklist)(nil)
}
