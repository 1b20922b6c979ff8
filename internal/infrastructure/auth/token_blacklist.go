package auth

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist revokes JWTs before their natural expiry. Logout
// blacklists a single token by JTI; a password change invalidates every
// token a user holds by recording a cutoff timestamp.
type TokenBlacklist interface {
	// AddToBlacklist revokes one token by its JTI. The TTL should match
	// the token's remaining lifetime so the entry cleans itself up.
	AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error

	// IsBlacklisted reports whether the JTI has been revoked.
	IsBlacklisted(ctx context.Context, jti string) (bool, error)

	// AddUserTokensToBlacklist records a cutoff for the user. Tokens
	// issued at or before the cutoff are rejected.
	AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error

	// IsUserTokenInvalidated reports whether a token issued at the given
	// time falls under the user's cutoff.
	IsUserTokenInvalidated(ctx context.Context, userID string, tokenIssuedAt time.Time) (bool, error)
}

const blacklistKeyPrefix = "token:blacklist:"

// RedisTokenBlacklist stores revocations in Redis so they are visible
// to every server instance. Entries expire with the tokens they revoke.
type RedisTokenBlacklist struct {
	client *redis.Client
}

// NewRedisTokenBlacklistWithClient wraps an existing Redis client.
func NewRedisTokenBlacklistWithClient(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client}
}

var _ TokenBlacklist = (*RedisTokenBlacklist)(nil)

func jtiKey(jti string) string {
	return blacklistKeyPrefix + "jti:" + jti
}

func userCutoffKey(userID string) string {
	return blacklistKeyPrefix + "user:" + userID
}

// AddToBlacklist revokes one token by JTI.
func (b *RedisTokenBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if err := b.client.Set(ctx, jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}
	return nil
}

// IsBlacklisted reports whether the JTI has been revoked.
func (b *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	exists, err := b.client.Exists(ctx, jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return exists > 0, nil
}

// AddUserTokensToBlacklist stores the current time as the user's
// revocation cutoff. The TTL should cover the longest-lived token the
// user could still hold.
func (b *RedisTokenBlacklist) AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error {
	cutoff := time.Now().Unix()
	if err := b.client.Set(ctx, userCutoffKey(userID), cutoff, ttl).Err(); err != nil {
		return fmt.Errorf("failed to invalidate user tokens: %w", err)
	}
	return nil
}

// IsUserTokenInvalidated compares the token's issue time to the user's
// revocation cutoff, if one exists.
func (b *RedisTokenBlacklist) IsUserTokenInvalidated(ctx context.Context, userID string, tokenIssuedAt time.Time) (bool, error) {
	raw, err := b.client.Get(ctx, userCutoffKey(userID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user token invalidation: %w", err)
	}

	cutoff, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse invalidation timestamp: %w", err)
	}
	return tokenIssuedAt.Unix() <= cutoff, nil
}

// Close closes the underlying Redis client.
func (b *RedisTokenBlacklist) Close() error {
	return b.client.Close()
}

// InMemoryTokenBlacklist keeps revocations in process memory. Only
// suitable for tests and single-instance development setups.
type InMemoryTokenBlacklist struct {
	mu          sync.RWMutex
	revokedJTIs map[string]time.Time // JTI -> entry expiry
	userCutoffs map[string]time.Time
}

// NewInMemoryTokenBlacklist creates an empty in-memory blacklist.
func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		revokedJTIs: make(map[string]time.Time),
		userCutoffs: make(map[string]time.Time),
	}
}

var _ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)

// AddToBlacklist revokes one token by JTI.
func (b *InMemoryTokenBlacklist) AddToBlacklist(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revokedJTIs[jti] = time.Now().Add(ttl)
	return nil
}

// IsBlacklisted reports whether the JTI is revoked. Expired entries are
// dropped lazily on lookup.
func (b *InMemoryTokenBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	expiry, ok := b.revokedJTIs[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(b.revokedJTIs, jti)
		return false, nil
	}
	return true, nil
}

// AddUserTokensToBlacklist records now as the user's revocation cutoff.
func (b *InMemoryTokenBlacklist) AddUserTokensToBlacklist(_ context.Context, userID string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.userCutoffs[userID] = time.Now()
	return nil
}

// IsUserTokenInvalidated compares with nanosecond precision so tokens
// issued immediately after the cutoff stay valid in tests.
func (b *InMemoryTokenBlacklist) IsUserTokenInvalidated(_ context.Context, userID string, tokenIssuedAt time.Time) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	cutoff, ok := b.userCutoffs[userID]
	if !ok {
		return false, nil
	}
	return tokenIssuedAt.UnixNano() <= cutoff.UnixNano(), nil
}
