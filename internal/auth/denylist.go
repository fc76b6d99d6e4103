package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist stores revoked session tokens in Redis until they expire.
// Logout writes here; credential validation checks membership.
type Denylist struct {
	client *redis.Client
}

func NewDenylist(client *redis.Client) *Denylist {
	return &Denylist{client: client}
}

// getRevokedKey generates the Redis key for a revoked token marker
func getRevokedKey(tokenHash string) string {
	return fmt.Sprintf("session_token:revoked:%s", tokenHash)
}

// Revoke marks a token as revoked until its natural expiry.
// Redis TTL handles cleanup; nothing is stored past expiresAt.
func (d *Denylist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already expired; verification will reject it anyway.
		return nil
	}

	key := getRevokedKey(hashToken(token))
	if err := d.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

// IsRevoked reports whether a token has been revoked.
func (d *Denylist) IsRevoked(ctx context.Context, token string) (bool, error) {
	key := getRevokedKey(hashToken(token))

	exists, err := d.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}

	return exists > 0, nil
}

// hashToken keeps raw tokens out of Redis keys.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
