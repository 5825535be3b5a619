package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "session:revoked:"

// RevocationStore remembers session token ids that were logged out
// until the token would have expired anyway.
type RevocationStore struct {
	prefix string
}

func NewRevocationStore() *RevocationStore {
	return &RevocationStore{prefix: revokedKeyPrefix}
}

func (s *RevocationStore) key(tokenID string) string {
	return s.prefix + tokenID
}

// Revoke marks tokenID as revoked for ttl. Non-positive ttl is a no-op.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return Set(ctx, s.key(tokenID), "1", ttl)
}

// IsRevoked reports whether tokenID was revoked
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	_, err := Get(ctx, s.key(tokenID))
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
