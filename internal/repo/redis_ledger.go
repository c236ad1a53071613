package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/bug_tracker/internal/tokens"
)

const revokedKeyPrefix = "revoked:"

// RedisLedger keeps revoked token digests as plain keys with no expiry.
type RedisLedger struct {
	Client redis.UniversalClient
}

func NewRedisLedger(url string) (*RedisLedger, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return &RedisLedger{Client: redis.NewClient(opt)}, nil
}

func (l *RedisLedger) key(token string) string {
	return revokedKeyPrefix + tokens.Sha256Hex(token)
}

func (l *RedisLedger) Revoke(ctx context.Context, token string) error {
	if err := l.Client.SetNX(ctx, l.key(token), time.Now().UTC().Unix(), 0).Err(); err != nil {
		return fmt.Errorf("redis revoke: %w", err)
	}
	return nil
}

func (l *RedisLedger) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := l.Client.Exists(ctx, l.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

func (l *RedisLedger) Ping(ctx context.Context) error {
	return l.Client.Ping(ctx).Err()
}

func (l *RedisLedger) Close() error {
	return l.Client.Close()
}
