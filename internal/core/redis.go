// AngelaMos | 2026
// redis.go

package core

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/angelamos/habitflow/internal/config"
)

const (
	redisDialTimeout = 5 * time.Second
	blacklistPrefix  = "blacklist:"
)

// Redis wraps the shared client. Besides raw client access for the rate
// limiter it carries the access-token blacklist, which lives here so the
// key layout stays in one place.
type Redis struct {
	Client *redis.Client
}

func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.PoolTimeout = 30 * time.Second
	opts.ConnMaxIdleTime = 5 * time.Minute

	r := &Redis{Client: redis.NewClient(opts)}

	if err := r.Ping(ctx); err != nil {
		r.Close()
		return nil, err
	}

	return r, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, redisDialTimeout)
	defer cancel()

	if err := r.Client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}

	return nil
}

func (r *Redis) Close() error {
	if r.Client == nil {
		return nil
	}
	return r.Client.Close()
}

func (r *Redis) PoolStats() *redis.PoolStats {
	return r.Client.PoolStats()
}

// BlacklistToken marks an access token's JTI as revoked until the token
// would have expired on its own. The value is irrelevant, only the key's
// presence matters.
func (r *Redis) BlacklistToken(
	ctx context.Context,
	jti string,
	ttl time.Duration,
) error {
	if err := r.Client.Set(
		ctx, blacklistPrefix+jti, "1", ttl,
	).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

// IsTokenBlacklisted reports whether the JTI was revoked before its
// natural expiry.
func (r *Redis) IsTokenBlacklisted(
	ctx context.Context,
	jti string,
) (bool, error) {
	n, err := r.Client.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return n > 0, nil
}
