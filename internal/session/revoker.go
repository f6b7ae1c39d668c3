package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRevoker keeps logged-out session ids in Redis until they would have
// expired anyway. It is optional wiring: deployments without Redis simply
// rely on the cookie being cleared.
type RedisRevoker struct {
	rdb *redis.Client
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisRevoker(cfg RedisConfig) *RedisRevoker {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &RedisRevoker{rdb: rdb}
}

func (r *RedisRevoker) key(jti string) string {
	return "session:revoked:" + jti
}

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return r.rdb.Set(ctx, r.key(jti), "1", ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.rdb.Exists(ctx, r.key(jti)).Result()

	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *RedisRevoker) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *RedisRevoker) Close() error {
	return r.rdb.Close()
}
