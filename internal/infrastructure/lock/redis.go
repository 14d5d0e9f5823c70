package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"repairdesk/internal/core/apperror"
	"repairdesk/pkg/logger"
)

// RedisConfig holds connection settings for the lock backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient creates a Redis client.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Ping tests the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}

// unlockScript deletes the key only if it still holds our token.
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Redis is a distributed lock built on SET NX PX. It serialises pool edits
// across server instances.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	retry  time.Duration
	wait   time.Duration
}

// RedisOptions tunes the lock.
type RedisOptions struct {
	Prefix string        // key prefix, default "repairdesk:lock:"
	TTL    time.Duration // lock expiry, must exceed the slowest edit
	Retry  time.Duration // poll interval while waiting
	Wait   time.Duration // give up after this long
}

// NewRedis creates a Redis-backed locker.
func NewRedis(client *redis.Client, opts RedisOptions) *Redis {
	if opts.Prefix == "" {
		opts.Prefix = "repairdesk:lock:"
	}
	if opts.TTL <= 0 {
		opts.TTL = 10 * time.Second
	}
	if opts.Retry <= 0 {
		opts.Retry = 50 * time.Millisecond
	}
	if opts.Wait <= 0 {
		opts.Wait = DefaultWait
	}
	return &Redis{
		client: client,
		prefix: opts.Prefix,
		ttl:    opts.TTL,
		retry:  opts.Retry,
		wait:   opts.Wait,
	}
}

// Ready pings Redis; used by the readiness probe.
func (r *Redis) Ready(ctx context.Context) error {
	return Ping(ctx, r.client)
}

// Lock polls until the key is acquired, ctx is done or the wait budget runs out.
func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := r.prefix + key
	token := uuid.New().String()

	waitCtx, cancel := context.WithTimeout(ctx, r.wait)
	defer cancel()

	ticker := time.NewTicker(r.retry)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(waitCtx, redisKey, token, r.ttl).Result()
		if err != nil && waitCtx.Err() == nil {
			return nil, fmt.Errorf("acquire pool lock %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-waitCtx.Done():
			return nil, apperror.NewPoolLocked(key).WithCause(waitCtx.Err())
		case <-ticker.C:
		}
	}

	return func() {
		// Release even if the request context was cancelled meanwhile.
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := unlockScript.Run(releaseCtx, r.client, []string{redisKey}, token).Err(); err != nil && err != redis.Nil {
			logger.Warn(ctx, "release pool lock failed", "key", key, "error", err)
		}
	}, nil
}
