package locker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MKhiriev/scrapegate/internal/config"
	"github.com/MKhiriev/scrapegate/internal/logger"
)

const (
	keyPrefix     = "scrapegate:lock:"
	retryInterval = 25 * time.Millisecond
)

// releaseScript deletes the lock only if it still carries our token, so a
// holder whose TTL expired cannot release somebody else's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a [Locker] built on SET NX PX with a compare-and-delete
// release.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

func NewRedisLocker(client *redis.Client, ttl time.Duration, log *logger.Logger) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl, logger: log}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := keyPrefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		switch {
		case err != nil && ctx.Err() != nil:
			return nil, fmt.Errorf("%w: %q: %w", ErrLockTimeout, key, ctx.Err())
		case err != nil:
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		case ok:
			return l.unlocker(redisKey, token), nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %q: %w", ErrLockTimeout, key, ctx.Err())
		}
	}
}

func (l *RedisLocker) unlocker(redisKey, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			// the caller's context may already be done
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err()
			if err != nil && !errors.Is(err, redis.Nil) {
				l.logger.Err(err).Str("key", redisKey).Msg("error releasing redis lock")
			}
		})
	}
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// New returns a [RedisLocker] when cfg.Addr is set and a [KeyedMutex]
// otherwise. The returned close function releases the Redis client.
func New(ctx context.Context, cfg config.Redis, log *logger.Logger) (Locker, func() error, error) {
	if cfg.Addr == "" {
		log.Info().Msg("using in-process keyed lock")
		return NewKeyedMutex(), func() error { return nil }, nil
	}

	client, err := NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("addr", cfg.Addr).Msg("using redis lock")

	return NewRedisLocker(client, cfg.LockTTL, log), client.Close, nil
}
