package keylock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/eon-interface/idealworld/internal/logging"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix    = "idealworld:lock:"
	redisPollInterval = 50 * time.Millisecond
	redisUnlockTO     = 2 * time.Second
)

// compare-and-delete so an expired holder never releases someone else's lock
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Redis is a Locker shared by every process using the same Redis instance.
// A lock expires after ttl if its holder dies.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := redisKeyPrefix + key
	token := uuid.NewString()

	for {
		ok, err := r.client.SetNX(ctx, redisKey, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(redisPollInterval):
		}
	}

	logger := logging.New(ctx)
	var once sync.Once
	return func() {
		once.Do(func() {
			uctx, cancel := context.WithTimeout(context.Background(), redisUnlockTO)
			defer cancel()
			if err := unlockScript.Run(uctx, r.client, []string{redisKey}, token).Err(); err != nil {
				logger.Warnf("keylock", "release key=%s error=%v", key, err)
			}
		})
	}, nil
}
