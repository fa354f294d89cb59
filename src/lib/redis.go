package lib

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var redisClient *redis.Client

func GetRedisClient(url string) (*redis.Client, error) {
	if redisClient != nil {
		return redisClient, nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("[redis] error parsing connection string: %w", err)
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb, nil
}

const unlockScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`

// RedisLocker is a lease-based lock shared by every API instance. The lease
// expires after ttl so a crashed holder cannot wedge a key forever.
type RedisLocker struct {
	rdb      redis.Cmdable
	ttl      time.Duration
	retry    time.Duration
	logger   *zap.Logger
	newToken func() string
}

func NewRedisLocker(rdb redis.Cmdable, ttl time.Duration, logger *zap.Logger) *RedisLocker {
	return &RedisLocker{
		rdb:      rdb,
		ttl:      ttl,
		retry:    50 * time.Millisecond,
		logger:   logger,
		newToken: uuid.NewString,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	k := "lock:" + key
	token := l.newToken()
	for {
		ok, err := l.rdb.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s", ErrLockBusy, key)
		case <-time.After(l.retry):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := l.rdb.Eval(rctx, unlockScript, []string{k}, token).Err(); err != nil {
				l.logger.Warn("could not release lock, lease will expire", zap.String("key", k), zap.Error(err))
			}
		})
	}, nil
}
